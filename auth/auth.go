package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"

	"inventario/config"
	"inventario/models"
)

var Store *sessions.CookieStore

func InitStore() {
	// Derive two 32-byte keys from the session key to ensure secure encryption
	// Auth key for signing (HMAC)
	authKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "auth"))
	// Encryption key for content encryption (AES)
	encKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "encryption"))

	Store = sessions.NewCookieStore(authKey[:], encKey[:])

	// Ensure cookie security settings
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   config.AppConfig.ListenAddr != ":8080", // Default to true unless dev port
		SameSite: http.SameSiteLaxMode,
	}
}

const SessionName = "inventario-session"

// CurrentSession reads the logged-in identity from the request cookie.
// An absent or unreadable cookie yields an unauthenticated session.
func CurrentSession(r *http.Request) models.Session {
	session, _ := Store.Get(r, SessionName)
	username, _ := session.Values["username"].(string)
	role, _ := session.Values["role"].(string)
	return models.Session{
		Authenticated: username != "",
		Username:      username,
		Role:          role,
	}
}

func IsAdmin(r *http.Request) bool {
	return CurrentSession(r).IsAdmin()
}

func SetSession(w http.ResponseWriter, r *http.Request, username, role string) {
	session, _ := Store.Get(r, SessionName)
	session.Values["username"] = username
	session.Values["role"] = role
	session.Save(r, w)
}

func ClearSession(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)
}

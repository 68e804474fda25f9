package main

import (
	"log"
	"net/http"

	"github.com/gorilla/csrf"

	"inventario/auth"
	"inventario/config"
	"inventario/handlers"
	"inventario/i18n"
	"inventario/store"
)

func main() {
	if err := config.LoadConfig("secrets.env", "config.env"); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := i18n.LoadTranslations("i18n"); err != nil {
		log.Fatalf("Error loading translations: %v", err)
	}

	auth.InitStore()

	stores, err := store.Open(&config.AppConfig)
	if err != nil {
		log.Fatalf("Error opening %s storage: %v", config.AppConfig.Backend, err)
	}
	defer stores.Close()

	handlers.Configure(stores)

	if err := handlers.Auth.EnsureSeeded(); err != nil {
		log.Fatalf("Error seeding default accounts: %v", err)
	}

	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Register application handlers
	handlers.RegisterHandlers(mux)

	log.Printf("Server starting on %s (%s, backend=%s)",
		config.AppConfig.ListenAddr, config.AppConfig.AppName, config.AppConfig.Backend)

	// CSRF Protection
	// We need a 32-byte key. Using session key for now, assuming it's suitable.
	csrfMiddleware := csrf.Protect(
		[]byte(config.AppConfig.SessionKey),
		csrf.Secure(false), // Set to true in production with HTTPS
		csrf.Path("/"),
	)

	handler := handlers.CORSMiddleware(
		handlers.SecurityHeadersMiddleware(
			handlers.CacheControlMiddleware(
				csrfMiddleware(mux))))

	if err := http.ListenAndServe(config.AppConfig.ListenAddr, handler); err != nil {
		log.Fatal(err)
	}
}

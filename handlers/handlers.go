package handlers

import (
	"encoding/csv"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"inventario/auth"
	"inventario/config"
	"inventario/i18n"
	"inventario/models"
	"inventario/store"
	"inventario/workflow"
)

var (
	Auth    *auth.Service
	Entry   *workflow.Entry
	Admin   *workflow.Admin
	Creds   store.CredentialStore
	Counts  store.CountStore
	Catalog store.ProductCatalog
)

// Configure wires the handlers to the opened stores. Must run before any
// request is served.
func Configure(st *store.Stores) {
	Auth = auth.NewService(st.Creds)
	Entry = workflow.NewEntry(st.Counts)
	Admin = &workflow.Admin{Creds: st.Creds}
	Creds = st.Creds
	Counts = st.Counts
	Catalog = st.Catalog
}

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", IndexHandler)
	mux.HandleFunc("/login", LoginHandler)
	mux.HandleFunc("/logout", LogoutHandler)
	mux.HandleFunc("/count", CountHandler)
	mux.HandleFunc("/counts", CountsHandler)
	mux.HandleFunc("/counts/export", ExportCountsHandler)
	mux.HandleFunc("/admin", AdminHandler)
	mux.HandleFunc("/admin/password", AdminPasswordHandler)
	mux.HandleFunc("/admin/users", AdminCreateUserHandler)

	// JSON API endpoints
	mux.HandleFunc("/api/v1/login", APILoginHandler)
	mux.HandleFunc("/api/v1/products", APIProductsHandler)
	mux.HandleFunc("/api/v1/counts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			APIListCountsHandler(w, r)
		case http.MethodPost:
			APISubmitCountHandler(w, r)
		default:
			sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: "Method not allowed"})
		}
	})
}

func IndexHandler(w http.ResponseWriter, r *http.Request) {
	if auth.CurrentSession(r).Authenticated {
		http.Redirect(w, r, "/count", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		username := r.FormValue("username")
		password := r.FormValue("password")

		ok, role := Auth.Authenticate(username, password)
		if !ok {
			lang := i18n.DetectLanguage(r)
			renderTemplate(w, r, "login.html", map[string]any{
				"Error":    i18n.T(lang, "InvalidCredentials"),
				"Username": username,
			})
			return
		}

		auth.SetSession(w, r, models.NormalizeUsername(username), role)
		http.Redirect(w, r, "/count", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", map[string]any{"Error": "", "Username": ""})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// CountHandler renders the entry form and takes submissions. A valid
// submission appends one record and redirects back to an empty form; a
// validation failure re-renders the form with the operator's values intact
// and a field warning.
func CountHandler(w http.ResponseWriter, r *http.Request) {
	sess := auth.CurrentSession(r)
	if !sess.Authenticated {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		form := entryFormFromRequest(r)

		_, err := Entry.Submit(sess, form)
		if ve, ok := err.(*workflow.ValidationError); ok {
			lang := i18n.DetectLanguage(r)
			renderCountPage(w, r, sess, form, i18n.T(lang, ve.Key), false)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/count?saved=1", http.StatusSeeOther)
		return
	}

	saved := r.URL.Query().Get("saved") == "1"
	renderCountPage(w, r, sess, &workflow.EntryForm{}, "", saved)
}

func entryFormFromRequest(r *http.Request) *workflow.EntryForm {
	form := &workflow.EntryForm{
		CountType:   r.FormValue("count_type"),
		Location:    r.FormValue("location"),
		Tag:         r.FormValue("tag"),
		Code:        r.FormValue("code"),
		Description: r.FormValue("description"),
		Quantity:    r.FormValue("quantity"),
	}

	// Two entry modes: picking from the catalog fills code and description,
	// otherwise both are typed manually.
	if form.Code == "" {
		if code := r.FormValue("product_code"); code != "" {
			form.Code = code
			if desc, ok := Catalog.Lookup(code); ok && form.Description == "" {
				form.Description = desc
			}
		}
	}
	return form
}

func renderCountPage(w http.ResponseWriter, r *http.Request, sess models.Session, form *workflow.EntryForm, warning string, saved bool) {
	renderTemplate(w, r, "count.html", map[string]any{
		"Form":       form,
		"Warning":    warning,
		"Saved":      saved,
		"CountTypes": models.CountTypes,
		"Locations":  models.AllowedLocations(sess.Username),
		"Products":   Catalog.ListAll(),
	})
}

func CountsHandler(w http.ResponseWriter, r *http.Request) {
	if !auth.IsAdmin(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	records, err := Counts.ListAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, "counts.html", map[string]any{"Records": records})
}

// ExportCountsHandler streams every count record as CSV. The file starts
// with a UTF-8 BOM so Excel decodes the accented product descriptions.
func ExportCountsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !auth.IsAdmin(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	records, err := Counts.ListAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"contagens.csv\"")
	w.Write([]byte("\xef\xbb\xbf"))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"DataHora", "Usuario", "TipoContagem", "Local", "Etiqueta", "Codigo", "Descricao", "QtdFisica"})
	for _, rec := range records {
		writer.Write([]string{
			rec.Timestamp, rec.Username, rec.CountType, rec.Location,
			rec.Tag, rec.Code, rec.Description, strconv.Itoa(rec.Quantity),
		})
	}
}

func AdminHandler(w http.ResponseWriter, r *http.Request) {
	if !auth.IsAdmin(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	renderAdminPage(w, r, "", "")
}

func AdminPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if !auth.IsAdmin(r) || r.Method != http.MethodPost {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	lang := i18n.DetectLanguage(r)
	err := Admin.UpdatePassword(r.FormValue("username"), r.FormValue("password"))
	if ve, ok := err.(*workflow.ValidationError); ok {
		renderAdminPage(w, r, i18n.T(lang, ve.Key), "")
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renderAdminPage(w, r, "", i18n.T(lang, "PasswordUpdated"))
}

func AdminCreateUserHandler(w http.ResponseWriter, r *http.Request) {
	if !auth.IsAdmin(r) || r.Method != http.MethodPost {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	lang := i18n.DetectLanguage(r)
	err := Admin.CreateUser(r.FormValue("username"), r.FormValue("password"), r.FormValue("role"))
	if ve, ok := err.(*workflow.ValidationError); ok {
		renderAdminPage(w, r, i18n.T(lang, ve.Key), "")
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renderAdminPage(w, r, "", i18n.T(lang, "UserCreated"))
}

func renderAdminPage(w http.ResponseWriter, r *http.Request, warning, message string) {
	users, err := Creds.Users()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, "admin.html", map[string]any{
		"Users":   users,
		"Roles":   []string{models.RoleStandard, models.RoleAdmin},
		"Warning": warning,
		"Message": message,
	})
}

func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	lang := i18n.DetectLanguage(r)

	funcMap := template.FuncMap{
		"T": func(key string) string {
			return i18n.T(lang, key)
		},
	}

	tmpl, err := template.New(name).Funcs(funcMap).ParseFiles("templates/layout.html", "templates/"+name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Prepare CSRF field
	csrfField := csrf.TemplateField(r)

	m, ok := data.(map[string]any)
	if !ok {
		m = map[string]any{}
	}
	if _, exists := m["AppName"]; !exists {
		m["AppName"] = config.AppConfig.AppName
	}
	m["Lang"] = lang
	m["Session"] = auth.CurrentSession(r)
	m["csrfField"] = csrfField

	tmpl.ExecuteTemplate(w, "layout", m)
}

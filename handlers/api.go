package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"inventario/auth"
	"inventario/i18n"
	"inventario/models"
	"inventario/workflow"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func sendJSONResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// APILoginHandler authenticates and sets the same session cookie the web
// pages use. The failure message never says whether the user or the password
// was wrong.
func APILoginHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	if r.Method != http.MethodPost {
		sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: i18n.T(lang, "MethodNotAllowed")})
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	ok, role := Auth.Authenticate(input.Username, input.Password)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidCredentials")})
		return
	}

	username := models.NormalizeUsername(input.Username)
	auth.SetSession(w, r, username, role)
	sendJSONResponse(w, http.StatusOK, APIResponse{
		Status: "success",
		Data: map[string]any{
			"username": username,
			"role":     role,
		},
	})
}

func APIProductsHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	if !auth.CurrentSession(r).Authenticated {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: Catalog.ListAll()})
}

func APIListCountsHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	if !auth.IsAdmin(r) {
		sendJSONResponse(w, http.StatusForbidden, APIResponse{Status: "error", Message: i18n.T(lang, "Forbidden")})
		return
	}

	records, err := Counts.ListAll()
	if err != nil {
		log.Printf("Error listing counts (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: records})
}

func APISubmitCountHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	sess := auth.CurrentSession(r)
	if !sess.Authenticated {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input struct {
		CountType   string `json:"count_type"`
		Location    string `json:"location"`
		Tag         string `json:"tag"`
		Code        string `json:"code"`
		Description string `json:"description"`
		Quantity    string `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	form := &workflow.EntryForm{
		CountType:   input.CountType,
		Location:    input.Location,
		Tag:         input.Tag,
		Code:        input.Code,
		Description: input.Description,
		Quantity:    input.Quantity,
	}
	if form.Description == "" && form.Code != "" {
		if desc, ok := Catalog.Lookup(form.Code); ok {
			form.Description = desc
		}
	}

	rec, err := Entry.Submit(sess, form)
	if ve, ok := err.(*workflow.ValidationError); ok {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, ve.Key), Field: ve.Field})
		return
	}
	if err != nil {
		log.Printf("Error appending count (API): %v", err)
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusCreated, APIResponse{Status: "success", Message: i18n.T(lang, "CountSaved"), Data: rec})
}

// Package workflow holds the two form workflows on top of the stores: count
// entry and user administration. All validation failures come back as
// *ValidationError carrying a translation key; handlers turn them into
// field-level warnings and nothing is ever written on a failed validation.
package workflow

import (
	"strconv"
	"strings"
	"time"

	"inventario/models"
	"inventario/store"
)

type ValidationError struct {
	Field string
	Key   string // i18n key for the user-visible warning
}

func (e *ValidationError) Error() string { return e.Key }

// EntryForm carries the transient field values of one count entry. Fields may
// be filled in any order; they are validated only at submission.
type EntryForm struct {
	CountType   string
	Location    string
	Tag         string
	Code        string
	Description string
	Quantity    string
}

func (f *EntryForm) Reset() {
	*f = EntryForm{}
}

type Entry struct {
	Counts store.CountStore
	Now    func() time.Time
}

func NewEntry(counts store.CountStore) *Entry {
	return &Entry{Counts: counts, Now: time.Now}
}

// Submit validates the form and appends exactly one count record. On success
// every form field is reset for the next entry; the reset happens only after
// the append succeeded, so an aborted submission keeps the operator's input.
func (e *Entry) Submit(sess models.Session, form *EntryForm) (models.CountRecord, error) {
	if form.CountType == "" {
		return models.CountRecord{}, &ValidationError{Field: "count_type", Key: "SelectCountType"}
	}
	if form.Location == "" {
		return models.CountRecord{}, &ValidationError{Field: "location", Key: "SelectLocation"}
	}
	if !models.LocationAllowed(sess.Username, form.Location) {
		return models.CountRecord{}, &ValidationError{Field: "location", Key: "LocationNotAllowed"}
	}
	if strings.TrimSpace(form.Tag) == "" {
		return models.CountRecord{}, &ValidationError{Field: "tag", Key: "EnterTag"}
	}
	if strings.TrimSpace(form.Code) == "" {
		return models.CountRecord{}, &ValidationError{Field: "code", Key: "EnterCode"}
	}
	if strings.TrimSpace(form.Description) == "" {
		return models.CountRecord{}, &ValidationError{Field: "description", Key: "EnterDescription"}
	}
	qty, err := strconv.Atoi(strings.TrimSpace(form.Quantity))
	if err != nil || qty < 1 {
		return models.CountRecord{}, &ValidationError{Field: "quantity", Key: "InvalidQuantity"}
	}

	rec := models.CountRecord{
		Timestamp:   e.Now().Format(models.TimestampLayout),
		Username:    sess.Username,
		CountType:   form.CountType,
		Location:    form.Location,
		Tag:         strings.TrimSpace(form.Tag),
		Code:        strings.TrimSpace(form.Code),
		Description: strings.TrimSpace(form.Description),
		Quantity:    qty,
	}
	if err := e.Counts.Append(rec); err != nil {
		return models.CountRecord{}, err
	}

	form.Reset()
	return rec, nil
}

// Admin performs the two account operations available to administrators.
// Role checks stay in the HTTP layer.
type Admin struct {
	Creds store.CredentialStore
}

// UpdatePassword sets a new password for an existing account.
func (a *Admin) UpdatePassword(username, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return &ValidationError{Field: "password", Key: "EnterNewPassword"}
	}
	return a.Creds.UpdatePassword(models.NormalizeUsername(username), strings.TrimSpace(newPassword))
}

// CreateUser inserts a new account. The username must be non-empty, free of
// whitespace and not taken (case-insensitively); the initial password must be
// non-empty. Any role other than admin becomes the standard role.
func (a *Admin) CreateUser(username, password, role string) error {
	u := models.NormalizeUsername(username)
	if u == "" || strings.ContainsAny(u, " \t") {
		return &ValidationError{Field: "username", Key: "InvalidUsername"}
	}

	exists, err := a.Creds.Exists(u)
	if err != nil {
		return err
	}
	if exists {
		return &ValidationError{Field: "username", Key: "UserAlreadyExists"}
	}

	p := strings.TrimSpace(password)
	if p == "" {
		return &ValidationError{Field: "password", Key: "EnterInitialPassword"}
	}

	if role != models.RoleAdmin {
		role = models.RoleStandard
	}
	return a.Creds.Upsert(models.User{Username: u, Password: p, Role: role})
}

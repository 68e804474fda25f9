// Package csvstore persists accounts and counts in flat CSV files, the same
// files the spreadsheet-based tooling around this system already consumes.
// Everything it writes carries a UTF-8 BOM so Excel opens the files with the
// right encoding.
package csvstore

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"inventario/models"
)

const bom = "\xef\xbb\xbf"

var (
	userHeader  = []string{"usuario", "senha", "perfil"}
	countHeader = []string{"DataHora", "Usuario", "TipoContagem", "Local", "Etiqueta", "Codigo", "Descricao", "QtdFisica"}
)

type Store struct {
	dir string

	// Guards this process against interleaving its own file rewrites.
	// There is deliberately no cross-process locking: concurrent writers
	// race and the last write wins.
	mu sync.Mutex
}

func New(dir string) *Store {
	os.MkdirAll(dir, 0o755)
	return &Store{dir: dir}
}

func (s *Store) usersPath() string  { return filepath.Join(s.dir, "usuarios.csv") }
func (s *Store) countsPath() string { return filepath.Join(s.dir, "contagens.csv") }

// readRows returns the CSV rows of path without the header. A missing file is
// an empty table, not an error.
func readRows(path string, header []string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, []byte(bom))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(rows) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), header[0]) {
		rows = rows[1:]
	}
	return rows, nil
}

func (s *Store) Users() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readUsers()
}

func (s *Store) readUsers() ([]models.User, error) {
	rows, err := readRows(s.usersPath(), userHeader)
	if err != nil {
		return nil, err
	}

	var users []models.User
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		users = append(users, models.User{
			Username: models.NormalizeUsername(row[0]),
			Password: strings.TrimSpace(row[1]),
			Role:     strings.ToLower(strings.TrimSpace(row[2])),
		})
	}
	return users, nil
}

func (s *Store) Exists(username string) (bool, error) {
	users, err := s.Users()
	if err != nil {
		return false, err
	}
	username = models.NormalizeUsername(username)
	for _, u := range users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Upsert replaces the account with the same username or appends a new one,
// then rewrites the whole table.
func (s *Store) Upsert(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers()
	if err != nil {
		return err
	}

	user.Username = models.NormalizeUsername(user.Username)
	replaced := false
	for i, u := range users {
		if u.Username == user.Username {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}
	return s.writeUsers(users)
}

// UpdatePassword changes only the password column for the given username.
// An unknown username is a no-op, matching the behavior of the sheet this
// file replaces.
func (s *Store) UpdatePassword(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers()
	if err != nil {
		return err
	}

	username = models.NormalizeUsername(username)
	for i, u := range users {
		if u.Username == username {
			users[i].Password = strings.TrimSpace(password)
		}
	}
	return s.writeUsers(users)
}

func (s *Store) writeUsers(users []models.User) error {
	f, err := os.Create(s.usersPath())
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(bom); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Write(userHeader)
	for _, u := range users {
		w.Write([]string{u.Username, u.Password, u.Role})
	}
	w.Flush()
	return w.Error()
}

// Append adds one count record to the end of the log. The file and its header
// are created on first use.
func (s *Store) Append(rec models.CountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.countsPath()
	_, statErr := os.Stat(path)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if os.IsNotExist(statErr) {
		if _, err := f.WriteString(bom); err != nil {
			return err
		}
		w.Write(countHeader)
	}

	w.Write([]string{
		rec.Timestamp,
		rec.Username,
		rec.CountType,
		rec.Location,
		rec.Tag,
		rec.Code,
		rec.Description,
		strconv.Itoa(rec.Quantity),
	})
	w.Flush()
	return w.Error()
}

// ListAll returns every count in insertion order (the file is append-only).
func (s *Store) ListAll() ([]models.CountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := readRows(s.countsPath(), countHeader)
	if err != nil {
		return nil, err
	}

	var records []models.CountRecord
	for _, row := range rows {
		if len(row) < 8 {
			continue
		}
		qty, _ := strconv.Atoi(strings.TrimSpace(row[7]))
		records = append(records, models.CountRecord{
			Timestamp:   row[0],
			Username:    row[1],
			CountType:   row[2],
			Location:    row[3],
			Tag:         row[4],
			Code:        row[5],
			Description: row[6],
			Quantity:    qty,
		})
	}
	return records, nil
}

// Package sqlitestore is the single-file local table backend. It keeps the
// same column names as the remote tables so data can be moved between
// backends with plain SQL.
package sqlitestore

import (
	"database/sql"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"inventario/models"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	createTables := `
	CREATE TABLE IF NOT EXISTS usuarios (
		usuario TEXT PRIMARY KEY,
		senha TEXT NOT NULL,
		perfil TEXT NOT NULL DEFAULT 'padrao'
	);

	CREATE TABLE IF NOT EXISTS contagens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		datahora TEXT NOT NULL,
		usuario TEXT NOT NULL,
		tipocontagem TEXT NOT NULL,
		local TEXT NOT NULL,
		etiqueta TEXT NOT NULL,
		codigo TEXT NOT NULL,
		descricao TEXT NOT NULL,
		qtdfisica TEXT NOT NULL
	);
	`
	if _, err := db.Exec(createTables); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Users() ([]models.User, error) {
	rows, err := s.db.Query("SELECT usuario, senha, perfil FROM usuarios")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.Password, &u.Role); err != nil {
			return nil, err
		}
		u.Username = models.NormalizeUsername(u.Username)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) Exists(username string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM usuarios WHERE usuario = ?",
		models.NormalizeUsername(username)).Scan(&count)
	return count > 0, err
}

func (s *Store) Upsert(user models.User) error {
	_, err := s.db.Exec(`INSERT INTO usuarios (usuario, senha, perfil) VALUES (?, ?, ?)
		ON CONFLICT(usuario) DO UPDATE SET senha = excluded.senha, perfil = excluded.perfil`,
		models.NormalizeUsername(user.Username), user.Password, user.Role)
	return err
}

func (s *Store) UpdatePassword(username, password string) error {
	_, err := s.db.Exec("UPDATE usuarios SET senha = ? WHERE usuario = ?",
		strings.TrimSpace(password), models.NormalizeUsername(username))
	return err
}

func (s *Store) Append(rec models.CountRecord) error {
	_, err := s.db.Exec(`INSERT INTO contagens
		(datahora, usuario, tipocontagem, local, etiqueta, codigo, descricao, qtdfisica)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.Username, rec.CountType, rec.Location,
		rec.Tag, rec.Code, rec.Description, strconv.Itoa(rec.Quantity))
	return err
}

// ListAll returns counts most-recent-first, ordered by the insert id.
func (s *Store) ListAll() ([]models.CountRecord, error) {
	rows, err := s.db.Query(`SELECT datahora, usuario, tipocontagem, local, etiqueta, codigo, descricao, qtdfisica
		FROM contagens ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CountRecord
	for rows.Next() {
		var rec models.CountRecord
		var qty string
		if err := rows.Scan(&rec.Timestamp, &rec.Username, &rec.CountType, &rec.Location,
			&rec.Tag, &rec.Code, &rec.Description, &qty); err != nil {
			return nil, err
		}
		rec.Quantity, _ = strconv.Atoi(qty)
		records = append(records, rec)
	}
	return records, rows.Err()
}

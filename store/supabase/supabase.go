// Package supabase is the remote table backend. It talks to the Supabase
// REST interface (PostgREST) using the project URL and access key from
// configuration. Consistency relies on the single-row atomicity of the
// upserts and inserts; there is no optimistic concurrency control.
package supabase

import (
	"strconv"
	"strings"

	"github.com/supabase-community/postgrest-go"

	"inventario/models"
)

type Store struct {
	client *postgrest.Client
}

func New(projectURL, apiKey string) *Store {
	restURL := strings.TrimRight(projectURL, "/") + "/rest/v1"
	client := postgrest.NewClient(restURL, "public", map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	return &Store{client: client}
}

type userRow struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
	Perfil  string `json:"perfil"`
}

type countRow struct {
	ID           int    `json:"id,omitempty"`
	DataHora     string `json:"datahora"`
	Usuario      string `json:"usuario"`
	TipoContagem string `json:"tipocontagem"`
	Local        string `json:"local"`
	Etiqueta     string `json:"etiqueta"`
	Codigo       string `json:"codigo"`
	Descricao    string `json:"descricao"`
	QtdFisica    string `json:"qtdfisica"`
}

type productRow struct {
	Codigo    string `json:"Codigo"`
	Descricao string `json:"Descricao"`
}

func (s *Store) Users() ([]models.User, error) {
	var rows []userRow
	_, err := s.client.From("usuarios").Select("*", "", false).ExecuteTo(&rows)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, models.User{
			Username: models.NormalizeUsername(row.Usuario),
			Password: strings.TrimSpace(row.Senha),
			Role:     strings.ToLower(strings.TrimSpace(row.Perfil)),
		})
	}
	return users, nil
}

func (s *Store) Exists(username string) (bool, error) {
	var rows []userRow
	_, err := s.client.From("usuarios").
		Select("usuario", "", false).
		Eq("usuario", models.NormalizeUsername(username)).
		ExecuteTo(&rows)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (s *Store) Upsert(user models.User) error {
	row := userRow{
		Usuario: models.NormalizeUsername(user.Username),
		Senha:   user.Password,
		Perfil:  user.Role,
	}
	_, _, err := s.client.From("usuarios").
		Insert(row, true, "usuario", "minimal", "").
		Execute()
	return err
}

func (s *Store) UpdatePassword(username, password string) error {
	_, _, err := s.client.From("usuarios").
		Update(map[string]string{"senha": strings.TrimSpace(password)}, "minimal", "").
		Eq("usuario", models.NormalizeUsername(username)).
		Execute()
	return err
}

func (s *Store) Append(rec models.CountRecord) error {
	row := countRow{
		DataHora:     rec.Timestamp,
		Usuario:      rec.Username,
		TipoContagem: rec.CountType,
		Local:        rec.Location,
		Etiqueta:     rec.Tag,
		Codigo:       rec.Code,
		Descricao:    rec.Description,
		QtdFisica:    strconv.Itoa(rec.Quantity),
	}
	_, _, err := s.client.From("contagens").
		Insert(row, false, "", "minimal", "").
		Execute()
	return err
}

// ListAll returns counts most-recent-first, ordered by the identifier column.
func (s *Store) ListAll() ([]models.CountRecord, error) {
	var rows []countRow
	_, err := s.client.From("contagens").
		Select("*", "", false).
		Order("id", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, err
	}

	records := make([]models.CountRecord, 0, len(rows))
	for _, row := range rows {
		qty, _ := strconv.Atoi(row.QtdFisica)
		records = append(records, models.CountRecord{
			Timestamp:   row.DataHora,
			Username:    row.Usuario,
			CountType:   row.TipoContagem,
			Location:    row.Local,
			Tag:         row.Etiqueta,
			Code:        row.Codigo,
			Description: row.Descricao,
			Quantity:    qty,
		})
	}
	return records, nil
}

// Products fetches the raw remote catalog; the caller wraps it in the
// TTL cache.
func (s *Store) Products() ([]models.Product, error) {
	var rows []productRow
	_, err := s.client.From("Produtos").Select("*", "", false).ExecuteTo(&rows)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, models.Product{Code: row.Codigo, Description: row.Descricao})
	}
	return products, nil
}

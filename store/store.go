package store

import (
	"fmt"
	"time"

	"inventario/config"
	"inventario/models"
	"inventario/store/csvstore"
	"inventario/store/sqlitestore"
	"inventario/store/supabase"
)

// CredentialStore holds user accounts keyed by normalized username. Writes
// are synchronous and last-write-wins: the flat-file backend rewrites the
// whole table, the table backends do single-row upserts.
type CredentialStore interface {
	Users() ([]models.User, error)
	Exists(username string) (bool, error)
	Upsert(user models.User) error
	UpdatePassword(username, password string) error
}

// CountStore is the append-only log of submitted counts. No update or delete
// is exposed anywhere.
type CountStore interface {
	Append(rec models.CountRecord) error
	ListAll() ([]models.CountRecord, error)
}

// ProductCatalog is the read-only code -> description lookup.
type ProductCatalog interface {
	Lookup(code string) (string, bool)
	ListAll() []models.Product
}

// catalogTTL bounds read cost against the remote catalog; stale reads within
// the window are accepted.
const catalogTTL = 120 * time.Second

type Stores struct {
	Creds   CredentialStore
	Counts  CountStore
	Catalog ProductCatalog

	close func() error
}

func (s *Stores) Close() error {
	if s.close != nil {
		return s.close()
	}
	return nil
}

// Open selects the persistence backend from configuration. Call sites never
// branch on the backend themselves.
func Open(cfg *config.Config) (*Stores, error) {
	switch cfg.Backend {
	case "csv":
		cs := csvstore.New(cfg.DataDir)
		return &Stores{
			Creds:   cs,
			Counts:  cs,
			Catalog: NewCachedCatalog(fileCatalog(cfg.ProductsFile), 0),
		}, nil

	case "sqlite":
		ss, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Creds:   ss,
			Counts:  ss,
			Catalog: NewCachedCatalog(fileCatalog(cfg.ProductsFile), 0),
			close:   ss.Close,
		}, nil

	case "supabase":
		sb := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey)
		return &Stores{
			Creds:   sb,
			Counts:  sb,
			Catalog: NewCachedCatalog(sb.Products, catalogTTL),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func fileCatalog(path string) func() ([]models.Product, error) {
	return func() ([]models.Product, error) {
		return csvstore.ReadProducts(path)
	}
}

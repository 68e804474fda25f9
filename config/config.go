package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName      string
	Backend      string // "csv", "sqlite" or "supabase"
	ListenAddr   string
	SessionKey   string
	DataDir      string
	ProductsFile string
	SQLitePath   string
	SupabaseURL  string
	SupabaseKey  string
}

var AppConfig Config

// LoadConfig resolves settings from three layers: a secrets file, a local
// key=value config file, then the process environment. The first non-empty
// value wins per key. Both files are optional.
func LoadConfig(secretsPath, configPath string) error {
	secrets, err := readOptional(secretsPath)
	if err != nil {
		return err
	}
	local, err := readOptional(configPath)
	if err != nil {
		return err
	}

	get := func(key string) string {
		if v := secrets[key]; v != "" {
			return v
		}
		if v := local[key]; v != "" {
			return v
		}
		return os.Getenv(key)
	}

	AppConfig = Config{
		AppName:      get("INV_APP_NAME"),
		Backend:      get("INV_BACKEND"),
		ListenAddr:   get("INV_LISTEN_ADDR"),
		SessionKey:   get("INV_SESSION_KEY"),
		DataDir:      get("INV_DATA_DIR"),
		ProductsFile: get("INV_PRODUCTS_FILE"),
		SQLitePath:   get("INV_SQLITE_PATH"),
		SupabaseURL:  get("SUPABASE_URL"),
		SupabaseKey:  get("SUPABASE_KEY"),
	}

	if AppConfig.AppName == "" {
		AppConfig.AppName = "Inventário Supermercado"
	}
	if AppConfig.Backend == "" {
		AppConfig.Backend = "csv"
	}
	if AppConfig.ListenAddr == "" {
		AppConfig.ListenAddr = ":8080"
	}
	if AppConfig.DataDir == "" {
		AppConfig.DataDir = "db"
	}
	if AppConfig.ProductsFile == "" {
		AppConfig.ProductsFile = "Produtos.xlsx"
	}
	if AppConfig.SQLitePath == "" {
		AppConfig.SQLitePath = "inventario.db"
	}

	switch AppConfig.Backend {
	case "csv", "sqlite":
	case "supabase":
		if AppConfig.SupabaseURL == "" || AppConfig.SupabaseKey == "" {
			return fmt.Errorf("backend %q requires SUPABASE_URL and SUPABASE_KEY (set them in %s, %s or the environment)",
				AppConfig.Backend, secretsPath, configPath)
		}
	default:
		return fmt.Errorf("unknown INV_BACKEND %q (expected csv, sqlite or supabase)", AppConfig.Backend)
	}

	// If no key is provided, generate a secure random one
	if AppConfig.SessionKey == "" {
		log.Println("WARNING: No session key configured. Generating a random key. Sessions will be invalidated on restart.")
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err != nil {
			return err
		}
		AppConfig.SessionKey = hex.EncodeToString(randomKey)
	}

	return nil
}

func readOptional(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}

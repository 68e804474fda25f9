package auth

import (
	"log"
	"strings"

	"inventario/models"
	"inventario/store"
)

// Service validates credentials against the credential store.
//
// Passwords are stored and compared verbatim in plaintext. That reproduces
// the data already on disk and in the remote tables; hashing would lock every
// existing account out. Known defect, kept until the credential data itself
// is migrated.
type Service struct {
	Creds store.CredentialStore
}

func NewService(creds store.CredentialStore) *Service {
	return &Service{Creds: creds}
}

// Authenticate normalizes the username (trim, lowercase) and trims the
// password, then requires exact equality. It fails closed: unknown user,
// wrong password and store errors all report plain failure.
func (s *Service) Authenticate(username, password string) (bool, string) {
	u := models.NormalizeUsername(username)
	p := strings.TrimSpace(password)
	if u == "" {
		return false, ""
	}

	users, err := s.Creds.Users()
	if err != nil {
		log.Printf("Error reading users during login: %v", err)
		return false, ""
	}

	for _, user := range users {
		if user.Username == u && user.Password == p {
			return true, user.Role
		}
	}
	return false, ""
}

// seedUsers is the fixed first-run account list with its shared default
// password.
var seedUsers = []models.User{
	{Username: "aline", Password: "123", Role: models.RoleAdmin},
	{Username: "guilherme", Password: "123", Role: models.RoleAdmin},
	{Username: "erick", Password: "123", Role: models.RoleStandard},
	{Username: "jaciane", Password: "123", Role: models.RoleStandard},
	{Username: "gilmar", Password: "123", Role: models.RoleStandard},
	{Username: "rafael", Password: "123", Role: models.RoleStandard},
	{Username: "caio", Password: "123", Role: models.RoleStandard},
	{Username: "fernando", Password: "123", Role: models.RoleStandard},
	{Username: "andre", Password: "123", Role: models.RoleStandard},
	{Username: "eduardo", Password: "123", Role: models.RoleStandard},
	{Username: "cleber", Password: "123", Role: models.RoleStandard},
	{Username: "daniel", Password: "123", Role: models.RoleStandard},
	{Username: "lucas", Password: "123", Role: models.RoleStandard},
	{Username: "junior", Password: "123", Role: models.RoleStandard},
	{Username: "vera", Password: "123", Role: models.RoleStandard},
	{Username: "vitor", Password: "123", Role: models.RoleStandard},
	{Username: "cibele", Password: "123", Role: models.RoleStandard},
}

// EnsureSeeded creates the default accounts when the credential store is
// empty. Idempotent: any existing account makes it a no-op.
func (s *Service) EnsureSeeded() error {
	users, err := s.Creds.Users()
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	for _, u := range seedUsers {
		if err := s.Creds.Upsert(u); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d default accounts", len(seedUsers))
	return nil
}

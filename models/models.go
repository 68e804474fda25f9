package models

import "strings"

const (
	RoleAdmin    = "admin"
	RoleStandard = "padrao"
)

// Locations and count types carry the exact values stored in the count files,
// so exported data stays compatible with the historical spreadsheets.
const (
	LocationBU2  = "BU2"
	LocationBU4  = "BU4"
	LocationLine = "Linha"
)

var Locations = []string{LocationBU2, LocationBU4, LocationLine}

var CountTypes = []string{"1ª contagem", "2ª contagem", "3ª contagem"}

const TimestampLayout = "02/01/2006 15:04"

type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Role     string `json:"role"` // "admin" or "padrao"
}

type Product struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type CountRecord struct {
	Timestamp   string `json:"timestamp"`
	Username    string `json:"username"`
	CountType   string `json:"count_type"`
	Location    string `json:"location"`
	Tag         string `json:"tag"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// Session is the per-request identity passed through the workflows.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
	Role          string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Authenticated && s.Role == RoleAdmin
}

// NormalizeUsername applies the canonical form used everywhere a username is
// stored or compared: trimmed, lowercase.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// locationPolicy restricts the locations certain named users may count.
// Explicit business policy, not a general rule; users not listed here may use
// every location.
var locationPolicy = map[string][]string{
	"vitor":  {LocationLine},
	"junior": {LocationLine},
	"lucas":  {LocationLine},
}

func AllowedLocations(username string) []string {
	if locs, ok := locationPolicy[NormalizeUsername(username)]; ok {
		return locs
	}
	return Locations
}

func LocationAllowed(username, location string) bool {
	for _, loc := range AllowedLocations(username) {
		if loc == location {
			return true
		}
	}
	return false
}

package i18n

import (
	"net/http/httptest"
	"testing"
)

func TestLoadAndTranslate(t *testing.T) {
	if err := LoadTranslations("."); err != nil {
		t.Fatalf("LoadTranslations failed: %v", err)
	}

	if got := T("pt", "InvalidCredentials"); got != "Usuário ou senha inválidos." {
		t.Errorf("Unexpected pt translation: %s", got)
	}
	if got := T("en", "InvalidCredentials"); got != "Invalid username or password." {
		t.Errorf("Unexpected en translation: %s", got)
	}

	// Unknown key falls back to the key itself
	if got := T("en", "NoSuchKey"); got != "NoSuchKey" {
		t.Errorf("Expected key fallback, got %s", got)
	}
	// Unknown language falls back to the default language
	if got := T("de", "InvalidCredentials"); got != "Usuário ou senha inválidos." {
		t.Errorf("Expected default-language fallback, got %s", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	if err := LoadTranslations("."); err != nil {
		t.Fatalf("LoadTranslations failed: %v", err)
	}

	cases := []struct {
		accept string
		want   string
	}{
		{"pt-BR, pt;q=0.9, en;q=0.8", "pt"},
		{"en-US,en;q=0.9", "en"},
		{"de-DE,de;q=0.9", "pt"}, // unsupported -> default
		{"", "pt"},
	}

	for _, c := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if c.accept != "" {
			r.Header.Set("Accept-Language", c.accept)
		}
		if got := DetectLanguage(r); got != c.want {
			t.Errorf("DetectLanguage(%q): expected %s, got %s", c.accept, c.want, got)
		}
	}
}

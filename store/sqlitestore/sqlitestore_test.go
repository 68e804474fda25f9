package sqlitestore

import (
	"path/filepath"
	"testing"

	"inventario/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test_inventario.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUsersUpsertAndUpdate(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert(models.User{Username: " Aline ", Password: "123", Role: "admin"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	exists, err := s.Exists("ALINE")
	if err != nil || !exists {
		t.Errorf("Exists should match the normalized username: exists=%v err=%v", exists, err)
	}

	// Upsert on the same username updates the row
	if err := s.Upsert(models.User{Username: "aline", Password: "nova", Role: "admin"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	users, err := s.Users()
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("Expected 1 user after upsert, got %d", len(users))
	}
	if users[0].Password != "nova" {
		t.Errorf("Expected updated password 'nova', got %q", users[0].Password)
	}

	if err := s.UpdatePassword("aline", "outra"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}
	users, _ = s.Users()
	if users[0].Password != "outra" || users[0].Role != "admin" {
		t.Errorf("UpdatePassword touched the wrong columns: %+v", users[0])
	}
}

func TestCountsMostRecentFirst(t *testing.T) {
	s := openTestStore(t)

	first := models.CountRecord{
		Timestamp: "30/08/2026 10:00", Username: "erick", CountType: "1ª contagem",
		Location: "BU2", Tag: "T-001", Code: "7891", Description: "Arroz 5kg", Quantity: 3,
	}
	second := first
	second.Tag = "T-002"
	second.Timestamp = "30/08/2026 10:05"

	if err := s.Append(first); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append(second); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	records, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0] != second {
		t.Errorf("Expected most-recent-first ordering, got %+v first", records[0])
	}
	if records[1] != first {
		t.Errorf("Round-trip changed the record:\n got %+v\nwant %+v", records[1], first)
	}
}

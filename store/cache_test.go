package store

import (
	"errors"
	"testing"
	"time"

	"inventario/models"
)

func TestCachedCatalogNormalization(t *testing.T) {
	fetches := 0
	fetch := func() ([]models.Product, error) {
		fetches++
		return []models.Product{
			{Code: " 7891 ", Description: " Arroz 5kg "},
			{Code: "7892", Description: "Feijão 1kg"},
			{Code: "7891", Description: "Duplicate wins nothing"},
			{Code: "   ", Description: "No code"},
		}, nil
	}

	cat := NewCachedCatalog(fetch, 0)

	products := cat.ListAll()
	if len(products) != 2 {
		t.Fatalf("Expected 2 products after dedup, got %d", len(products))
	}
	if products[0].Code != "7891" || products[0].Description != "Arroz 5kg" {
		t.Errorf("Fields not trimmed: %+v", products[0])
	}

	// Duplicate codes collapse to the first occurrence
	desc, ok := cat.Lookup("7891")
	if !ok || desc != "Arroz 5kg" {
		t.Errorf("Lookup(7891): expected 'Arroz 5kg', got %q (ok=%v)", desc, ok)
	}
	if _, ok := cat.Lookup("9999"); ok {
		t.Error("Lookup of unknown code should report absent")
	}

	// ttl <= 0 loads exactly once
	cat.ListAll()
	cat.Lookup("7892")
	if fetches != 1 {
		t.Errorf("Expected a single fetch for ttl<=0, got %d", fetches)
	}
}

func TestCachedCatalogTTL(t *testing.T) {
	fetches := 0
	fetch := func() ([]models.Product, error) {
		fetches++
		return []models.Product{{Code: "1", Description: "one"}}, nil
	}

	cat := NewCachedCatalog(fetch, 50*time.Millisecond)

	cat.ListAll()
	cat.ListAll()
	if fetches != 1 {
		t.Errorf("Expected 1 fetch within the TTL window, got %d", fetches)
	}

	time.Sleep(60 * time.Millisecond)
	cat.ListAll()
	if fetches != 2 {
		t.Errorf("Expected a refresh after the TTL expired, got %d fetches", fetches)
	}
}

func TestCachedCatalogKeepsStaleDataOnError(t *testing.T) {
	calls := 0
	fetch := func() ([]models.Product, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("remote unavailable")
		}
		return []models.Product{{Code: "1", Description: "one"}}, nil
	}

	cat := NewCachedCatalog(fetch, time.Nanosecond)

	if _, ok := cat.Lookup("1"); !ok {
		t.Fatal("Initial load failed")
	}

	time.Sleep(time.Millisecond)
	if _, ok := cat.Lookup("1"); !ok {
		t.Error("Stale data should survive a failed refresh")
	}
}

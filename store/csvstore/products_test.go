package csvstore

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, headers []string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Produtos.xlsx")

	f := excelize.NewFile()
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue("Sheet1", cell, h)
	}
	for i, row := range rows {
		for col, val := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue("Sheet1", cell, val)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	f.Close()
	return path
}

func TestReadProductsAccentedHeaders(t *testing.T) {
	path := writeWorkbook(t,
		[]string{"Código", "Descrição"},
		[][]string{
			{" 7891 ", " Arroz 5kg "},
			{"7892", "Feijão 1kg"},
		})

	products, err := ReadProducts(path)
	if err != nil {
		t.Fatalf("ReadProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(products))
	}
	if products[0].Code != "7891" || products[0].Description != "Arroz 5kg" {
		t.Errorf("Cells not trimmed: %+v", products[0])
	}
}

func TestReadProductsNoHeaderFallsBackToColumns(t *testing.T) {
	path := writeWorkbook(t,
		[]string{"1000", "Primeira linha é produto"},
		[][]string{{"1001", "Segunda linha"}})

	products, err := ReadProducts(path)
	if err != nil {
		t.Fatalf("ReadProducts failed: %v", err)
	}
	// Without a recognizable header the first row is data
	if len(products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(products))
	}
	if products[0].Code != "1000" {
		t.Errorf("Expected first row kept as data, got %+v", products[0])
	}
}

func TestReadProductsMissingFile(t *testing.T) {
	products, err := ReadProducts(filepath.Join(t.TempDir(), "nope.xlsx"))
	if err != nil {
		t.Errorf("Missing catalog file should not be an error: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("Expected empty catalog, got %d products", len(products))
	}
}

package csvstore

import (
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"inventario/models"
)

// ReadProducts loads the product catalog from an .xlsx workbook. The header
// row is matched tolerantly (case and accents: Codigo/Código,
// Descricao/Descrição); if no header matches, the first two columns are used.
// A missing file is an empty catalog, not an error.
func ReadProducts(path string) ([]models.Product, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	codeCol, descCol := 0, 1
	hasHeader := false
	for i, cell := range rows[0] {
		switch normalizeHeader(cell) {
		case "codigo":
			codeCol = i
			hasHeader = true
		case "descricao":
			descCol = i
			hasHeader = true
		}
	}
	if hasHeader {
		rows = rows[1:]
	}

	var products []models.Product
	for _, row := range rows {
		products = append(products, models.Product{
			Code:        cellAt(row, codeCol),
			Description: cellAt(row, descCol),
		})
	}
	return products, nil
}

func normalizeHeader(cell string) string {
	h := strings.ToLower(strings.TrimSpace(cell))
	replacer := strings.NewReplacer("ó", "o", "ç", "c", "ã", "a", "í", "i", "é", "e")
	return replacer.Replace(h)
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

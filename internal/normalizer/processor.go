package normalizer

import (
	"companyexport/internal/models"
)

// BuildRows flattens records in order. It never drops a record.
func BuildRows(records []models.RawRecord) []models.FlatRow {
	rows := make([]models.FlatRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, Flatten(record))
	}

	return rows
}

// Coverage counts, per header, how many rows hold a value for it.
func Coverage(rows []models.FlatRow) map[string]int {
	counts := make(map[string]int, len(models.Headers))
	for _, h := range models.Headers {
		counts[h] = 0
	}

	for _, row := range rows {
		for _, h := range models.Headers {
			if _, ok := row.Get(h); ok {
				counts[h]++
			}
		}
	}

	return counts
}

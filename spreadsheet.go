package hotpaste

import (
	"encoding/csv"
	"fmt"
	"os"
)

// csvWriter is the default SpreadsheetWriter: a UTF-8 CSV file with a BOM so
// desktop spreadsheet applications detect the encoding when opening it.
type csvWriter struct{}

func (csvWriter) Ext() string { return "csv" }

func (csvWriter) Write(grid TableGrid, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating spreadsheet: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("writing spreadsheet: %w", err)
	}

	w := csv.NewWriter(f)
	for _, row := range grid {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing spreadsheet row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing spreadsheet: %w", err)
	}
	return f.Close()
}

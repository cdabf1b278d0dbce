package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"billaudit/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Code",
	"Description",
	"Revenue Code",
	"Status",
	"Billed Charge",
	"Reasoning",
}

// Writer wraps csv.Writer for exporting a bill analysis as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteAnalysis writes one row per line-item instance in the analysis.
func (w *Writer) WriteAnalysis(result *domain.AnalyzeResult) error {
	for i := range result.Codes {
		row := analysisToRow(&result.Codes[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func analysisToRow(c *domain.CodeAnalysis) []string {
	return []string{
		c.Code,
		c.Description,
		c.RevenueCode,
		string(c.Status),
		strconv.FormatFloat(c.BilledCharge, 'f', 2, 64),
		c.Reasoning,
	}
}

// Package report renders tabular report artifacts: a PDF document for
// sending as a Telegram file and a small PNG thumbnail preview.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/akhror/zavodbot/core/logger"
	"github.com/go-pdf/fpdf"
)

// Table is the renderable form of a report: a title, column headers
// with relative widths, and string rows.
type Table struct {
	Title   string
	Headers []string
	// Widths are relative column weights; nil means equal columns.
	Widths []float64
	Rows   [][]string
}

// Render writes the table as both a PDF and a PNG thumbnail under dir,
// named baseName.pdf / baseName.png, and returns their paths.
func Render(dir, baseName string, t Table) (pdfPath, pngPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("report: create dir %s: %w", dir, err)
	}

	pdfPath = filepath.Join(dir, baseName+".pdf")
	pngPath = filepath.Join(dir, baseName+".png")

	start := time.Now()
	if err := writePDF(pdfPath, t); err != nil {
		return "", "", err
	}
	if err := writeThumbnail(pngPath, t); err != nil {
		return "", "", err
	}

	logger.RPT.LogAttrs(context.Background(), slog.LevelInfo, "report.rendered",
		slog.String("file", baseName),
		slog.Int("rows", len(t.Rows)),
		slog.Duration("took", logger.RoundMS(time.Since(start))),
	)
	return pdfPath, pngPath, nil
}

func writePDF(path string, t Table) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 14, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	usable := 210.0 - 24.0
	widths := columnWidths(t, usable)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range t.Headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range t.Rows {
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("report: write pdf %s: %w", path, err)
	}
	return nil
}

func columnWidths(t Table, usable float64) []float64 {
	n := len(t.Headers)
	widths := make([]float64, n)
	if n == 0 {
		return widths
	}
	if len(t.Widths) != n {
		for i := range widths {
			widths[i] = usable / float64(n)
		}
		return widths
	}
	var sum float64
	for _, w := range t.Widths {
		sum += w
	}
	if sum <= 0 {
		sum = float64(n)
	}
	for i, w := range t.Widths {
		widths[i] = usable * w / sum
	}
	return widths
}

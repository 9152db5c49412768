// Package export writes the task list in shareable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"doitlist/internal/output"
	"doitlist/internal/task"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// Write renders list to w in the given format.
func Write(w io.Writer, list task.List, format string) error {
	if list == nil {
		list = task.List{}
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case FormatCSV:
		return writeCSV(w, list)
	case FormatPDF:
		return writePDF(w, list)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeCSV(w io.Writer, list task.List) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "text", "completed"}); err != nil {
		return err
	}
	for i, t := range list {
		if err := cw.Write([]string{strconv.Itoa(i + 1), t.Text, strconv.FormatBool(t.Completed)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, list task.List) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, output.Title)
	pdf.Ln(14)
	pdf.SetFont("Arial", "", 11)
	if len(list) == 0 {
		pdf.Cell(0, 6, "no tasks")
	}
	for i, t := range list {
		line := fmt.Sprintf("%d. %s %s", i+1, output.Checkbox(t.Completed), output.NormalizeText(t.Text))
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	return pdf.Output(w)
}

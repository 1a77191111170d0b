package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"workoverbot/internal/domain"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Columns are the human-readable labels of the record table, in order.
var Columns = []string{
	"Waktu Mulai",
	"Waktu Akhir",
	"Durasi (Jam)",
	"Peralatan Utama & Deskripsi Operasi",
	"Interval/Kedalaman Operasi",
	"Kondisi Awal/Hasil Utama",
	"Jenis Operasi",
}

const utf8BOM = "\xEF\xBB\xBF"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want csv, xlsx or json)", s)
}

func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Render encodes the batch in the given format.
func Render(format string, batch domain.Batch) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(batch.Records)
	case FormatXLSX:
		return XLSX(batch)
	case FormatJSON:
		return JSON(batch)
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

func recordRow(r domain.Record) []string {
	return []string{
		r.StartTime,
		r.EndTime,
		r.DurationDisplay(),
		r.EquipmentDescription,
		r.DepthInterval,
		r.ConditionResult,
		r.OperationType,
	}
}

// CSV writes the records with a UTF-8 BOM so spreadsheet tools pick the
// right encoding.
func CSV(records []domain.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(recordRow(r)); err != nil {
			return nil, fmt.Errorf("csv row %d: %w", r.Row, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

func JSON(batch domain.Batch) ([]byte, error) {
	b, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json export: %w", err)
	}
	return b, nil
}

// Filename returns workover_data_YYYYMMDD_HHMMSS.<format>.
func Filename(format string, now time.Time) string {
	return fmt.Sprintf("workover_data_%s.%s", now.Format("20060102_150405"), format)
}

// WriteFile stores data under dir and returns the written path. The name is
// reduced to a safe base name first.
func WriteFile(dir, name string, data []byte) (string, error) {
	safe := unsafeFilenameChars.ReplaceAllString(filepath.Base(name), "_")
	safe = strings.TrimLeft(safe, ".")
	if safe == "" {
		return "", fmt.Errorf("invalid export filename %q", name)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, safe)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

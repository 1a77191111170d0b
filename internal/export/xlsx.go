package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"workoverbot/internal/analytics"
	"workoverbot/internal/domain"
)

const (
	dataSheet    = "Data"
	summarySheet = "Ringkasan"
)

// XLSX builds a workbook with the record table on "Data" and totals,
// distribution, efficiency and failures on "Ringkasan".
func XLSX(batch domain.Batch) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	dataIndex, _ := f.GetSheetIndex(dataSheet)
	f.SetActiveSheet(dataIndex)

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(dataSheet, cell, h)
	}
	for i, r := range batch.Records {
		row := i + 2
		for col, v := range recordRow(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(dataSheet, cell, v)
		}
	}
	_ = f.SetColWidth(dataSheet, "A", "C", 12)
	_ = f.SetColWidth(dataSheet, "D", "D", 60)
	_ = f.SetColWidth(dataSheet, "E", "E", 28)
	_ = f.SetColWidth(dataSheet, "F", "F", 48)
	_ = f.SetColWidth(dataSheet, "G", "G", 16)

	writeSummary(f, batch)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, batch domain.Batch) {
	row := 1
	put := func(values ...any) {
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(summarySheet, cell, v)
		}
		row++
	}

	put("Total Operasi", batch.Summary.TotalOperations)
	put("Total Durasi (Jam)", fmt.Sprintf("%.1f", batch.Summary.TotalDurationHours))
	put("Baris Gagal", len(batch.Failures))
	if pct, ok := analytics.EfficiencyPercent(batch.Efficiency); ok {
		put("Efisiensi (%)", fmt.Sprintf("%.1f", pct))
	} else {
		put("Efisiensi (%)", "N/A")
	}
	put("Waktu Produktif (Jam)", fmt.Sprintf("%.1f", batch.Efficiency.ProductiveTime))
	put("Waktu Tunggu (Jam)", fmt.Sprintf("%.1f", batch.Efficiency.WaitingTime))
	row++

	put("Jenis Operasi", "Jumlah")
	for _, label := range batch.Summary.OperationOrder {
		put(label, batch.Summary.OperationCounts[label])
	}
	row++

	if len(batch.Efficiency.LongOperations) > 0 {
		put("Operasi Panjang (> 4 jam)", "Durasi (Jam)", "Baris")
		for _, lo := range batch.Efficiency.LongOperations {
			put(lo.Operation, lo.Duration, lo.Row)
		}
		row++
	}

	if len(batch.Failures) > 0 {
		put("Baris Gagal", "Alasan", "Teks")
		for _, fl := range batch.Failures {
			put(fl.Row, fl.Reason, fl.Text)
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 40)
	_ = f.SetColWidth(summarySheet, "B", "B", 18)
	_ = f.SetColWidth(summarySheet, "C", "C", 60)
}

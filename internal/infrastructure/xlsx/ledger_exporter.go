// Package xlsx exporta el diario contable a Excel.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	appaccounting "github.com/jhoicas/ProjectLedger-api/internal/application/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// Nombres de las hojas del libro.
const (
	SheetEntries = "Asientos"
	SheetSummary = "Resumen"
)

var entryHeaders = []string{
	"Fecha", "Referencia", "Tipo de transacción", "Cuenta", "Lado",
	"Débito", "Crédito", "Descripción", "Proyecto", "Creado por",
}

var _ appaccounting.Exporter = (*LedgerExporter)(nil)

// LedgerExporter implementa accounting.Exporter con excelize.
type LedgerExporter struct{}

// NewLedgerExporter construye el exportador.
func NewLedgerExporter() *LedgerExporter { return &LedgerExporter{} }

// Export arma un libro con la hoja de asientos (en el orden recibido) y la hoja de resumen.
func (e *LedgerExporter) Export(entries []entity.AccountingEntry, summary accounting.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(SheetEntries)
	if err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := writeEntries(f, entries, headerStyle, moneyStyle); err != nil {
		return nil, err
	}
	if err := writeSummary(f, summary, headerStyle, moneyStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntries(f *excelize.File, entries []entity.AccountingEntry, headerStyle, moneyStyle int) error {
	if err := f.SetSheetRow(SheetEntries, "A1", &entryHeaders); err != nil {
		return fmt.Errorf("xlsx: cabecera: %w", err)
	}
	if err := f.SetRowStyle(SheetEntries, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	for i, en := range entries {
		var debit, credit any
		if en.EntryType == entity.Debit {
			debit = en.Amount.InexactFloat64()
		} else {
			credit = en.Amount.InexactFloat64()
		}
		values := []any{
			en.TransactionDate.Format("2006-01-02"),
			en.ReferenceNumber,
			string(en.TransactionType),
			string(en.AccountType),
			string(en.EntryType),
			debit,
			credit,
			en.Description,
			en.ProjectID,
			en.CreatedBy,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetEntries, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	if len(entries) > 0 {
		last := len(entries) + 1
		if err := f.SetCellStyle(SheetEntries, "F2", fmt.Sprintf("G%d", last), moneyStyle); err != nil {
			return fmt.Errorf("xlsx: estilo montos: %w", err)
		}
	}
	if err := f.SetColWidth(SheetEntries, "A", "J", 18); err != nil {
		return err
	}
	return f.SetColWidth(SheetEntries, "H", "H", 40)
}

func writeSummary(f *excelize.File, s accounting.Summary, headerStyle, moneyStyle int) error {
	rows := []struct {
		label string
		value float64
	}{
		{"Total débitos", s.TotalDebits.InexactFloat64()},
		{"Total créditos", s.TotalCredits.InexactFloat64()},
		{"Balance", s.Balance.InexactFloat64()},
		{"Cuentas por cobrar", s.AccountsReceivable.InexactFloat64()},
		{"Cuentas por pagar", s.AccountsPayable.InexactFloat64()},
		{"Entradas de caja", s.CashIn.InexactFloat64()},
		{"Salidas de caja", s.CashOut.InexactFloat64()},
		{"Ingresos", s.Revenue.InexactFloat64()},
		{"Gastos", s.Expenses.InexactFloat64()},
		{"Utilidad / pérdida", s.ProfitLoss.InexactFloat64()},
	}

	header := []any{"Concepto", "Valor"}
	if err := f.SetSheetRow(SheetSummary, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: cabecera resumen: %w", err)
	}
	if err := f.SetRowStyle(SheetSummary, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, r := range rows {
		row := i + 2
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), r.label); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", row), r.value); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "B2", fmt.Sprintf("B%d", len(rows)+1), moneyStyle); err != nil {
		return err
	}
	countRow := len(rows) + 2
	if err := f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", countRow), "Filas"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", countRow), s.EntryCount); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 24)
}

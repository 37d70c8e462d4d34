package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Sucursales-api/internal/application/analytics"
)

const (
	sheetSales   = "Ventas"
	sheetSummary = "Resumen"
)

var salesHeadings = []string{
	"Fecha", "Orden", "Estado", "Cliente", "Medio de pago", "Entrega",
	"SKU", "Producto", "Cantidad", "Precio unitario", "Subtotal", "Devolución",
}

// SalesExcelExporter implementa analytics.SalesExporter con excelize.
// Una fila por ítem de orden en la hoja Ventas y las métricas en la hoja Resumen.
type SalesExcelExporter struct{}

// NewSalesExcelExporter construye el exportador.
func NewSalesExcelExporter() *SalesExcelExporter { return &SalesExcelExporter{} }

// ExportSalesDetail devuelve el libro .xlsx serializado.
func (e *SalesExcelExporter) ExportSalesDetail(_ context.Context, detail *analytics.SalesDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSales); err != nil {
		return nil, fmt.Errorf("excel: hoja ventas: %w", err)
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, fmt.Errorf("excel: hoja resumen: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	if err := writeRow(f, sheetSales, 1, toCells(salesHeadings)); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(salesHeadings), 1)
	_ = f.SetCellStyle(sheetSales, "A1", last, bold)

	rowNo := 2
	for _, o := range detail.Orders {
		for _, it := range o.Items {
			sku, name := "", "Producto desconocido"
			if p, ok := detail.Products[it.ProductID]; ok {
				sku, name = p.SKU, p.Name
			}
			returned := ""
			if it.Returned() {
				returned = "Sí"
			}
			subtotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
			cells := []interface{}{
				o.CreatedAt.Format("2006-01-02 15:04"), o.ID, o.Status, o.CustomerName, o.PaymentMethod, o.DeliveryMethod,
				sku, name, it.Quantity, it.UnitPrice.InexactFloat64(), subtotal.InexactFloat64(), returned,
			}
			if err := writeRow(f, sheetSales, rowNo, cells); err != nil {
				return nil, err
			}
			rowNo++
		}
	}
	_ = f.SetColWidth(sheetSales, "A", "A", 18)
	_ = f.SetColWidth(sheetSales, "B", "B", 38)
	_ = f.SetColWidth(sheetSales, "H", "H", 30)

	m := detail.Metrics
	summary := [][]interface{}{
		{"Sucursal", detail.BranchID},
		{"Órdenes", m.TotalOrders},
		{"Unidades vendidas", m.TotalQuantity},
		{"Unidades devueltas", m.TotalReturned},
		{"Monto total", m.TotalAmount.InexactFloat64()},
		{"Ganancia", m.TotalProfit.InexactFloat64()},
		{"Ticket promedio", m.AverageOrder.InexactFloat64()},
	}
	for i, cells := range summary {
		if err := writeRow(f, sheetSummary, i+1, cells); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(sheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), bold)
	_ = f.SetColWidth(sheetSummary, "A", "A", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNo int, cells []interface{}) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return fmt.Errorf("excel: celda: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("excel: %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

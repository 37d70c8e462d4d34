// Package report genera los documentos descargables: el remito PDF de una solicitud de stock
// y la planilla Excel del detalle de ventas.
//
// Layout del remito (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: REMITO + N° solicitud  │  Fecha + Estado            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINO: Sucursal / Dirección / Teléfono                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Cantidad                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL UNIDADES                                              │
//	│  Observaciones + firmas                                      │
//	└─────────────────────────────────────────────────────────────┘
package report

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Sucursales-api/internal/application/stockrequest"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[string]string{
	entity.RequestPending:         "Pendiente",
	entity.RequestApproved:        "Aprobada",
	entity.RequestRejected:        "Rechazada",
	entity.RequestDeliveredUnpaid: "Entregada, pago pendiente",
	entity.RequestFulfilled:       "Completada",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// RemitoGenerator implementa stockrequest.RemitoPDFGenerator usando Maroto v2.
type RemitoGenerator struct{}

// NewRemitoGenerator construye el generador.
func NewRemitoGenerator() *RemitoGenerator { return &RemitoGenerator{} }

// GenerateRemitoPDF genera el remito y devuelve sus bytes.
func (g *RemitoGenerator) GenerateRemitoPDF(
	_ context.Context,
	req *entity.StockRequest,
	branch *entity.Branch,
	lines []stockrequest.RemitoLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remito "+req.ID, true).
		WithAuthor("Depósito central", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(destinationRow(branch))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(lines))
	m.AddRows(footerRows(req)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("remito: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(req *entity.StockRequest) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REMITO DE TRANSFERENCIA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Solicitud N° "+req.ID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+req.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(nonEmpty(statusLabels[req.Status], req.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 8,
			}),
		),
	)
}

func destinationRow(branch *entity.Branch) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(branch.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Dirección: %s, %s   |   Tel: %s",
				nonEmpty(branch.Address, "-"),
				nonEmpty(branch.City, "-"),
				nonEmpty(branch.Number, "-"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 3, align.Left),
		h("Producto", 7, align.Left),
		h("Cantidad", 2, align.Right),
	)
}

func tableRows(lines []stockrequest.RemitoLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(nonEmpty(l.SKU, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(7).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.Itoa(l.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(lines []stockrequest.RemitoLine) core.Row {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return row.New(10).Add(
		col.New(6),
		col.New(4).Add(text.New("TOTAL UNIDADES:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(strconv.Itoa(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func footerRows(req *entity.StockRequest) []core.Row {
	rows := []core.Row{row.New(4)}
	if req.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Observaciones: "+req.Notes, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}
	rows = append(rows,
		row.New(20),
		row.New(8).Add(
			col.New(5).Add(text.New("Entregó", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray})),
			col.New(2),
			col.New(5).Add(text.New("Recibió", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray})),
		),
	)
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

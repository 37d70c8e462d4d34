package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Price es el precio base; CentralQuantity es el stock del depósito central (no asignado a sucursales).
type Product struct {
	ID              string
	SKU             string // código único
	Name            string
	Brand           string
	Category        string
	Description     string
	Price           decimal.Decimal
	CentralQuantity int
	Image           string
	BranchPrices    []BranchPrice // a lo sumo una entrada por sucursal
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BranchPrice override de precio para una sucursal. Markup es un porcentaje opcional.
type BranchPrice struct {
	BranchID string           `json:"branchId"`
	Price    decimal.Decimal  `json:"price"`
	Markup   *decimal.Decimal `json:"markup,omitempty"`
}

// BranchPrice devuelve el override de la sucursal, o nil si no existe.
func (p *Product) BranchPrice(branchID string) *BranchPrice {
	for i := range p.BranchPrices {
		if p.BranchPrices[i].BranchID == branchID {
			return &p.BranchPrices[i]
		}
	}
	return nil
}

// Clone devuelve una copia profunda (los slices no se comparten).
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.BranchPrices = make([]BranchPrice, len(p.BranchPrices))
	for i, bp := range p.BranchPrices {
		c.BranchPrices[i] = bp
		if bp.Markup != nil {
			m := *bp.Markup
			c.BranchPrices[i].Markup = &m
		}
	}
	return &c
}

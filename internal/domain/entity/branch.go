package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto de una sucursal nueva.
var (
	DefaultExchangeRate = decimal.NewFromInt(1)
	DefaultBranchMarkup = decimal.NewFromInt(20)
)

// Branch representa una sucursal con su propio ledger de stock.
type Branch struct {
	ID            string
	Name          string
	Number        string // teléfono de contacto (se usa para el link de WhatsApp)
	Address       string
	City          string
	Province      string
	Phone         string
	AdminID       string
	ExchangeRate  decimal.Decimal
	DefaultMarkup decimal.Decimal
	Stock         []StockEntry
	ProductPrices []LegacyProductPrice // esquema de precios anterior, se mantiene por compatibilidad
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LegacyProductPrice precio final por producto del esquema anterior a BranchPrice.
type LegacyProductPrice struct {
	ProductID    string          `json:"productId"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
	FinalPrice   decimal.Decimal `json:"finalPrice"`
}

// FindStock devuelve un puntero a la entrada del ledger (modificable in situ).
func (b *Branch) FindStock(productID string) (*StockEntry, bool) {
	for i := range b.Stock {
		if b.Stock[i].ProductID == productID {
			return &b.Stock[i], true
		}
	}
	return nil, false
}

// EnsureStock devuelve la entrada del producto, creándola con (0, 0) si no existe.
func (b *Branch) EnsureStock(productID string) *StockEntry {
	if e, ok := b.FindStock(productID); ok {
		return e
	}
	b.Stock = append(b.Stock, StockEntry{ProductID: productID})
	return &b.Stock[len(b.Stock)-1]
}

// Clone devuelve una copia profunda.
func (b *Branch) Clone() *Branch {
	if b == nil {
		return nil
	}
	c := *b
	c.Stock = append([]StockEntry(nil), b.Stock...)
	c.ProductPrices = append([]LegacyProductPrice(nil), b.ProductPrices...)
	return &c
}

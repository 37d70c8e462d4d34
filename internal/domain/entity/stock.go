package entity

import "encoding/json"

// StockEntry es la fila del ledger de una sucursal para un producto.
// Available se persiste como "quantity" y Reserved como "reservedQuantity".
type StockEntry struct {
	ProductID string
	Available int
	Reserved  int
}

type stockEntryJSON struct {
	ProductID        string `json:"productId"`
	Quantity         int    `json:"quantity"`
	ReservedQuantity int    `json:"reservedQuantity"`
}

// MarshalJSON escribe siempre la forma canónica.
func (e StockEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(stockEntryJSON{
		ProductID:        e.ProductID,
		Quantity:         e.Available,
		ReservedQuantity: e.Reserved,
	})
}

// UnmarshalJSON acepta también las formas heredadas: "product" en lugar de "productId"
// y "availableQuantity" en lugar de "quantity". Si vienen ambas, gana la canónica.
func (e *StockEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID         *string `json:"productId"`
		Product           *string `json:"product"`
		Quantity          *int    `json:"quantity"`
		AvailableQuantity *int    `json:"availableQuantity"`
		ReservedQuantity  *int    `json:"reservedQuantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = StockEntry{}
	switch {
	case raw.ProductID != nil:
		e.ProductID = *raw.ProductID
	case raw.Product != nil:
		e.ProductID = *raw.Product
	}
	switch {
	case raw.Quantity != nil:
		e.Available = *raw.Quantity
	case raw.AvailableQuantity != nil:
		e.Available = *raw.AvailableQuantity
	}
	if raw.ReservedQuantity != nil {
		e.Reserved = *raw.ReservedQuantity
	}
	return nil
}

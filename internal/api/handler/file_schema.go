package handler

import (
	"github.com/ventaboard/sales-api/internal/core/domain"
)

// saleRow is the dashboard-facing row shape. Keys match the column titles the
// frontend renders directly.
type saleRow struct {
	OrderID    string  `json:"Order ID"`
	Product    string  `json:"Product"`
	Category   string  `json:"Category"`
	Amount     float64 `json:"Amount"`
	Profit     float64 `json:"Profit"`
	Date       string  `json:"Date"`
	Region     string  `json:"Region"`
	Visibility string  `json:"Visibility"`
}

type uploadResponse struct {
	Message     string            `json:"message"`
	Data        []saleRow         `json:"data"`
	SkippedRows []domain.RowError `json:"skipped_rows,omitempty"`
}

func toSaleRows(sales []domain.Sale) []saleRow {
	rows := make([]saleRow, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, saleRow{
			OrderID:    s.OrderID,
			Product:    s.Product,
			Category:   s.Category,
			Amount:     s.Amount,
			Profit:     s.Profit,
			Date:       s.Date.Format("2006-01-02"),
			Region:     s.Region,
			Visibility: string(s.Visibility),
		})
	}
	return rows
}

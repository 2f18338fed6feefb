package service

import "strings"

// Field names the semantic columns of the sales schema.
type Field string

const (
	FieldOrderID  Field = "order_id"
	FieldProduct  Field = "product"
	FieldCategory Field = "category"
	FieldAmount   Field = "amount"
	FieldProfit   Field = "profit"
	FieldDate     Field = "date"
	FieldRegion   Field = "region"
)

// fieldCandidates maps each semantic field to its known header synonyms in
// priority order. Matching is case-insensitive on trimmed values, so entries
// here only need to cover distinct spellings, not casings.
var fieldCandidates = []struct {
	field      Field
	candidates []string
}{
	{FieldOrderID, []string{"Order ID", "ID Pedido", "ID", "Orden"}},
	{FieldProduct, []string{"Product Name", "Product", "Producto", "Nombre Producto"}},
	{FieldCategory, []string{"Category", "Categoría", "Categoria", "Departamento"}},
	{FieldAmount, []string{"Sales", "Amount", "Ventas", "Total", "Importe"}},
	{FieldProfit, []string{"Profit", "Ganancia", "Margen", "Utilidad"}},
	{FieldDate, []string{"Order Date", "Date", "Fecha", "Fecha Pedido"}},
	{FieldRegion, []string{"Region", "Región", "Zona", "Area"}},
}

// columnMapping is the result of header resolution: for each resolved field,
// the index of the matched header in the original header order. Unresolved
// fields are absent.
type columnMapping map[Field]int

// resolveColumns maps observed headers onto the fixed sales schema. For each
// field the candidate list is walked in priority order and the first candidate
// with a matching header wins; ties among headers matching the same candidate
// resolve to the first occurrence. The function is pure: the same headers
// always produce the same mapping, and no defaults are fabricated here.
func resolveColumns(headers []string) columnMapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	mapping := make(columnMapping, len(fieldCandidates))
	for _, fc := range fieldCandidates {
		for _, candidate := range fc.candidates {
			want := normalizeHeader(candidate)
			if idx := indexOf(normalized, want); idx >= 0 {
				mapping[fc.field] = idx
				break
			}
		}
	}
	return mapping
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}

package domain

import (
	"time"
)

// Unit is a product measurement unit
type Unit string

const (
	UnitPieces      Unit = "u"
	UnitItems       Unit = "pzs"
	UnitBoxes       Unit = "cjs"
	UnitJars        Unit = "bts"
	UnitMeters      Unit = "m"
	UnitCentimeters Unit = "cm"
	UnitKilograms   Unit = "kg"
	UnitGrams       Unit = "g"
	UnitLiters      Unit = "l"
	UnitMilliliters Unit = "ml"
)

// Option is a selectable value with its display text
type Option struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Text  string `json:"text"`
}

// UnitOptions lists the units offered by the product form
var UnitOptions = []Option{
	{Key: "u", Value: string(UnitPieces), Text: "unidades"},
	{Key: "pzs", Value: string(UnitItems), Text: "piezas"},
	{Key: "cjs", Value: string(UnitBoxes), Text: "cajas"},
	{Key: "bts", Value: string(UnitJars), Text: "botes"},
	{Key: "m", Value: string(UnitMeters), Text: "metros"},
	{Key: "cm", Value: string(UnitCentimeters), Text: "centímetros"},
	{Key: "kg", Value: string(UnitKilograms), Text: "kilogramos"},
	{Key: "g", Value: string(UnitGrams), Text: "gramos"},
	{Key: "l", Value: string(UnitLiters), Text: "litros"},
	{Key: "ml", Value: string(UnitMilliliters), Text: "mililitros"},
}

// ProductRecord is a persisted catalog product.
// Prices are kept as entered; they are never parsed.
type ProductRecord struct {
	ID             string    `json:"id,omitempty"`
	Name           string    `json:"name"`
	WholesalePrice string    `json:"wholesalePrice"`
	RetailPrice    string    `json:"retailPrice"`
	Unit           string    `json:"unit"`
	ImageAssetID   string    `json:"imageAssetId"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
}

// Document returns the field map written to the document store
func (p ProductRecord) Document() map[string]any {
	return map[string]any{
		"name":           p.Name,
		"wholesalePrice": p.WholesalePrice,
		"retailPrice":    p.RetailPrice,
		"unit":           p.Unit,
		"imageAssetId":   p.ImageAssetID,
		"createdAt":      p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"createdBy":      p.CreatedBy,
	}
}

// ProductFromDocument rebuilds a product from a stored field map
func ProductFromDocument(id string, data map[string]any) ProductRecord {
	p := ProductRecord{
		ID:             id,
		Name:           stringField(data, "name"),
		WholesalePrice: stringField(data, "wholesalePrice"),
		RetailPrice:    stringField(data, "retailPrice"),
		Unit:           stringField(data, "unit"),
		ImageAssetID:   stringField(data, "imageAssetId"),
		CreatedBy:      stringField(data, "createdBy"),
	}
	if ts := stringField(data, "createdAt"); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			p.CreatedAt = t
		}
	}
	return p
}

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// Record is a single raw product row as returned by a remote store or read
// from the local snapshot
type Record map[string]any

func decodeRecord(raw json.RawMessage) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var record Record
	if err := dec.Decode(&record); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: null row", ErrSchema)
	}
	return record, nil
}

// DecodeRecords parses a JSON array of product rows
func DecodeRecords(raw []byte) ([]Record, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		record, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Product maps the record to a Product, filling in defaults for absent or
// null fields and coercing the price to an integer amount
func (r Record) Product() (models.Product, error) {
	id, err := r.integer("id")
	if err != nil {
		return models.Product{}, err
	}
	price, err := r.integer("price")
	if err != nil {
		return models.Product{}, err
	}

	return models.Product{
		ID:          id,
		Name:        r.text("name", models.DefaultName),
		Price:       price,
		Description: r.text("description", models.DefaultDescription),
		Image:       r.text("image", models.DefaultImage),
		Category:    r.text("category", models.DefaultCategory),
	}, nil
}

// Products maps every record, failing on the first malformed one
func Products(records []Record) ([]models.Product, error) {
	products := make([]models.Product, 0, len(records))
	for _, record := range records {
		product, err := record.Product()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r Record) text(key, fallback string) string {
	value, ok := r[key]
	if !ok || value == nil {
		return fallback
	}
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (r Record) integer(key string) (int64, error) {
	value, ok := r[key]
	if !ok || value == nil {
		return 0, nil
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch v := value.(type) {
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		d = decimal.NewFromFloat(v)
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%w: %s has unsupported type %T", ErrSchema, key, value)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not numeric", ErrSchema, key, value)
	}

	return d.IntPart(), nil
}

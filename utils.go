package main

import (
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversion helpers between wire strings, typed records and store documents.

// now returns the server-assigned timestamp for new documents, truncated to
// millisecond precision to match BSON datetime resolution.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// parseObjectID converts a wire identifier to its storage representation.
// The label names the entity for the error message ("property", "entry", ...).
func parseObjectID(label, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, validationErrorf("Invalid %s ID", label)
	}
	return id, nil
}

// dateFormats accepted for date fields, matching what clients send today:
// full RFC 3339 timestamps or plain calendar dates.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(value string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationErrorf("Invalid date format. Use ISO format (YYYY-MM-DD)")
}

// parseNumber converts a numeric query parameter, naming it in the error.
func parseNumber(label, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, validationErrorf("%s must be a valid number", label)
	}
	return v, nil
}

// toDocument converts a typed record to a store document.
func toDocument(v any) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// fromDocument decodes a store document into a typed record.
func fromDocument(doc bson.M, out any) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, out)
}

// decodeDocuments decodes a result set into typed records, preserving an
// empty (non-nil) slice for empty results so lists serialize as [].
func decodeDocuments[T any](docs []bson.M) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := fromDocument(doc, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// sumField totals a numeric field across documents using decimal arithmetic
// so aggregates do not accumulate float error. Missing or non-numeric values
// count as zero.
func sumField(docs []bson.M, field string) float64 {
	total := decimal.Zero
	for _, doc := range docs {
		if v, ok := numericValue(doc[field]); ok {
			total = total.Add(decimal.NewFromFloat(v))
		}
	}
	f, _ := total.Float64()
	return f
}

// substringMatch builds a case-insensitive substring filter for name-like
// fields.
func substringMatch(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

// exactMatchFold builds a case-insensitive whole-value filter.
func exactMatchFold(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

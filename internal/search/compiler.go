// Package search compiles a search filter into a predicate over stored
// documents and applies it through the record store.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docscan/docvault/internal/models"
	"github.com/docscan/docvault/internal/storage"
)

// ErrInvalidFilter indicates a filter that cannot be compiled.
var ErrInvalidFilter = errors.New("invalid search filter")

// Predicate reports whether a document satisfies a compiled filter.
type Predicate func(*models.Document) bool

// dateLayouts accepted in dateFrom/dateTo, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Compile translates the filter into a single ANDed predicate. Documents
// without structured text never satisfy documentType/entity/confidence
// conditions but stay eligible for the text, category, tag, and date ones.
// Returns an error for unparseable date bounds.
func Compile(f models.SearchFilter) (Predicate, error) {
	var preds []Predicate

	if f.Query != "" {
		query := strings.ToLower(f.Query)
		preds = append(preds, func(d *models.Document) bool {
			return strings.Contains(strings.ToLower(searchableText(d)), query)
		})
	}
	if len(f.Categories) != 0 {
		want := f.Categories
		preds = append(preds, func(d *models.Document) bool {
			return anyOf(d.Categories, want)
		})
	}
	if len(f.Tags) != 0 {
		want := f.Tags
		preds = append(preds, func(d *models.Document) bool {
			return anyOf(d.Tags, want)
		})
	}
	if f.DateFrom != "" {
		from, _, err := parseDateBound(f.DateFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: dateFrom: %v", ErrInvalidFilter, err)
		}
		preds = append(preds, func(d *models.Document) bool {
			return !d.UploadDate.Before(from)
		})
	}
	if f.DateTo != "" {
		to, dateOnly, err := parseDateBound(f.DateTo)
		if err != nil {
			return nil, fmt.Errorf("%w: dateTo: %v", ErrInvalidFilter, err)
		}
		if dateOnly {
			// A date-only upper bound covers the whole day.
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		preds = append(preds, func(d *models.Document) bool {
			return !d.UploadDate.After(to)
		})
	}
	if f.DocumentType != "" {
		want := models.DocumentType(f.DocumentType)
		preds = append(preds, func(d *models.Document) bool {
			return d.StructuredText != nil && d.StructuredText.DocumentType == want
		})
	}
	if f.HasEmails {
		preds = append(preds, entityPresent(func(e *models.Entities) []string { return e.Emails }))
	}
	if f.HasPhones {
		preds = append(preds, entityPresent(func(e *models.Entities) []string { return e.Phones }))
	}
	if f.HasAmounts {
		preds = append(preds, entityPresent(func(e *models.Entities) []string { return e.Amounts }))
	}
	if f.MinConfidence > 0 {
		threshold := f.MinConfidence
		preds = append(preds, func(d *models.Document) bool {
			return d.StructuredText != nil && d.StructuredText.Confidence >= threshold
		})
	}

	return func(d *models.Document) bool {
		for _, p := range preds {
			if !p(d) {
				return false
			}
		}
		return true
	}, nil
}

// Search lists documents from the store and applies the compiled filter.
// The store already orders by upload date descending, so an empty filter
// returns everything in that order.
func Search(ctx context.Context, store storage.Storage, f models.SearchFilter) ([]*models.Document, error) {
	pred, err := Compile(f)
	if err != nil {
		return nil, err
	}
	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	out := []*models.Document{}
	for _, d := range docs {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// searchableText is the haystack for the query substring: title, raw
// extracted text, and the serialized structured payload.
func searchableText(d *models.Document) string {
	var b strings.Builder
	b.WriteString(d.Title)
	if d.ExtractedText != nil {
		b.WriteByte('\n')
		b.WriteString(*d.ExtractedText)
	}
	if d.StructuredText != nil {
		if encoded, err := json.Marshal(d.StructuredText); err == nil {
			b.WriteByte('\n')
			b.Write(encoded)
		}
	}
	return b.String()
}

func anyOf(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func entityPresent(pick func(*models.Entities) []string) Predicate {
	return func(d *models.Document) bool {
		return d.StructuredText != nil && len(pick(&d.StructuredText.Entities)) > 0
	}
}

// parseDateBound parses a filter date; the second result reports whether the
// value was date-only (no time component).
func parseDateBound(value string) (time.Time, bool, error) {
	for i, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, i == 0, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date %q", value)
}

// Package analysis turns free-form vision model output into bookshelf records
// and exports them as CSV.
package analysis

import (
	"strings"

	"github.com/dtroode/bookshelf-server/internal/model"
)

const unknown = "Unknown"

// Parse extracts one record per bullet line ("- " or "* ") of raw.
// Fields are separated by ", " and recognised by their "Title:", "Author:"
// and "Confidence:" prefixes. Missing fields fall back to Unknown and low.
// Lines that are not bullets are ignored.
func Parse(raw string) []model.BookshelfRecord {
	records := make([]model.BookshelfRecord, 0)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") {
			continue
		}
		line = strings.TrimSpace(line[1:])
		if line == "" {
			continue
		}

		record := model.BookshelfRecord{
			Title:      unknown,
			Author:     unknown,
			Confidence: model.ConfidenceLow,
		}
		for _, part := range strings.Split(line, ", ") {
			part = strings.TrimSpace(part)
			switch {
			case hasField(part, "Title:"):
				if v := fieldValue(part, "Title:"); v != "" {
					record.Title = v
				}
			case hasField(part, "Author:"):
				if v := fieldValue(part, "Author:"); v != "" {
					record.Author = v
				}
			case hasField(part, "Confidence:"):
				record.Confidence = NormalizeConfidence(fieldValue(part, "Confidence:"))
			}
		}

		records = append(records, record)
	}

	return records
}

// NormalizeConfidence lower-cases v and maps anything unrecognised to low.
func NormalizeConfidence(v string) model.Confidence {
	switch c := model.Confidence(strings.ToLower(strings.TrimSpace(v))); c {
	case model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceLow:
		return c
	default:
		return model.ConfidenceLow
	}
}

func hasField(part, prefix string) bool {
	return len(part) >= len(prefix) && strings.EqualFold(part[:len(prefix)], prefix)
}

func fieldValue(part, prefix string) string {
	return strings.TrimSpace(part[len(prefix):])
}

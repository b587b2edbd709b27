// Package filter selects prompt records by column values and free text.
package filter

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"prompt-library/internal/storage"
)

// Criteria maps a column name to the values accepted for it.
// A column with no accepted values is unconstrained.
type Criteria map[string][]string

// Apply returns the records whose value for every constrained column is one
// of that column's accepted values. Order is preserved and the input is not
// modified. A constrained column that records do not have reads as empty.
func Apply(records []storage.Record, criteria Criteria) []storage.Record {
	active := make(map[string][]string, len(criteria))
	for column, accepted := range criteria {
		if len(accepted) > 0 {
			active[column] = accepted
		}
	}
	if len(active) == 0 {
		return records
	}

	matched := make([]storage.Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, active) {
			matched = append(matched, rec)
		}
	}
	return matched
}

func matches(rec storage.Record, criteria Criteria) bool {
	for column, accepted := range criteria {
		value, _ := rec.Field(column)
		if !slices.Contains(accepted, value) {
			return false
		}
	}
	return true
}

// Options returns the distinct values of column across records in the order
// they first appear.
func Options(records []storage.Record, column string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, rec := range records {
		value, ok := rec.Field(column)
		if !ok {
			return nil
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}

// searchSource adapts records to fuzzy.Source.
type searchSource []storage.Record

func (s searchSource) String(i int) string {
	rec := s[i]
	return strings.Join([]string{rec.Title, rec.Tags, string(rec.Application), string(rec.Type)}, " ")
}

func (s searchSource) Len() int {
	return len(s)
}

// Search fuzzy-matches query against each record's title, tags, application
// and type. Results are ranked best match first. A blank query returns
// records unchanged.
func Search(records []storage.Record, query string) []storage.Record {
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}

	found := fuzzy.FindFrom(query, searchSource(records))
	results := make([]storage.Record, 0, len(found))
	for _, match := range found {
		results = append(results, records[match.Index])
	}
	return results
}

package lender

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Criteria is a conjunctive filter over the cached records. The zero value of
// each field means "no constraint", never "match empty".
type Criteria struct {
	Category     Category
	Status       Status
	Relationship Relationship
	Text         string
}

func (c Criteria) validate() error {
	if c.Category != "" {
		if _, err := Lookup(c.Category); err != nil {
			return fmt.Errorf("%w: category %q", ErrInvalidCriteria, c.Category)
		}
	}
	if c.Status != "" && !c.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidCriteria, c.Status)
	}
	if c.Relationship != "" && !c.Relationship.Valid() {
		return fmt.Errorf("%w: relationship %q", ErrInvalidCriteria, c.Relationship)
	}
	return nil
}

func (c Criteria) matches(rec Record) bool {
	if c.Category != "" && rec.Category != c.Category {
		return false
	}
	if c.Status != "" && rec.Status != c.Status {
		return false
	}
	if c.Relationship != "" && rec.Relationship != c.Relationship {
		return false
	}
	if c.Text != "" {
		needle := strings.ToLower(c.Text)
		if !strings.Contains(strings.ToLower(rec.Name()), needle) && !searchFieldsMatch(rec, needle) {
			return false
		}
	}
	return true
}

func searchFieldsMatch(rec Record, needle string) bool {
	sch, err := Lookup(rec.Category)
	if err != nil {
		return false
	}
	for _, name := range sch.SearchFields {
		if strings.Contains(strings.ToLower(rec.Fields[name]), needle) {
			return true
		}
	}
	return false
}

// Query filters and orders a snapshot of records. The result is a restartable
// sequence over an immutable copy; iterating never touches the input again.
//
// Ordering is the manual-priority rule from the lender sheets: records with a
// nonzero sort_order come first, ascending; everything else follows ordered
// by case-insensitive lender name. sort_order zero and absent are equivalent.
func Query(records []Record, criteria Criteria) (iter.Seq[Record], error) {
	if err := criteria.validate(); err != nil {
		return nil, err
	}

	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if criteria.matches(rec) {
			matched = append(matched, rec)
		}
	}
	sortRecords(matched)

	return func(yield func(Record) bool) {
		for _, rec := range matched {
			if !yield(rec) {
				return
			}
		}
	}, nil
}

func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.SortOrder > 0 && b.SortOrder > 0:
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return nameLess(a, b)
		case a.SortOrder > 0:
			return true
		case b.SortOrder > 0:
			return false
		default:
			return nameLess(a, b)
		}
	})
}

func nameLess(a, b Record) bool {
	return strings.ToLower(a.Name()) < strings.ToLower(b.Name())
}

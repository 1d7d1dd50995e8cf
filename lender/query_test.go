package lender

import (
	"errors"
	"testing"
)

func mcaRecord(id, name string, sortOrder int, status Status, rel Relationship) Record {
	return Record{
		ID:       id,
		Category: CategoryMCA,
		Fields: map[string]string{
			FieldLenderName: name,
			"iso_rep":       "",
		},
		Status:       status,
		Relationship: rel,
		SortOrder:    sortOrder,
	}
}

func collect(t *testing.T, records []Record, criteria Criteria) []Record {
	t.Helper()
	seq, err := Query(records, criteria)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	var out []Record
	for rec := range seq {
		out = append(out, rec)
	}
	return out
}

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name()
	}
	return out
}

func TestQueryTwoTierOrdering(t *testing.T) {
	records := []Record{
		mcaRecord("1", "Beta", 0, StatusActive, RelationshipHugeCapital),
		mcaRecord("2", "Alpha", 2, StatusActive, RelationshipHugeCapital),
		mcaRecord("3", "Gamma", 1, StatusActive, RelationshipHugeCapital),
		mcaRecord("4", "delta", 0, StatusActive, RelationshipHugeCapital),
	}

	got := names(collect(t, records, Criteria{}))
	// Manually prioritized lenders first by ascending sort_order, then the
	// zero group alphabetically, case-insensitive.
	want := []string{"Gamma", "Alpha", "Beta", "delta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ordering mismatch: got %v want %v", got, want)
		}
	}
}

func TestQueryConjunctiveFilters(t *testing.T) {
	records := []Record{
		mcaRecord("1", "Apex", 0, StatusActive, RelationshipIFS),
		mcaRecord("2", "Bolt", 0, StatusActive, RelationshipHugeCapital),
		mcaRecord("3", "Crest", 0, StatusInactive, RelationshipIFS),
	}

	got := collect(t, records, Criteria{Status: StatusActive, Relationship: RelationshipIFS})
	if len(got) != 1 || got[0].Name() != "Apex" {
		t.Fatalf("expected only Apex, got %v", names(got))
	}
}

func TestQueryAbsentFieldMeansNoConstraint(t *testing.T) {
	records := []Record{
		mcaRecord("1", "Apex", 0, StatusActive, RelationshipIFS),
		mcaRecord("2", "Bolt", 0, StatusArchived, RelationshipHugeCapital),
	}
	got := collect(t, records, Criteria{})
	if len(got) != 2 {
		t.Fatalf("empty criteria should match all, got %d", len(got))
	}
}

func TestQueryTextSearch(t *testing.T) {
	rep := mcaRecord("1", "Apex Advance", 0, StatusActive, RelationshipHugeCapital)
	rep.Fields["iso_rep"] = "Dana Whitfield"

	dscr := Record{
		ID:       "2",
		Category: CategoryDSCR,
		Fields: map[string]string{
			FieldLenderName:  "Bolt Capital",
			"contact_person": "Marcus Reyes",
		},
		Status:       StatusActive,
		Relationship: RelationshipHugeCapital,
	}

	records := []Record{rep, dscr}

	if got := collect(t, records, Criteria{Text: "whitfield"}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("iso_rep search failed: %v", names(got))
	}
	if got := collect(t, records, Criteria{Text: "MARCUS"}); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("contact_person search failed: %v", names(got))
	}
	if got := collect(t, records, Criteria{Text: "olt cap"}); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("substring name search failed: %v", names(got))
	}
	if got := collect(t, records, Criteria{Text: "nobody"}); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", names(got))
	}
}

func TestQueryInvalidCriteria(t *testing.T) {
	if _, err := Query(nil, Criteria{Category: "boat_loans"}); !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria for category, got %v", err)
	}
	if _, err := Query(nil, Criteria{Status: "deleted"}); !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria for status, got %v", err)
	}
	if _, err := Query(nil, Criteria{Relationship: "Partner"}); !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria for relationship, got %v", err)
	}
}

func TestQuerySequenceIsRestartable(t *testing.T) {
	records := []Record{
		mcaRecord("1", "Apex", 0, StatusActive, RelationshipHugeCapital),
		mcaRecord("2", "Bolt", 0, StatusActive, RelationshipHugeCapital),
	}
	seq, err := Query(records, Criteria{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	var first, second int
	for range seq {
		first++
	}
	for rec := range seq {
		second++
		_ = rec
	}
	if first != 2 || second != 2 {
		t.Fatalf("sequence not restartable: first=%d second=%d", first, second)
	}
}

func TestQueryEarlyBreak(t *testing.T) {
	records := []Record{
		mcaRecord("1", "Apex", 0, StatusActive, RelationshipHugeCapital),
		mcaRecord("2", "Bolt", 0, StatusActive, RelationshipHugeCapital),
		mcaRecord("3", "Crest", 0, StatusActive, RelationshipHugeCapital),
	}
	seq, err := Query(records, Criteria{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	var seen int
	for range seq {
		seen++
		break
	}
	if seen != 1 {
		t.Fatalf("expected early break after 1, got %d", seen)
	}
}

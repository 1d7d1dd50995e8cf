package lender

import "time"

// Status is the lifecycle state of a lender record. Records are never
// physically deleted; archiving is the soft-delete path.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusArchived:
		return true
	}
	return false
}

// Relationship identifies which book of business a lender belongs to.
type Relationship string

const (
	RelationshipHugeCapital Relationship = "Huge Capital"
	RelationshipIFS         Relationship = "IFS"
)

func (r Relationship) Valid() bool {
	return r == RelationshipHugeCapital || r == RelationshipIFS
}

// Record is the normalized in-memory view of one lender row. Fields holds
// every business field the category schema declares, always defined, with
// empty string standing in for absent values.
type Record struct {
	ID           string
	Category     Category
	Fields       map[string]string
	Status       Status
	Relationship Relationship
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    *string
	UpdatedBy    *string
}

// Name returns the lender display name. Non-empty for every cached record.
func (r Record) Name() string { return r.Fields[FieldLenderName] }

// Clone returns a copy that shares no mutable state with the receiver.
func (r Record) Clone() Record {
	out := r
	out.Fields = make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	if r.CreatedBy != nil {
		v := *r.CreatedBy
		out.CreatedBy = &v
	}
	if r.UpdatedBy != nil {
		v := *r.UpdatedBy
		out.UpdatedBy = &v
	}
	return out
}

// FormData carries caller-supplied values for creating a record. System
// fields (id, timestamps) are assigned by the coordinator.
type FormData struct {
	Fields       map[string]string
	Status       Status
	Relationship Relationship
	SortOrder    int
	Actor        string
}

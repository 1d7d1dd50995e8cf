package lender

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hugecapital/observability"
)

// Normalizer is the single chokepoint that turns untrusted backing-store rows
// into typed records. It never fails on bad data: unrecognized enum values
// are coerced to defaults and reported as data-quality warnings.
type Normalizer struct {
	logger  *zap.Logger
	metrics *observability.Metrics
}

func NewNormalizer(logger *zap.Logger, metrics *observability.Metrics) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger, metrics: metrics}
}

// Normalize converts a raw key-value row into a Record for the given
// category. The only error is an unknown category; everything else is
// coerced. Every field the schema declares is defined on the result.
func (n *Normalizer) Normalize(category Category, row map[string]any) (Record, error) {
	sch, err := Lookup(category)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:       asString(row["id"]),
		Category: category,
		Fields:   make(map[string]string, len(sch.Fields)),
	}

	for _, spec := range sch.Fields {
		value := asString(row[spec.Name])
		if !spec.allows(value) {
			n.warn(category, spec.Name, row[spec.Name])
			value = ""
		}
		rec.Fields[spec.Name] = value
	}

	rec.Status = Status(asString(row["status"]))
	if !rec.Status.Valid() {
		n.warn(category, "status", row["status"])
		rec.Status = StatusActive
	}

	rec.Relationship = Relationship(asString(row["relationship"]))
	if !rec.Relationship.Valid() {
		n.warn(category, "relationship", row["relationship"])
		rec.Relationship = RelationshipHugeCapital
	}

	if sch.HasSortOrder {
		rec.SortOrder = asInt(row["sort_order"])
	}

	rec.CreatedAt = asTime(row["created_at"])
	rec.UpdatedAt = asTime(row["updated_at"])
	rec.CreatedBy = asOptString(row["created_by"])
	rec.UpdatedBy = asOptString(row["updated_by"])

	return rec, nil
}

func (n *Normalizer) warn(category Category, field string, raw any) {
	n.logger.Warn("lender row coerced",
		zap.String("category", string(category)),
		zap.String("field", field),
		zap.Any("value", raw))
	if n.metrics != nil {
		n.metrics.LenderCoercions.WithLabelValues(string(category), field).Inc()
	}
}

// asString accepts the value shapes a loosely-typed store hands back. Numbers
// become their decimal rendering so numeric-string columns stay comparable.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return asString(float64(t))
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int16:
		return int(t)
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999-07", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}

func asOptString(v any) *string {
	s := asString(v)
	if s == "" {
		return nil
	}
	return &s
}

package memdoc

import (
	"cmp"
	"slices"
	"time"

	"hub/internal/domain/repository"
)

// queryLocked evaluates q the way the hosted store does: equality filters,
// documents lacking the order field are excluded, then the limit applies.
func (s *Store) queryLocked(q repository.Query) []repository.Document {
	type hit struct {
		id  string
		doc *document
	}

	var hits []hit
	for id, doc := range s.collections[q.Collection] {
		if !matches(doc.fields, q.Filters) {
			continue
		}
		if q.OrderBy != "" {
			if _, ok := doc.fields[q.OrderBy]; !ok {
				continue
			}
		}
		hits = append(hits, hit{id: id, doc: doc})
	}

	slices.SortFunc(hits, func(a, b hit) int {
		if q.OrderBy != "" {
			c := compareValues(a.doc.fields[q.OrderBy], b.doc.fields[q.OrderBy])
			if q.Direction == repository.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}

		return cmp.Compare(a.id, b.id)
	})

	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]repository.Document, 0, len(hits))
	for _, h := range hits {
		out = append(out, toDocument(h.id, h.doc))
	}

	return out
}

func matches(fields map[string]any, filters []repository.Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok || compareValues(v, f.Value) != 0 {
			return false
		}
	}

	return true
}

// compareValues orders numbers, strings, booleans and timestamps. Values of
// different kinds order by kind.
func compareValues(a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case kindBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case kindNumber:
		return cmp.Compare(toFloat(a), toFloat(b))
	case kindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case kindString:
		return cmp.Compare(toString(a), toString(b))
	default:
		return 0
	}
}

const (
	kindNull = iota
	kindBool
	kindNumber
	kindTime
	kindString
	kindOther
)

func kindOf(v any) int {
	switch v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return kindNumber
	case time.Time:
		return kindTime
	case string:
		return kindString
	default:
		if _, ok := v.(interface{ String() string }); ok {
			return kindString
		}

		return kindOther
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case interface{ String() string }:
		return t.String()
	default:
		return ""
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

// resolve deep-copies a field value, replacing ServerTimestamp with now.
func resolve(v any, now time.Time) any {
	if repository.IsServerTimestamp(v) {
		return now
	}

	switch t := v.(type) {
	case map[string]any:
		return resolveMap(t, now)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = resolve(e, now)
		}

		return out
	case []string:
		return slices.Clone(t)
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = resolveMap(e, now)
		}

		return out
	default:
		return v
	}
}

func resolveMap(m map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = resolve(v, now)
	}

	return out
}

func cloneMap(m map[string]any) map[string]any {
	// Stored values never hold the sentinel, so the clock is irrelevant.
	return resolveMap(m, time.Time{})
}

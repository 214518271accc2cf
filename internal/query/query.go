// Package query translates untyped request parameters into a typed catalog query.
package query

import (
	"math"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Reserved parameter names that never become filter conditions.
const (
	ParamSort   = "sort"
	ParamFields = "fields"
	ParamLimit  = "limit"
	ParamSkip   = "skip"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// IDField is always part of a projection.
const IDField = "id"

var reserved = map[string]struct{}{
	ParamSort:   {},
	ParamFields: {},
	ParamLimit:  {},
	ParamSkip:   {},
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Condition is an equality (or set-membership, for KindSet) test on one field.
type Condition struct {
	Field string
	Value Value
}

// SortKey is one key of a multi-key sort; the first key is primary.
type SortKey struct {
	Field string
	Desc  bool
}

// Query is the store-independent form of a list request.
type Query struct {
	Filter []Condition
	Sort   []SortKey
	Fields []string // inclusion projection; empty means all fields
	Limit  int
	Skip   int
}

// ValidField reports whether name can be addressed as a document path.
func ValidField(name string) bool {
	return fieldPattern.MatchString(name)
}

// Parse builds a Query from request parameters. Keys listed in ignore are
// left out of the filter in addition to the reserved ones.
func Parse(values url.Values, ignore ...string) Query {
	return Query{
		Filter: parseFilter(values, ignore),
		Sort:   ParseSort(values.Get(ParamSort)),
		Fields: ParseFields(values.Get(ParamFields)),
		Limit:  ParseLimit(values.Get(ParamLimit)),
		Skip:   ParseSkip(values.Get(ParamSkip)),
	}
}

func parseFilter(values url.Values, ignore []string) []Condition {
	keys := make([]string, 0, len(values))
	for k := range values {
		if _, ok := reserved[k]; ok || slices.Contains(ignore, k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]Condition, 0, len(keys))
	for _, k := range keys {
		raw := values[k]
		if len(raw) == 0 {
			continue
		}
		var v Value
		if len(raw) == 1 {
			v = ParseValue(raw[0])
		} else {
			// ?brand=a&brand=b,c behaves like ?brand=a,b,c
			v = ParseValue(strings.Join(raw, ","))
		}
		conds = append(conds, Condition{Field: k, Value: v})
	}
	return conds
}

// ParseSort reads "f1,-f2". Duplicate fields keep their first position.
func ParseSort(raw string) []SortKey {
	var out []SortKey
	seen := map[string]struct{}{}
	for _, p := range splitList(raw) {
		desc := strings.HasPrefix(p, "-")
		field := strings.TrimPrefix(p, "-")
		if !ValidField(field) {
			continue
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, SortKey{Field: field, Desc: desc})
	}
	return out
}

// ParseFields reads "a,b" into an inclusion list.
func ParseFields(raw string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, f := range splitList(raw) {
		if !ValidField(f) {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// ParseLimit applies the default and clamps to [0, MaxLimit].
func ParseLimit(raw string) int {
	n, ok := parseCount(raw)
	if !ok {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	if n < 0 {
		return 0
	}
	return n
}

// ParseSkip applies the default and floors at 0.
func ParseSkip(raw string) int {
	n, ok := parseCount(raw)
	if !ok || n < 0 {
		return 0
	}
	return n
}

func parseCount(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32, true
	case f < math.MinInt32:
		return math.MinInt32, true
	}
	return int(f), true
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Project keeps only the requested fields of doc plus its id.
// An empty field list returns doc unchanged.
func (q Query) Project(doc map[string]any) map[string]any {
	if len(q.Fields) == 0 {
		return doc
	}
	out := make(map[string]any, len(q.Fields)+1)
	if id, ok := doc[IDField]; ok {
		out[IDField] = id
	}
	for _, f := range q.Fields {
		if v, ok := lookup(doc, f); ok {
			assign(out, f, v)
		}
	}
	return out
}

func lookup(doc map[string]any, path string) (any, bool) {
	cur := any(doc)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func assign(dst map[string]any, path string, v any) {
	segs := strings.Split(path, ".")
	for _, seg := range segs[:len(segs)-1] {
		next, ok := dst[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			dst[seg] = next
		}
		dst = next
	}
	dst[segs[len(segs)-1]] = v
}

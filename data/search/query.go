package search

import (
	"encoding/json"
	"reflect"
	"sort"
	"time"
)

// WireQuery is an engine-native search request in the Elasticsearch query DSL.
// Index and Scroll travel as request parameters, the rest is the JSON body.
type WireQuery struct {
	Index  string        `json:"-"`
	Scroll time.Duration `json:"-"`
	From   int           `json:"from"`
	Size   int           `json:"size"`
	Query  BoolQuery     `json:"query"`
	Sort   []SortClause  `json:"sort"`
}

// Body returns the JSON request body.
func (q *WireQuery) Body() ([]byte, error) {
	return json.Marshal(q)
}

// BoolQuery wraps the clauses that must all match.
type BoolQuery struct {
	Bool struct {
		Must []Clause `json:"must"`
	} `json:"bool"`
}

// Must returns the clause list.
func (b BoolQuery) Must() []Clause { return b.Bool.Must }

// Clause is one entry of a bool.must list. Exactly one field is set.
type Clause struct {
	MatchAll   *struct{}      `json:"match_all,omitempty"`
	MultiMatch *MultiMatch    `json:"multi_match,omitempty"`
	Match      map[string]any `json:"match,omitempty"`
}

// MultiMatch is a relevance clause over several fields.
type MultiMatch struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
	Type   string   `json:"type"`
}

// PhrasePrefix is the multi_match type used for free-text queries.
const PhrasePrefix = "phrase_prefix"

// MatchAll returns a clause matching every document.
func MatchAll() Clause { return Clause{MatchAll: &struct{}{}} }

// MatchField returns an exact match clause on field.
func MatchField(field string, value any) Clause {
	return Clause{Match: map[string]any{field: value}}
}

// SortClause serializes as {"<field>": {"order": "<direction>"}}.
type SortClause struct {
	Field string
	Order Direction
}

func (s SortClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]Direction{
		s.Field: {"order": s.Order},
	})
}

// Translate builds the wire query for req. fields are the free-text fields of
// the target type. A non-nil page overrides both the default window and the
// window carried by req.
func Translate(req Request, fields []string, page *Page) *WireQuery {
	q := &WireQuery{
		Index:  req.index(),
		Scroll: ScrollKeepAlive,
		From:   0,
		Size:   DefaultLimit,
	}

	// window
	if req.Window != nil {
		q.From, q.Size = req.Window.Offset, req.Window.Limit
	}
	if page != nil {
		q.From, q.Size = page.Offset, page.Limit
	}

	// relevance
	switch {
	case req.Query == "" && len(req.Filters) == 0:
		q.Query.Bool.Must = []Clause{MatchAll()}
	default:
		if fields == nil {
			fields = []string{}
		}
		q.Query.Bool.Must = []Clause{{MultiMatch: &MultiMatch{
			Query:  req.Query,
			Fields: fields,
			Type:   PhrasePrefix,
		}}}
	}

	// filters replace relevance
	if len(req.Filters) > 0 {
		q.Query.Bool.Must = filterClauses(req.Filters)
	}

	// sort
	if len(req.Sorts) == 0 {
		q.Sort = []SortClause{{Field: KeyField, Order: Desc}}
	} else {
		q.Sort = make([]SortClause, 0, len(req.Sorts))
		for _, s := range req.Sorts {
			q.Sort = append(q.Sort, SortClause{Field: s.Field, Order: s.Direction})
		}
	}

	return q
}

func filterClauses(filters map[string]any) []Clause {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]Clause, 0, len(keys))
	for _, k := range keys {
		v, ok := filterValue(filters[k])
		if !ok {
			continue
		}
		clauses = append(clauses, MatchField(k, v))
	}
	if len(clauses) == 0 {
		return []Clause{MatchAll()}
	}
	return clauses
}

// filterValue returns the value a filter contributes. Sequences contribute
// their first element. Nil, empty strings and empty sequences contribute nothing.
func filterValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.(string); ok {
		return s, s != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil, false
		}
		return rv.Index(0).Interface(), true
	case reflect.Pointer, reflect.Interface, reflect.Map:
		if rv.IsNil() {
			return nil, false
		}
	}
	return v, true
}

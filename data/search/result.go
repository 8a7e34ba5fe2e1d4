package search

import (
	"cmp"
	"context"
	"slices"
)

// Fetcher loads entities by identifier from the system of record, in any order.
type Fetcher[T Indexable] func(ctx context.Context, ids []string) ([]T, error)

// MapIDs returns the hit identifiers in hit order.
func MapIDs(raw *RawResponse) []string {
	if raw == nil {
		return []string{}
	}
	ids := make([]string, 0, len(raw.Hits.Hits))
	for _, h := range raw.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

// TotalCount returns the total reported by the engine.
func TotalCount(raw *RawResponse) int64 {
	if raw == nil {
		return 0
	}
	return raw.Hits.Total.Value
}

// MapEntities fetches the entities behind the hits of raw and returns them in
// hit order. Entities without a matching hit are dropped.
func MapEntities[T Indexable](ctx context.Context, raw *RawResponse, fetch Fetcher[T]) ([]T, error) {
	return mapEntities(ctx, MapIDs(raw), fetch)
}

// Hydrate is MapEntities for an already mapped result set.
func Hydrate[T Indexable](ctx context.Context, rs *ResultSet, fetch Fetcher[T]) ([]T, error) {
	if rs == nil {
		return []T{}, nil
	}
	return mapEntities(ctx, rs.IDs, fetch)
}

func mapEntities[T Indexable](ctx context.Context, ids []string, fetch Fetcher[T]) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, seen := rank[id]; !seen {
			rank[id] = i
		}
	}

	fetched, err := fetch(ctx, slices.Clone(ids))
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(fetched))
	for _, e := range fetched {
		if _, ok := rank[e.SearchKey()]; ok {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(rank[a.SearchKey()], rank[b.SearchKey()])
	})
	return out, nil
}

func newResultSet(raw *RawResponse) *ResultSet {
	rs := &ResultSet{IDs: MapIDs(raw), Total: TotalCount(raw), Raw: raw}
	if raw != nil {
		rs.ScrollID = raw.ScrollID
	}
	return rs
}

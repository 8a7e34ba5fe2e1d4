package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/meilisearch/meilisearch-go"
	"github.com/ncobase/herosearch/data/search"
)

// Meilisearch error codes with a dedicated error kind.
const (
	codeIndexExists   = "index_already_exists"
	codeIndexNotFound = "index_not_found"
)

// errTypeOf maps a Meilisearch error code to the engine error type understood
// by search.FromResponse.
func errTypeOf(code string) string {
	switch code {
	case codeIndexExists:
		return "resource_already_exists_exception"
	case codeIndexNotFound:
		return "index_not_found_exception"
	default:
		return code
	}
}

// statusOf returns the HTTP status Meilisearch answers synchronous requests
// with for code. Failed tasks carry no status of their own.
func statusOf(code string) int {
	switch code {
	case codeIndexExists:
		return http.StatusConflict
	case codeIndexNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// classify maps a meilisearch-go error onto the search error kinds.
func classify(op, index string, err error) error {
	var me *meilisearch.Error
	if errors.As(err, &me) && me.StatusCode != 0 {
		api := me.MeilisearchApiError
		return search.FromResponse(op, index, me.StatusCode, errTypeOf(api.Code), api.Message)
	}
	return search.Unavailable(op, index, err)
}

// fail classifies err, reporting a done ctx as the cause so callers can test
// for context.Canceled or context.DeadlineExceeded.
func fail(ctx context.Context, op, index string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return search.Unavailable(op, index, ctxErr)
	}
	return classify(op, index, err)
}

package client

import (
	"errors"

	"github.com/ncobase/herosearch/data/search"
	"github.com/opensearch-project/opensearch-go/v4"
)

// classify maps an opensearch-go error onto the search error kinds.
// Anything that is not an engine-reported error means the cluster was not reached.
func classify(op, index string, err error) error {
	if err == nil {
		return nil
	}

	var structErr *opensearch.StructError
	if errors.As(err, &structErr) {
		return search.FromResponse(op, index, structErr.Status, structErr.Err.Type, structErr.Err.Reason)
	}

	var stringErr *opensearch.StringError
	if errors.As(err, &stringErr) {
		return search.FromResponse(op, index, stringErr.Status, "", stringErr.Err)
	}
	return search.Unavailable(op, index, err)
}

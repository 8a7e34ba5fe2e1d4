package client

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/ncobase/herosearch/data/search"
)

// errorBody is the error envelope of a failed request.
type errorBody struct {
	Error json.RawMessage `json:"error"`
}

type errorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// cause extracts the error type and reason. Older responses carry a plain string.
func (b errorBody) cause() errorCause {
	var c errorCause
	if len(b.Error) == 0 {
		return c
	}
	if err := json.Unmarshal(b.Error, &c); err != nil {
		var reason string
		if json.Unmarshal(b.Error, &reason) == nil {
			c.Reason = reason
		}
	}
	return c
}

func responseError(op, index string, res *esapi.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(res.Body)
	_ = json.Unmarshal(raw, &body)
	c := body.cause()
	return search.FromResponse(op, index, res.StatusCode, c.Type, c.Reason)
}

// check converts a response without a payload of interest into an error.
func check(op, index string, res *esapi.Response, err error) error {
	if err != nil {
		return search.Unavailable(op, index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(op, index, res)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

// decode converts a search or scroll response.
func decode(op, index string, res *esapi.Response, err error) (*search.RawResponse, error) {
	if err != nil {
		return nil, search.Unavailable(op, index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(op, index, res)
	}

	var raw search.RawResponse
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("elasticsearch parsing error: %w", err)
	}
	return &raw, nil
}

type bulkResponse struct {
	Errors bool                          `json:"errors"`
	Items  []map[string]bulkResponseItem `json:"items"`
}

type bulkResponseItem struct {
	ID     string     `json:"_id"`
	Status int        `json:"status"`
	Error  errorCause `json:"error"`
}

// err reports the first failed item. Deleting a missing document is not a failure.
func (r bulkResponse) err(index string) error {
	if !r.Errors {
		return nil
	}
	for _, item := range r.Items {
		for action, result := range item {
			if result.Status < 300 || (action == "delete" && result.Status == 404) {
				continue
			}
			return search.FromResponse(search.OpBulk, index, result.Status, result.Error.Type,
				fmt.Sprintf("%s %s: %s", action, result.ID, result.Error.Reason))
		}
	}
	return nil
}

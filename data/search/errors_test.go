package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromResponse(t *testing.T) {
	tests := []struct {
		status  int
		errType string
		want    error
	}{
		{400, "resource_already_exists_exception", ErrAlreadyExists},
		{404, "index_not_found_exception", ErrNotFound},
		{404, "", ErrNotFound},
		{400, "mapper_parsing_exception", ErrEngineRejected},
		{503, "", ErrEngineUnavailable},
	}
	for _, tt := range tests {
		err := FromResponse(OpCreateIndex, "posts", tt.status, tt.errType, "")
		assert.ErrorIs(t, err, tt.want, "status %d type %q", tt.status, tt.errType)

		var se *Error
		require.True(t, errors.As(err, &se))
		assert.Equal(t, tt.status, se.Status)
		assert.Equal(t, "posts", se.Index)
	}
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Unavailable(OpSearch, "posts", cause)

	assert.ErrorIs(t, err, ErrEngineUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "search posts: search engine unavailable: dial tcp: connection refused", err.Error())
}

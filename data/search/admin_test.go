package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdministratorRebuild(t *testing.T) {
	ft := newFakeTransport()
	admin := NewAdministrator(ft)

	require.NoError(t, admin.Rebuild(context.Background(), post{}))
	assert.Equal(t, []string{OpDeleteIndex, OpCreateIndex}, ft.ops())
	assert.Equal(t, "posts", ft.calls[1].Index)
}

func TestAdministratorRebuildMissingIndex(t *testing.T) {
	ft := newFakeTransport()
	ft.errs[OpDeleteIndex] = FromResponse(OpDeleteIndex, "posts", 404, "index_not_found_exception", "no such index")

	require.NoError(t, NewAdministrator(ft).Rebuild(context.Background(), post{}))
	assert.Equal(t, []string{OpDeleteIndex, OpCreateIndex}, ft.ops())
}

func TestAdministratorRebuildDeleteFailure(t *testing.T) {
	ft := newFakeTransport()
	ft.errs[OpDeleteIndex] = Unavailable(OpDeleteIndex, "posts", errors.New("connection refused"))

	err := NewAdministrator(ft).Rebuild(context.Background(), post{})
	assert.ErrorIs(t, err, ErrEngineUnavailable)
	assert.Equal(t, []string{OpDeleteIndex}, ft.ops())
}

func TestAdministratorCreateExisting(t *testing.T) {
	ft := newFakeTransport()
	ft.errs[OpCreateIndex] = FromResponse(OpCreateIndex, "posts", 400, "resource_already_exists_exception", "index [posts] already exists")

	err := NewAdministrator(ft).Create(context.Background(), DefaultDefinition("posts"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAdministratorApply(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		op   IndexOperation
		want []string
		err  error
	}{
		{"create", CreateIndex{Definition: DefaultDefinition("posts")}, []string{OpCreateIndex}, nil},
		{"delete", DeleteIndex{Name: "posts"}, []string{OpDeleteIndex}, nil},
		{"rebuild", RebuildIndex{Entity: post{}}, []string{OpDeleteIndex, OpCreateIndex}, nil},
		{"invalid definition", CreateIndex{Definition: DefaultDefinition("")}, []string{}, ErrInvalidDefinition},
		{"nil", nil, []string{}, ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFakeTransport()
			err := NewAdministrator(ft).Apply(ctx, tt.op)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, ft.ops())
		})
	}
}

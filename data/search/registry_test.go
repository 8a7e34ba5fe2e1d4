package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("post", post{}))
	require.NoError(t, r.RegisterTypes(EntityType{Name: "article", Index: "articles", Fields: []string{"title"}}))

	assert.Error(t, r.Register("post", post{}))
	assert.Error(t, r.Register("", post{}))
	assert.Equal(t, []string{"article", "post"}, r.Names())

	e, err := r.Resolve("article")
	require.NoError(t, err)
	assert.Equal(t, "articles", e.SearchableAs())
	assert.Equal(t, []string{"title"}, SearchableFieldsOf(e))

	_, err = r.Resolve("missing")
	assert.ErrorIs(t, err, ErrUnresolvableEntityType)
}

func TestSearchableFieldsOf(t *testing.T) {
	assert.Equal(t, []string{"title", "body"}, SearchableFieldsOf(post{}))
	assert.Equal(t, []string{}, SearchableFieldsOf(tag{}))
	assert.Equal(t, []string{}, SearchableFieldsOf(EntityType{Name: "x"}))
	assert.Equal(t, "x", EntityType{Name: "x"}.SearchableAs())
}

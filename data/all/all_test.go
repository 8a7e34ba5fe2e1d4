package all

import (
	"testing"

	"github.com/ncobase/herosearch/data"
	"github.com/stretchr/testify/assert"
)

func TestAllDriversRegistered(t *testing.T) {
	assert.Equal(t, []string{"elasticsearch", "meilisearch", "opensearch"}, data.ListSearchDrivers())
}

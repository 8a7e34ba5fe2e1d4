package version

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersionInfo(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	info := GetVersionInfo()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.True(t, strings.HasPrefix(info.String(), "Version: v1.2.3\n"))

	s, err := info.JSON()
	require.NoError(t, err)
	var decoded Info
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, info, decoded)
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abcdef0", shorten("abcdef0123456789"))
	assert.Equal(t, "abc", shorten("abc"))
}

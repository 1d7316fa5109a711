package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_UnknownKey_InSection(t *testing.T) {
	path := writeTestConfig(t, "[catalog]\nurll = \"http://stash:9999/graphql\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown config key "catalog.urll"`)
	assert.Contains(t, err.Error(), `did you mean "catalog.url"`)
}

func TestLoad_UnknownKey_MisplacedAtTopLevel(t *testing.T) {
	path := writeTestConfig(t, "root = \"/media/performers\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "library.root"`)
}

func TestLoad_UnknownSection_ReportedOnce(t *testing.T) {
	path := writeTestConfig(t, "[loging]\nlog_level = \"debug\"\nlog_format = \"json\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), "unknown config key"))
	assert.Contains(t, err.Error(), `did you mean "logging"`)
}

func TestLoad_UnknownKey_NoSuggestion(t *testing.T) {
	path := writeTestConfig(t, "[remote]\ncompletely_unrelated_key = true\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestLoad_UnknownKeys_AllReported(t *testing.T) {
	path := writeTestConfig(t, "[catalog]\npage_siz = 10\n[network]\ntimeot = \"5s\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.page_size")
	assert.Contains(t, err.Error(), "network.timeout")
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"urll", "url", 1},
		{"loging", "logging", 1},
		{"completely_different", "xyz", 19},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshtein(tt.a, tt.b))
		})
	}
}

func TestClosestMatch_Found(t *testing.T) {
	known := []string{"log_level", "log_format", "issue_log"}
	assert.Equal(t, "log_level", closestMatch("log_levl", known))
	assert.Equal(t, "issue_log", closestMatch("issues_log", known))
}

func TestClosestMatch_NotFound(t *testing.T) {
	known := []string{"endpoint", "accepted_gender"}
	assert.Equal(t, "", closestMatch("completely_unrelated", known))
}

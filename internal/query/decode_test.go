package query

import (
	"encoding/json"
	"testing"

	"github.com/morikuni/failure/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takatori/threadsearch/internal/errors"
)

func expandJSON(t *testing.T, n *Node) string {
	t.Helper()
	b, err := json.Marshal(n.Expand())
	require.NoError(t, err)
	return string(b)
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single literal is normalised",
			input:    `{"must": {"text": "go"}}`,
			expected: `{"must":[{"text":"go"}]}`,
		},
		{
			name:     "literal list",
			input:    `{"must": {"text": ["san francisco", "bay area"]}}`,
			expected: `{"must":[{"text":"san francisco"},{"text":"bay area"}]}`,
		},
		{
			name:     "nested group",
			input:    `{"should": {"query": {"must": {"text": ["x"]}}, "title": "hiring"}}`,
			expected: `{"should":[{"title":"hiring"},{"must":[{"text":"x"}]}]}`,
		},
		{
			name:     "mixed array",
			input:    `{"should": {"text": ["remote", {"must": {"title": "senior"}}, "onsite"]}}`,
			expected: `{"should":[{"text":"remote"},{"text":"onsite"},{"must":[{"title":"senior"}]}]}`,
		},
		{
			name:     "key order is kept",
			input:    `{"must": {"title": "b", "text": "a"}}`,
			expected: `{"must":[{"title":"b"},{"text":"a"}]}`,
		},
		{
			name:     "empty operators are omitted",
			input:    `{"must": {}, "should": null, "should_not": {"text": []}}`,
			expected: `{}`,
		},
		{
			name:     "numbers become literals",
			input:    `{"must": {"year": 2019}}`,
			expected: `{"must":[{"year":"2019"}]}`,
		},
		{
			name:     "empty object",
			input:    `{}`,
			expected: `{}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			n, err := ParseJSON([]byte(test.input))
			require.NoError(t, err)
			assert.JSONEq(t, test.expected, expandJSON(t, n))
		})
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"must":`},
		{"not an object", `["must"]`},
		{"unknown operator", `{"must_not": {"text": "x"}}`},
		{"operator is not a mapping", `{"must": ["x"]}`},
		{"nested array", `{"must": {"text": [["x"]]}}`},
		{"unknown operator in group", `{"should": {"q": {"filter": {"text": "x"}}}}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(test.input))
			require.Error(t, err)
			assert.True(t, failure.Is(err, errors.ErrInvalidArgument), "unexpected error: %v", err)
		})
	}
}

func TestParseYAML(t *testing.T) {
	input := `
should:
  query:
    must:
      text: [x]
  title: hiring
should_not:
  text: ~
`
	n, err := ParseYAML([]byte(input))
	require.NoError(t, err)
	assert.JSONEq(t, `{"should":[{"title":"hiring"},{"must":[{"text":"x"}]}]}`, expandJSON(t, n))
}

func TestParseYAMLEmptyDocument(t *testing.T) {
	n, err := ParseYAML([]byte(""))
	require.NoError(t, err)
	assert.True(t, n.IsEmpty())
}

func TestParseSavedYAML(t *testing.T) {
	input := `
bay-area: &bay
  must:
    text: [san francisco, bay area]
bay-area-remote:
  must:
    q: *bay
  should:
    text: remote
`
	saved, err := ParseSavedYAML([]byte(input))
	require.NoError(t, err)
	require.Len(t, saved, 2)

	assert.JSONEq(t,
		`{"must":[{"text":"san francisco"},{"text":"bay area"}]}`,
		expandJSON(t, saved["bay-area"]),
	)
	assert.JSONEq(t,
		`{"must":[{"must":[{"text":"san francisco"},{"text":"bay area"}]}],"should":[{"text":"remote"}]}`,
		expandJSON(t, saved["bay-area-remote"]),
	)
}

func TestParseSavedYAMLMergeKeys(t *testing.T) {
	input := `
base: &base
  must:
    text: golang
  should_not:
    text: onsite
remote:
  <<: *base
  should:
    text: remote
senior:
  <<: *base
  must:
    <<: {title: senior}
    text: go
`
	saved, err := ParseSavedYAML([]byte(input))
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"must":[{"text":"golang"}],"should":[{"text":"remote"}],"should_not":[{"text":"onsite"}]}`,
		expandJSON(t, saved["remote"]),
	)
	// explicit keys replace merged ones
	assert.JSONEq(t,
		`{"must":[{"title":"senior"},{"text":"go"}],"should_not":[{"text":"onsite"}]}`,
		expandJSON(t, saved["senior"]),
	)

	_, err = ParseSavedYAML([]byte("q:\n  <<: [a]\n"))
	require.Error(t, err)
	assert.True(t, failure.Is(err, errors.ErrInvalidArgument))
}

func TestParseSavedYAMLErrors(t *testing.T) {
	_, err := ParseSavedYAML([]byte("- a\n- b\n"))
	require.Error(t, err)
	assert.True(t, failure.Is(err, errors.ErrInvalidArgument))

	_, err = ParseSavedYAML([]byte("q:\n  maybe:\n    text: x\n"))
	require.Error(t, err)
	assert.True(t, failure.Is(err, errors.ErrInvalidArgument))
}

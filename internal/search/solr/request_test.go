package solr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takatori/threadsearch/internal/query"
	"github.com/takatori/threadsearch/internal/search"
)

func TestTransformQuery(t *testing.T) {
	tests := []struct {
		name     string
		node     *query.Node
		expected string
	}{
		{
			name:     "empty query matches all",
			node:     query.New(),
			expected: `"*:*"`,
		},
		{
			name: "literal clauses",
			node: query.New(query.Must("text", query.Terms("san francisco", "bay area")...)),
			expected: `{"bool":{"must":[
				{"field":{"f":"text","query":"san francisco"}},
				{"field":{"f":"text","query":"bay area"}}
			]}}`,
		},
		{
			name: "should_not becomes must_not",
			node: query.New(
				query.Should("text", query.Term("remote")),
				query.ShouldNot("text", query.Term("crypto")),
			),
			expected: `{"bool":{
				"should":[{"field":{"f":"text","query":"remote"}}],
				"must_not":[{"field":{"f":"text","query":"crypto"}}]
			}}`,
		},
		{
			name: "negative only query matches all first",
			node: query.New(query.ShouldNot("text", query.Term("crypto"))),
			expected: `{"bool":{
				"must":["*:*"],
				"must_not":[{"field":{"f":"text","query":"crypto"}}]
			}}`,
		},
		{
			name: "nested group",
			node: query.New(
				query.Should("query", query.Group(query.New(query.Must("text", query.Term("x"))))),
				query.Should("title", query.Term("hiring")),
			),
			expected: `{"bool":{"should":[
				{"field":{"f":"title","query":"hiring"}},
				{"bool":{"must":[{"field":{"f":"text","query":"x"}}]}}
			]}}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := json.Marshal(transformQuery(test.node.Expand()))
			require.NoError(t, err)
			assert.JSONEq(t, test.expected, string(b))
		})
	}
}

func TestTransformSearchRequest(t *testing.T) {
	q := query.New(query.Must("text", query.Term("go")))

	req := transformSearchRequest(q, search.Options{})
	assert.Equal(t, 10, req["limit"])
	assert.NotContains(t, req, "offset")

	req = transformSearchRequest(q, search.Options{Limit: 25, Offset: 50})
	assert.Equal(t, 25, req["limit"])
	assert.Equal(t, 50, req["offset"])
}

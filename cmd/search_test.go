package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takatori/threadsearch/internal/errors"
	"github.com/takatori/threadsearch/internal/query"
)

const savedYAML = `
remote_go:
  must:
    text: [go, remote]
  should_not:
    text: onsite
`

func TestSavedQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(savedYAML), 0o644))

	q, err := savedQuery(path, "remote_go")
	require.NoError(t, err)
	assert.Equal(t, query.Expansion{
		query.OpMust:      {{Field: "text", Term: "go"}, {Field: "text", Term: "remote"}},
		query.OpShouldNot: {{Field: "text", Term: "onsite"}},
	}, q.Expand())

	_, err = savedQuery(path, "missing")
	require.Error(t, err)
	assert.True(t, failure.Is(err, errors.ErrNotFound))
}

func TestReadQueryFromStdin(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(`{"must": {"text": "go"}}`))

	q, err := readQuery(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, query.Expansion{query.OpMust: {{Field: "text", Term: "go"}}}, q.Expand())
}

func TestExpandCommand(t *testing.T) {
	var out bytes.Buffer
	expandCmd.SetIn(strings.NewReader(`{"should": {"title": ["a", "b"]}}`))
	expandCmd.SetOut(&out)

	require.NoError(t, expandCmd.RunE(expandCmd, nil))
	assert.JSONEq(t, `{"query":{"should":[{"title":"a"},{"title":"b"}]}}`, out.String())
}

package githubapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEvent(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func TestPullRequestNumberFromEvent(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		expected    int
		expectError bool
	}{
		{
			name:     "pull_request event",
			payload:  `{"action":"opened","pull_request":{"number":42}}`,
			expected: 42,
		},
		{
			name:     "issue_comment event on a pull request",
			payload:  `{"issue":{"number":7,"url":"https://api.github.com/repos/o/r/pulls/7"}}`,
			expected: 7,
		},
		{
			name:        "issue_comment event on a plain issue",
			payload:     `{"issue":{"number":7,"url":"https://api.github.com/repos/o/r/issues/7"}}`,
			expectError: true,
		},
		{
			name:     "bare top-level number",
			payload:  `{"number":13}`,
			expected: 13,
		},
		{
			name:        "no usable number",
			payload:     `{"action":"push"}`,
			expectError: true,
		},
		{
			name:        "invalid json",
			payload:     `{not json`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, err := PullRequestNumberFromEvent(writeEvent(t, tt.payload))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, number)
		})
	}
}

func TestPullRequestNumberFromEventMissingFile(t *testing.T) {
	_, err := PullRequestNumberFromEvent(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLinkedIssueFromBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "closes reference", body: "This PR closes #123 for good.", expected: 123},
		{name: "fix with colon", body: "Fixes: #9", expected: 9},
		{name: "case insensitive", body: "RESOLVES #55", expected: 55},
		{name: "first of several", body: "Closes #1 and fixes #2", expected: 1},
		{name: "plain mention is not a link", body: "Related to #77", expected: 0},
		{name: "empty body", body: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, linkedIssueFromBody(tt.body))
		})
	}
}

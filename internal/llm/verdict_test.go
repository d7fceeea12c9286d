package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		expectedResult string
		expectPassed   bool
	}{
		{
			name:           "pass verdict",
			response:       "The changes implement the requested feature.\n\nResult: PASS",
			expectedResult: VerdictPass,
			expectPassed:   true,
		},
		{
			name:           "fail verdict",
			response:       "The diff does not address the issue.\nResult: FAIL",
			expectedResult: VerdictFail,
		},
		{
			name:           "case insensitive marker",
			response:       "result: pass",
			expectedResult: VerdictPass,
			expectPassed:   true,
		},
		{
			name:           "no marker fails closed",
			response:       "I am not sure what to make of this.",
			expectedResult: VerdictFail,
		},
		{
			name:           "empty response fails closed",
			response:       "",
			expectedResult: VerdictFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := ParseVerdict(tt.response)
			assert.Equal(t, tt.expectedResult, verdict.Result)
			assert.Equal(t, tt.expectPassed, verdict.Passed())
		})
	}
}

func TestParseVerdictKeepsFullExplanation(t *testing.T) {
	response := "The implementation matches the acceptance criteria.\nResult: PASS"
	verdict := ParseVerdict(response)
	assert.Equal(t, response, verdict.Explanation)
}

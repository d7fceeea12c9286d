package llm

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

// Verdict is the parsed outcome of an evaluation response.
type Verdict struct {
	Result      string
	Explanation string
}

func (v Verdict) Passed() bool {
	return v.Result == VerdictPass
}

var resultPattern = regexp.MustCompile(`(?i)Result:\s*(PASS|FAIL)`)

// ParseVerdict extracts the PASS/FAIL marker from a model response. The
// full trimmed response is kept as the explanation. A response with no
// marker fails closed.
func ParseVerdict(response string) Verdict {
	response = strings.TrimSpace(response)

	match := resultPattern.FindStringSubmatch(response)
	if match == nil {
		return Verdict{
			Result:      VerdictFail,
			Explanation: fmt.Sprintf("Could not parse result from the model response:\n%s", response),
		}
	}

	return Verdict{
		Result:      strings.ToUpper(match[1]),
		Explanation: response,
	}
}

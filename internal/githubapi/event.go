package githubapi

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
)

type eventPayload struct {
	Number      int `json:"number"`
	PullRequest *struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Issue *struct {
		Number int    `json:"number"`
		URL    string `json:"url"`
	} `json:"issue"`
}

// PullRequestNumberFromEvent reads the workflow event payload and returns
// the pull request number it concerns. It handles pull_request events,
// issue_comment events on pull requests, and payloads carrying a bare
// top-level number.
func PullRequestNumberFromEvent(eventPath string) (int, error) {
	data, err := os.ReadFile(eventPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read event payload %q: %w", eventPath, err)
	}

	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("failed to decode event payload %q: %w", eventPath, err)
	}

	if payload.PullRequest != nil && payload.PullRequest.Number > 0 {
		return payload.PullRequest.Number, nil
	}

	if payload.Issue != nil && payload.Issue.Number > 0 {
		if strings.Contains(payload.Issue.URL, "/pulls/") {
			return payload.Issue.Number, nil
		}
		return 0, fmt.Errorf("event concerns issue #%d, not a pull request", payload.Issue.Number)
	}

	if payload.Number > 0 {
		logger.Warnf("githubapi: using top-level number %d from event payload as the PR number", payload.Number)
		return payload.Number, nil
	}

	return 0, fmt.Errorf("could not determine pull request number from event payload %q", eventPath)
}

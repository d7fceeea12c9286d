package agent

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"intentcheck/internal/action"
	"intentcheck/internal/analyzer"
	"intentcheck/internal/extractor"
	"intentcheck/internal/githubapi"
	"intentcheck/internal/llm"
	"intentcheck/internal/prompts"
	"intentcheck/pkg/config"
)

// GitHub is the slice of the GitHub API the agent needs.
type GitHub interface {
	PullRequest(ctx context.Context, number int) (*gh.PullRequest, error)
	PullRequestDiff(ctx context.Context, number int) (string, error)
	LinkedIssueNumber(ctx context.Context, pr *gh.PullRequest) (int, error)
	IssueBody(ctx context.Context, number int) (string, error)
	PostComment(ctx context.Context, number int, body string) error
	FileContent(ctx context.Context, path, ref string) (string, error)
}

// IntentCheckAgent evaluates whether a pull request implements the
// requirements of its linked issue.
type IntentCheckAgent struct {
	github        GitHub
	llmProvider   llm.Provider
	registry      *analyzer.Registry
	cfg           *config.Config
	promptVariant string
	outputs       *action.OutputWriter
}

func NewIntentCheckAgent(github GitHub, provider llm.Provider, registry *analyzer.Registry, cfg *config.Config, outputs *action.OutputWriter) *IntentCheckAgent {
	variant := cfg.LLM.PromptVariant
	if _, err := prompts.GetPromptVariant(variant); err != nil {
		logger.Warnf("agent: unknown prompt variant %q, using %q", variant, prompts.DEFAULT_PROMPT)
		variant = prompts.DEFAULT_PROMPT
	}
	return &IntentCheckAgent{
		github:        github,
		llmProvider:   provider,
		registry:      registry,
		cfg:           cfg,
		promptVariant: variant,
		outputs:       outputs,
	}
}

// CheckPullRequest runs the whole evaluation for one pull request and
// returns the verdict. Failures before the model is consulted still record
// a FAIL output so the workflow step reports something useful.
func (a *IntentCheckAgent) CheckPullRequest(ctx context.Context, prNumber int) (llm.Verdict, error) {
	logger.Infof("agent: checking PR #%d", prNumber)

	pr, err := a.github.PullRequest(ctx, prNumber)
	if err != nil {
		return a.fail(fmt.Sprintf("Error: Could not fetch PR #%d.", prNumber), err)
	}

	diff, err := a.github.PullRequestDiff(ctx, prNumber)
	if err != nil {
		return a.fail("Error: Could not fetch PR diff.", err)
	}
	if diff == "" {
		logger.Warnf("agent: PR #%d has an empty diff", prNumber)
	}

	issueNumber, err := a.github.LinkedIssueNumber(ctx, pr)
	if err != nil {
		return a.fail("Error: Could not look up the linked issue.", err)
	}
	if issueNumber == 0 {
		return a.fail("Error: No linked issue found in PR body (e.g. 'Closes #123').",
			fmt.Errorf("no issue linked to PR #%d", prNumber))
	}
	logger.Infof("agent: PR #%d is linked to issue #%d", prNumber, issueNumber)

	issueBody, err := a.github.IssueBody(ctx, issueNumber)
	if err != nil {
		return a.fail(fmt.Sprintf("Error: Could not fetch body for linked issue #%d.", issueNumber), err)
	}
	if issueBody == "" {
		logger.Warnf("agent: linked issue #%d has an empty body, evaluation may be inaccurate", issueNumber)
	}

	codeContext, err := a.extractContext(ctx, pr, diff)
	if err != nil {
		// Context is an enrichment, the diff alone still supports a verdict.
		logger.Warnf("agent: context extraction failed, evaluating diff only: %v", err)
		codeContext = ""
	}

	prompt, err := prompts.BuildPromptWithTemplate(a.promptVariant, prompts.IntentPayload{
		Requirements: issueBody,
		CodeChanges:  diff,
		CodeContext:  codeContext,
	})
	if err != nil {
		return a.fail("Error: Could not build the evaluation prompt.", err)
	}

	logger.Infof("agent: evaluating with %s", a.llmProvider.GetModel())
	response, err := a.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return a.fail("Error: Model evaluation failed.", err)
	}

	verdict := llm.ParseVerdict(response)
	logger.Infof("agent: verdict for PR #%d is %s", prNumber, verdict.Result)

	a.setOutputs(verdict.Result, verdict.Explanation)

	comment := fmt.Sprintf("🤖 **PR Intent Check Result: %s**\n\n%s", verdict.Result, verdict.Explanation)
	if err := a.github.PostComment(ctx, prNumber, comment); err != nil {
		logger.Warnf("agent: failed to post comment on PR #%d: %v", prNumber, err)
	}

	return verdict, nil
}

func (a *IntentCheckAgent) extractContext(ctx context.Context, pr *gh.PullRequest, diff string) (string, error) {
	headSHA := pr.GetHead().GetSHA()

	provider := githubapi.NewFileProvider(a.github, headSHA)
	ex, err := extractor.New(a.registry, provider, extractor.Config{
		Revision:     headSHA,
		Workers:      a.cfg.Extract.Workers,
		CacheSize:    a.cfg.Extract.CacheSize,
		FetchTimeout: a.cfg.Extract.FetchTimeout,
	})
	if err != nil {
		return "", err
	}

	bundle, err := ex.Extract(ctx, diff)
	if err != nil {
		return "", err
	}
	if bundle.Empty() {
		logger.Debug("agent: no code context extracted")
		return "", nil
	}
	return bundle.Render(), nil
}

// fail records a FAIL output with the given explanation before returning
// the underlying error.
func (a *IntentCheckAgent) fail(explanation string, err error) (llm.Verdict, error) {
	a.setOutputs(llm.VerdictFail, explanation)
	return llm.Verdict{Result: llm.VerdictFail, Explanation: explanation}, err
}

func (a *IntentCheckAgent) setOutputs(result, explanation string) {
	if err := a.outputs.Set("result", result); err != nil {
		logger.Warnf("agent: failed to set result output: %v", err)
	}
	if err := a.outputs.Set("explanation", explanation); err != nil {
		logger.Warnf("agent: failed to set explanation output: %v", err)
	}
}

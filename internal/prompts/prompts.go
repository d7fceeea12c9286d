package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

type PromptVariant struct {
	Name        string
	Description string
	Template    string
}

// IntentPayload carries everything the evaluation prompt needs: the linked
// issue body, the PR diff, and the extracted code context.
type IntentPayload struct {
	Requirements string
	CodeChanges  string
	CodeContext  string
}

var PromptVariants = map[string]PromptVariant{
	"default": {
		Name:        "default",
		Description: "Basic requirements-vs-diff evaluation",
		Template:    defaultPromptTemplate,
	},
	"strict": {
		Name:        "strict",
		Description: "Variant that requires every acceptance criterion to be addressed",
		Template:    strictPromptTemplate,
	},
}

const DEFAULT_PROMPT = "default"

func GetPromptVariant(name string) (PromptVariant, error) {
	variant, exists := PromptVariants[name]
	if !exists {
		return PromptVariant{}, fmt.Errorf("prompt variant '%s' not found", name)
	}
	return variant, nil
}

func ListPromptVariants() []string {
	var names []string
	for name := range PromptVariants {
		names = append(names, name)
	}
	return names
}

func LoadPromptTemplates() (*template.Template, error) {
	tmpl := template.New("prompts")

	for name, variant := range PromptVariants {
		_, err := tmpl.New(name).Parse(variant.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}

	return tmpl, nil
}

func BuildPromptWithTemplate(variantName string, payload IntentPayload) (string, error) {
	templates, err := LoadPromptTemplates()
	if err != nil {
		return "", fmt.Errorf("failed to load templates: %w", err)
	}

	var result strings.Builder
	err = templates.ExecuteTemplate(&result, variantName, payload)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", variantName, err)
	}

	return result.String(), nil
}

const defaultPromptTemplate = `You are reviewing a pull request against the requirements of its linked issue.

=== REQUIREMENTS (from the linked issue) ===
{{.Requirements}}

=== CODE CHANGES (diff) ===
{{.CodeChanges}}
{{if .CodeContext}}
=== RELEVANT CODE CONTEXT ===
{{.CodeContext}}
{{end}}
=== INSTRUCTIONS ===

Does the code implementation successfully address and satisfy the requirements?
Consider the surrounding code context when judging whether the changes behave as intended.
Provide a brief explanation and conclude with 'Result: PASS' or 'Result: FAIL'.`

const strictPromptTemplate = `You are reviewing a pull request against the requirements of its linked issue.

=== REQUIREMENTS (from the linked issue) ===
{{.Requirements}}

=== CODE CHANGES (diff) ===
{{.CodeChanges}}
{{if .CodeContext}}
=== RELEVANT CODE CONTEXT ===
{{.CodeContext}}
{{end}}
=== INSTRUCTIONS ===

Evaluate whether the code changes satisfy EVERY requirement and acceptance criterion stated in the issue:
1. List each requirement you can identify.
2. For each one, state whether the diff addresses it, citing the relevant change.
3. Treat missing requirements, partial implementations, and unrelated changes as failures.
4. Use the code context to verify the changes integrate correctly with existing definitions.

Conclude with 'Result: PASS' only when every requirement is addressed, otherwise 'Result: FAIL'.`

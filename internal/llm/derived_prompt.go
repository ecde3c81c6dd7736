package llm

import (
	"fmt"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Derived artifacts: attack vectors and remediation playbooks
// ═══════════════════════════════════════════════════════════════════════════════

// DerivedRequest is the input of both derived-artifact flows.
type DerivedRequest struct {
	Finding ReportFinding `json:"finding" jsonschema:"description=The vulnerable finding to expand"`
	Locale  models.Locale `json:"locale,omitempty"`
}

func BuildAttackVectorPrompt(req *DerivedRequest) string {
	prompt := "You are an offensive security instructor. Illustrate how the following vulnerability could be exploited, " +
		"strictly for educational and defensive purposes.\n\n"
	prompt += fmt.Sprintf("Finding:\n%s\n\n", formatJSON(req.Finding))
	prompt += `Return a JSON object with:
- vulnerabilityName: the vulnerability name
- source: the finding source
- attackScenarioDescription: how an attacker might exploit it, tailored to the source
- examplePayloadOrTechnique: an illustrative payload or technique
- expectedOutcomeIfSuccessful: the expected outcome (e.g. "Account lockout", "Unauthorized data access")
`
	prompt += languageInstruction(req.Locale)
	return prompt
}

func BuildPlaybookPrompt(req *DerivedRequest) string {
	prompt := "You are a security engineer writing a remediation playbook for one vulnerability.\n\n"
	prompt += fmt.Sprintf("Finding:\n%s\n\n", formatJSON(req.Finding))
	prompt += `Return a JSON object with:
- playbookTitle: a short title
- playbookMarkdown: step-by-step remediation in Markdown (prerequisites, steps, commands,
  code or configuration examples, verification, and prevention)
`
	prompt += languageInstruction(req.Locale)
	return prompt
}

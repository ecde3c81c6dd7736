package llm

import (
	"fmt"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Category Analysis Prompt - one builder for all nine categories
// ═══════════════════════════════════════════════════════════════════════════════

// CategoryRequest is the input of a category flow. Only the fields of the
// requested category are filled.
type CategoryRequest struct {
	Category models.Source `json:"category" jsonschema:"description=Analysis category"`
	Locale   models.Locale `json:"locale,omitempty" jsonschema:"description=Language for free-text output"`

	URL               string `json:"url,omitempty"`
	Description       string `json:"description,omitempty" jsonschema:"description=Primary free-text input of the category"`
	Language          string `json:"language,omitempty"`
	TargetURL         string `json:"targetUrl,omitempty"`
	ScanProfile       string `json:"scanProfile,omitempty"`
	CloudProvider     string `json:"cloudProvider,omitempty"`
	Region            string `json:"region,omitempty"`
	ImageName         string `json:"imageName,omitempty"`
	Dockerfile        string `json:"dockerfile,omitempty"`
	KubernetesYAML    string `json:"kubernetesManifest,omitempty"`
	AdditionalContext string `json:"additionalContext,omitempty"`
	FileType          string `json:"fileType,omitempty"`
	ScanResults       string `json:"scanResults,omitempty"`
	FirewallRules     string `json:"firewallRules,omitempty"`
}

// PromptFinding is the finding shape the model returns. It has
// no source and no potentialForAccountLockout: both are derived after generation.
type PromptFinding struct {
	Vulnerability    string   `json:"vulnerability" jsonschema:"description=General vulnerability category (e.g. SQL Injection)"`
	Description      string   `json:"description" jsonschema:"description=The specific observation"`
	IsVulnerable     bool     `json:"isVulnerable" jsonschema:"description=True if the target appears vulnerable to this specific finding"`
	Severity         string   `json:"severity" jsonschema:"enum=Low,enum=Medium,enum=High,enum=Critical,enum=Informational"`
	CVSSScore        *float64 `json:"cvssScore,omitempty" jsonschema:"description=Estimated CVSS 3.1 base score (0-10)"`
	CVSSVector       string   `json:"cvssVector,omitempty" jsonschema:"description=CVSS 3.1 vector string"`
	BusinessImpact   string   `json:"businessImpact,omitempty"`
	TechnicalDetails string   `json:"technicalDetails,omitempty"`
	Evidence         string   `json:"evidence,omitempty"`
	Remediation      string   `json:"remediation" jsonschema:"description=Concrete remediation advice"`

	FilePath           string `json:"filePath,omitempty"`
	LineNumber         *int   `json:"lineNumber,omitempty"`
	CodeSnippetContext string `json:"codeSnippetContext,omitempty"`
	SuggestedFix       string `json:"suggestedFix,omitempty"`
	AffectedParameter  string `json:"affectedParameter,omitempty"`
	RequestExample     string `json:"requestExample,omitempty"`
	ResponseExample    string `json:"responseExample,omitempty"`
	CloudProvider      string `json:"cloudProvider,omitempty"`
	AffectedResource   string `json:"affectedResource,omitempty"`
	ImageName          string `json:"imageName,omitempty"`
	DependencyName     string `json:"dependencyName,omitempty"`
	DependencyVersion  string `json:"dependencyVersion,omitempty"`
	AffectedPort       string `json:"affectedPort,omitempty"`
	AffectedProtocol   string `json:"affectedProtocol,omitempty"`
}

// CategoryPromptOutput is the raw model output of a category flow.
type CategoryPromptOutput struct {
	Findings              []PromptFinding `json:"findings"`
	OverallRiskAssessment string          `json:"overallRiskAssessment" jsonschema:"enum=Low,enum=Medium,enum=High,enum=Critical,enum=Informational"`
	ExecutiveSummary      string          `json:"executiveSummary" jsonschema:"description=Short executive summary of the security posture"`
}

// languageInstruction tells the model which language to write free text in.
func languageInstruction(locale models.Locale) string {
	if locale == models.LocaleES {
		return "Write every free-text field in Spanish.\n"
	}
	return "Write every free-text field in English.\n"
}

const findingFieldsInstruction = `For each potential issue create a finding with:
- vulnerability: the general category (e.g. "SQL Injection", "Rate Limiting")
- description: the specific observation for this target
- isVulnerable: true only if the target appears vulnerable to this specific finding
- severity: Low, Medium, High, Critical or Informational
- cvssScore / cvssVector: optional CVSS 3.1 estimate when a standard CWE/CVE applies
- businessImpact, technicalDetails, evidence: optional
- remediation: concrete remediation advice (always required)
`

const outputInstruction = `Then provide overallRiskAssessment (Critical, High, Medium, Low or Informational)
and a concise executiveSummary (2-4 sentences).
Return a JSON object with "findings", "overallRiskAssessment" and "executiveSummary".
`

// BuildCategoryPrompt creates the analysis prompt for req.Category.
func BuildCategoryPrompt(req *CategoryRequest) string {
	prompt := ""

	switch req.Category {
	case models.SourceURL:
		prompt += "You are a security expert analyzing web application URLs, especially registration pages and public endpoints.\n\n"
		prompt += fmt.Sprintf("URL: %s\n\n", req.URL)
		prompt += "Focus on XSS, SQL injection, weak password policies, rate limiting, missing or weak CAPTCHA, " +
			"information disclosure, insecure security headers, input validation and CSRF.\n\n"

	case models.SourceServer:
		prompt += "You are a security expert reviewing a server configuration description, including game servers when applicable.\n\n"
		prompt += fmt.Sprintf("Server description:\n%s\n\n", req.Description)
		prompt += "Focus on outdated software, open ports, weak authentication, missing hardening, DoS exposure and logging gaps.\n\n"

	case models.SourceDatabase:
		prompt += "You are a database security expert reviewing a database configuration description.\n\n"
		prompt += fmt.Sprintf("Database description:\n%s\n\n", req.Description)
		prompt += "Focus on authentication, network exposure, encryption at rest and in transit, privilege management, " +
			"backups and handling of sensitive player or customer data.\n\n"

	case models.SourceSAST:
		prompt += "You are a static application security testing (SAST) expert. Review the code snippet below as a simulated SAST scan.\n\n"
		prompt += fmt.Sprintf("Language: %s\n", valueOr(req.Language, "unknown"))
		prompt += fmt.Sprintf("Code:\n```\n%s\n```\n\n", req.Description)
		prompt += "For each finding also fill filePath, lineNumber, codeSnippetContext and suggestedFix when possible.\n\n"

	case models.SourceDAST:
		prompt += "You are a dynamic application security testing (DAST) expert. Simulate a DAST scan; do not claim live probing.\n\n"
		prompt += fmt.Sprintf("Target URL: %s\nScan profile: %s\n\n", req.TargetURL, valueOr(req.ScanProfile, "Quick"))
		prompt += "For each finding also fill affectedParameter, requestExample and responseExample when possible.\n\n"

	case models.SourceCloud:
		prompt += "You are a cloud security expert reviewing an infrastructure configuration description.\n\n"
		prompt += fmt.Sprintf("Provider: %s\n", req.CloudProvider)
		if req.Region != "" {
			prompt += fmt.Sprintf("Region: %s\n", req.Region)
		}
		prompt += fmt.Sprintf("Configuration:\n%s\n\n", req.Description)
		prompt += "Focus on IAM, storage exposure, network security groups, logging, encryption and public endpoints. " +
			"For each finding fill cloudProvider and affectedResource.\n\n"

	case models.SourceContainer:
		prompt += "You are a container security expert reviewing container and orchestration artifacts.\n\n"
		if req.ImageName != "" {
			prompt += fmt.Sprintf("Image: %s\n", req.ImageName)
		}
		if req.Dockerfile != "" {
			prompt += fmt.Sprintf("Dockerfile:\n```\n%s\n```\n", req.Dockerfile)
		}
		if req.KubernetesYAML != "" {
			prompt += fmt.Sprintf("Kubernetes manifest:\n```yaml\n%s\n```\n", req.KubernetesYAML)
		}
		if req.AdditionalContext != "" {
			prompt += fmt.Sprintf("Additional context: %s\n", req.AdditionalContext)
		}
		prompt += "\nFocus on base image risks, root users, secrets in layers, privileged pods, resource limits and network policies. " +
			"Fill imageName for each finding.\n\n"

	case models.SourceDependency:
		prompt += "You are a software supply chain expert reviewing a dependency manifest.\n\n"
		prompt += fmt.Sprintf("File type: %s\n", req.FileType)
		prompt += fmt.Sprintf("Content:\n```\n%s\n```\n\n", req.Description)
		prompt += "Identify dependencies with known vulnerabilities or outdated versions. Fill dependencyName and dependencyVersion.\n\n"

	case models.SourceNetwork:
		prompt += "You are a network security expert reviewing a network description, scan output and firewall rules.\n\n"
		if req.Description != "" {
			prompt += fmt.Sprintf("Network description:\n%s\n", req.Description)
		}
		if req.ScanResults != "" {
			prompt += fmt.Sprintf("Scan results (e.g. Nmap):\n```\n%s\n```\n", req.ScanResults)
		}
		if req.FirewallRules != "" {
			prompt += fmt.Sprintf("Firewall rules:\n```\n%s\n```\n", req.FirewallRules)
		}
		prompt += "\nFocus on exposed services, permissive rules, insecure protocols and segmentation. " +
			"Fill affectedPort and affectedProtocol when applicable.\n\n"
	}

	prompt += findingFieldsInstruction + "\n"
	prompt += outputInstruction
	prompt += languageInstruction(req.Locale)

	return prompt
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package analyzer

import (
	"strings"

	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// lockoutCategories are vulnerability labels that can lead to account lockout.
var lockoutCategories = []string{
	"weak password policies",
	"rate limiting",
	"missing or weak captcha",
}

// definition describes how one category gates, builds its request and repairs model output.
type definition struct {
	source models.Source

	// minLength is the trimmed rune count at least one gated text must reach.
	// Zero means mere presence is enough.
	minLength int
	gated     func(s *models.Submission) []string

	request func(s *models.Submission) *llm.CategoryRequest

	// carryForward restores caller-supplied context the model may have dropped.
	carryForward func(f *models.Finding, s *models.Submission)

	// counters enables the URL-only lockout flag and risk counters.
	counters bool
}

var definitions = map[models.Source]definition{
	models.SourceURL: {
		source: models.SourceURL,
		gated:  func(s *models.Submission) []string { return []string{s.URL} },
		request: func(s *models.Submission) *llm.CategoryRequest {
			return &llm.CategoryRequest{URL: strings.TrimSpace(s.URL)}
		},
		counters: true,
	},
	models.SourceServer: {
		source:    models.SourceServer,
		minLength: 50,
		gated:     func(s *models.Submission) []string { return []string{s.ServerDescription} },
		request: func(s *models.Submission) *llm.CategoryRequest {
			return &llm.CategoryRequest{Description: s.ServerDescription}
		},
	},
	models.SourceDatabase: {
		source:    models.SourceDatabase,
		minLength: 50,
		gated:     func(s *models.Submission) []string { return []string{s.DatabaseDescription} },
		request: func(s *models.Submission) *llm.CategoryRequest {
			return &llm.CategoryRequest{Description: s.DatabaseDescription}
		},
	},
	models.SourceSAST: {
		source:    models.SourceSAST,
		minLength: 10,
		gated:     func(s *models.Submission) []string { return []string{s.CodeSnippet} },
		request: func(s *models.Submission) *llm.CategoryRequest {
			return &llm.CategoryRequest{Description: s.CodeSnippet, Language: strings.TrimSpace(s.SASTLanguage)}
		},
		carryForward: func(f *models.Finding, s *models.Submission) {
			if strings.TrimSpace(f.FilePath) != "" {
				return
			}
			if lang := strings.TrimSpace(s.SASTLanguage); lang != "" {
				f.FilePath = "snippet." + lang
			} else {
				f.FilePath = "snippet.txt"
			}
		},
	},
	models.SourceDAST: {
		source: models.SourceDAST,
		gated:  func(s *models.Submission) []string { return []string{s.DASTTargetURL} },
		request: func(s *models.Submission) *llm.CategoryRequest {
			return &llm.CategoryRequest{TargetURL: strings.TrimSpace(s.DASTTargetURL), ScanProfile: "Quick"}
		},
	},
	models.SourceCloud: {
		source:    models.SourceCloud,
		minLength: 50,
		gated:     func(s *models.Submission) []string { return []string{s.CloudConfigDescription} },
		request: func(s *models.Submission) *llm.CategoryRequest {
			return &llm.CategoryRequest{
				CloudProvider: s.CloudProvider,
				Region:        s.CloudRegion,
				Description:   s.CloudConfigDescription,
			}
		},
		carryForward: func(f *models.Finding, s *models.Submission) {
			f.CloudProvider = s.CloudProvider
		},
	},
	models.SourceContainer: {
		source: models.SourceContainer,
		gated: func(s *models.Submission) []string {
			return []string{s.ContainerImageName, s.DockerfileContent, s.KubernetesManifestContent}
		},
		request: func(s *models.Submission) *llm.CategoryRequest {
			return &llm.CategoryRequest{
				ImageName:         strings.TrimSpace(s.ContainerImageName),
				Dockerfile:        s.DockerfileContent,
				KubernetesYAML:    s.KubernetesManifestContent,
				AdditionalContext: s.ContainerAdditionalContext,
			}
		},
		carryForward: func(f *models.Finding, s *models.Submission) {
			if strings.TrimSpace(f.ImageName) == "" {
				f.ImageName = strings.TrimSpace(s.ContainerImageName)
			}
		},
	},
	models.SourceDependency: {
		source:    models.SourceDependency,
		minLength: 20,
		gated:     func(s *models.Submission) []string { return []string{s.DependencyFileContent} },
		request: func(s *models.Submission) *llm.CategoryRequest {
			return &llm.CategoryRequest{Description: s.DependencyFileContent, FileType: s.DependencyFileType}
		},
	},
	models.SourceNetwork: {
		source: models.SourceNetwork,
		gated: func(s *models.Submission) []string {
			return []string{s.NetworkDescription, s.NetworkScanResults, s.NetworkFirewallRules}
		},
		request: func(s *models.Submission) *llm.CategoryRequest {
			return &llm.CategoryRequest{
				Description:   s.NetworkDescription,
				ScanResults:   s.NetworkScanResults,
				FirewallRules: s.NetworkFirewallRules,
			}
		},
	},
}

// MinLength returns the gate threshold of source, or 0 for presence-only gates.
func MinLength(source models.Source) int {
	return definitions[source].minLength
}

// passesGate reports whether any gated text reaches the threshold.
func (d definition) passesGate(s *models.Submission) bool {
	threshold := d.minLength
	if threshold < 1 {
		threshold = 1
	}
	for _, text := range d.gated(s) {
		if len([]rune(strings.TrimSpace(text))) >= threshold {
			return true
		}
	}
	return false
}

// IsLockoutRisk reports whether a vulnerable finding's label is one of the lockout categories.
func IsLockoutRisk(vulnerability string, isVulnerable bool) bool {
	if !isVulnerable {
		return false
	}
	label := strings.ToLower(vulnerability)
	for _, c := range lockoutCategories {
		if strings.Contains(label, c) {
			return true
		}
	}
	return false
}

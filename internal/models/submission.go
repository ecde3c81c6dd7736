package models

import "strings"

// Locale selects the language of fixed user-facing messages.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleES Locale = "es"
)

// ParseLocale falls back to def for anything other than en/es.
func ParseLocale(raw string, def Locale) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case LocaleEN:
		return LocaleEN
	case LocaleES:
		return LocaleES
	}
	return def
}

// Submission - всё, что пользователь прислал на анализ
type Submission struct {
	URL string `json:"url,omitempty" yaml:"url"`

	ServerDescription   string `json:"serverDescription,omitempty" yaml:"serverDescription"`
	DatabaseDescription string `json:"databaseDescription,omitempty" yaml:"databaseDescription"`

	CodeSnippet  string `json:"codeSnippet,omitempty" yaml:"codeSnippet"`
	SASTLanguage string `json:"sastLanguage,omitempty" yaml:"sastLanguage"`

	DASTTargetURL string `json:"dastTargetUrl,omitempty" yaml:"dastTargetUrl"`

	CloudProvider          string `json:"cloudProvider,omitempty" yaml:"cloudProvider"`
	CloudConfigDescription string `json:"cloudConfigDescription,omitempty" yaml:"cloudConfigDescription"`
	CloudRegion            string `json:"cloudRegion,omitempty" yaml:"cloudRegion"`

	ContainerImageName         string `json:"containerImageName,omitempty" yaml:"containerImageName"`
	DockerfileContent          string `json:"dockerfileContent,omitempty" yaml:"dockerfileContent"`
	KubernetesManifestContent  string `json:"kubernetesManifestContent,omitempty" yaml:"kubernetesManifestContent"`
	ContainerAdditionalContext string `json:"containerAdditionalContext,omitempty" yaml:"containerAdditionalContext"`

	DependencyFileContent string `json:"dependencyFileContent,omitempty" yaml:"dependencyFileContent"`
	DependencyFileType    string `json:"dependencyFileType,omitempty" yaml:"dependencyFileType"`

	NetworkDescription   string `json:"networkDescription,omitempty" yaml:"networkDescription"`
	NetworkScanResults   string `json:"networkScanResults,omitempty" yaml:"networkScanResults"`
	NetworkFirewallRules string `json:"networkFirewallRules,omitempty" yaml:"networkFirewallRules"`

	Locale Locale `json:"locale,omitempty" yaml:"locale"`
}

func present(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// Has reports whether the submission carries input for category s.
// Cloud needs both a provider and a description; Dependency needs both content and a file type.
func (s *Submission) Has(src Source) bool {
	switch src {
	case SourceURL:
		return present(s.URL)
	case SourceServer:
		return present(s.ServerDescription)
	case SourceDatabase:
		return present(s.DatabaseDescription)
	case SourceSAST:
		return present(s.CodeSnippet)
	case SourceDAST:
		return present(s.DASTTargetURL)
	case SourceCloud:
		return present(s.CloudProvider) && present(s.CloudConfigDescription)
	case SourceContainer:
		return present(s.ContainerImageName, s.DockerfileContent, s.KubernetesManifestContent)
	case SourceDependency:
		return present(s.DependencyFileContent) && present(s.DependencyFileType)
	case SourceNetwork:
		return present(s.NetworkDescription, s.NetworkScanResults, s.NetworkFirewallRules)
	}
	return false
}

// Requested lists the categories with input, in dispatch order.
func (s *Submission) Requested() []Source {
	var out []Source
	for _, c := range CategoryOrder {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

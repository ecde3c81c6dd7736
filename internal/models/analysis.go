package models

// RiskCounters are computed by the URL category over its own findings.
type RiskCounters struct {
	VulnerableFindingsCount int `json:"vulnerableFindingsCount"`
	HighSeverityCount       int `json:"highSeverityCount"`
	MediumSeverityCount     int `json:"mediumSeverityCount"`
	LowSeverityCount        int `json:"lowSeverityCount"`
}

// CategoryAnalysisResult - результат одной категории анализа
type CategoryAnalysisResult struct {
	Findings              []Finding `json:"findings"`
	OverallRiskAssessment Severity  `json:"overallRiskAssessment"`
	ExecutiveSummary      string    `json:"executiveSummary"`

	*RiskCounters
}

// AttackVector - иллюстрация атаки для одной уязвимой находки
type AttackVector struct {
	VulnerabilityName           string `json:"vulnerabilityName" jsonschema:"description=Name/category of the vulnerability this attack vector is based on"`
	Source                      Source `json:"source,omitempty" jsonschema:"enum=URL,enum=Server,enum=Database,enum=SAST,enum=DAST,enum=Cloud,enum=Container,enum=Dependency,enum=Network,enum=Unknown,description=Source of the original finding"`
	AttackScenarioDescription   string `json:"attackScenarioDescription" jsonschema:"description=How an attacker might exploit this vulnerability"`
	ExamplePayloadOrTechnique   string `json:"examplePayloadOrTechnique" jsonschema:"description=Illustrative payload or technique for educational purposes only"`
	ExpectedOutcomeIfSuccessful string `json:"expectedOutcomeIfSuccessful" jsonschema:"description=Expected outcome if the attack succeeds"`
}

// Playbook - план устранения для одной уязвимой находки
type Playbook struct {
	PlaybookTitle    string `json:"playbookTitle" jsonschema:"description=Title of the remediation playbook"`
	PlaybookMarkdown string `json:"playbookMarkdown" jsonschema:"description=Detailed remediation steps in Markdown with commands and code examples where applicable"`
}

// AggregateResult is the single response returned for a submission.
// Nil slices serialize as null: AttackVectors and RemediationPlaybooks are null
// for callers without entitlement and [] for entitled callers with nothing to expand.
type AggregateResult struct {
	AnalysisID string `json:"analysisId,omitempty"`

	URLAnalysis        *CategoryAnalysisResult `json:"urlAnalysis"`
	ServerAnalysis     *CategoryAnalysisResult `json:"serverAnalysis"`
	DatabaseAnalysis   *CategoryAnalysisResult `json:"databaseAnalysis"`
	SASTAnalysis       *CategoryAnalysisResult `json:"sastAnalysis"`
	DASTAnalysis       *CategoryAnalysisResult `json:"dastAnalysis"`
	CloudAnalysis      *CategoryAnalysisResult `json:"cloudAnalysis"`
	ContainerAnalysis  *CategoryAnalysisResult `json:"containerAnalysis"`
	DependencyAnalysis *CategoryAnalysisResult `json:"dependencyAnalysis"`
	NetworkAnalysis    *CategoryAnalysisResult `json:"networkAnalysis"`

	AllFindings          []Finding      `json:"allFindings"`
	ReportText           *string        `json:"reportText"`
	AttackVectors        []AttackVector `json:"attackVectors"`
	RemediationPlaybooks []Playbook     `json:"remediationPlaybooks"`
	Error                *string        `json:"error"`
}

func (r *AggregateResult) slot(s Source) **CategoryAnalysisResult {
	switch s {
	case SourceURL:
		return &r.URLAnalysis
	case SourceServer:
		return &r.ServerAnalysis
	case SourceDatabase:
		return &r.DatabaseAnalysis
	case SourceSAST:
		return &r.SASTAnalysis
	case SourceDAST:
		return &r.DASTAnalysis
	case SourceCloud:
		return &r.CloudAnalysis
	case SourceContainer:
		return &r.ContainerAnalysis
	case SourceDependency:
		return &r.DependencyAnalysis
	case SourceNetwork:
		return &r.NetworkAnalysis
	}
	return nil
}

// Category returns the result stored for s, or nil.
func (r *AggregateResult) Category(s Source) *CategoryAnalysisResult {
	if p := r.slot(s); p != nil {
		return *p
	}
	return nil
}

// SetCategory stores res under s. Unknown sources are ignored.
func (r *AggregateResult) SetCategory(s Source, res *CategoryAnalysisResult) {
	if p := r.slot(s); p != nil {
		*p = res
	}
}

// PerformedCategories lists categories with a stored result, in dispatch order.
func (r *AggregateResult) PerformedCategories() []Source {
	var out []Source
	for _, s := range CategoryOrder {
		if r.Category(s) != nil {
			out = append(out, s)
		}
	}
	return out
}

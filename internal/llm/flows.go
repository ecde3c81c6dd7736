package llm

import (
	"context"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/firebase/genkit/go/genkit"
)

type (
	CategoryFunc     func(ctx context.Context, req *CategoryRequest) (*CategoryPromptOutput, error)
	ReportFunc       func(ctx context.Context, req *ReportRequest) (*ReportResponse, error)
	AttackVectorFunc func(ctx context.Context, req *DerivedRequest) (*models.AttackVector, error)
	PlaybookFunc     func(ctx context.Context, req *DerivedRequest) (*models.Playbook, error)
	AssistantFunc    func(ctx context.Context, req *AssistantRequest) (*AssistantResponse, error)
)

// Flows is the AI generation capability as plain functions. The pipeline only
// depends on this struct, so tests can swap any step for a stub.
type Flows struct {
	Categories   map[models.Source]CategoryFunc
	Report       ReportFunc
	AttackVector AttackVectorFunc
	Playbook     PlaybookFunc
	Assistant    AssistantFunc
}

// DefineFlows registers every flow on g and returns their Run functions.
func DefineFlows(g *genkit.Genkit, cfg FlowConfig) *Flows {
	flows := &Flows{
		Categories:   make(map[models.Source]CategoryFunc, len(models.CategoryOrder)),
		Report:       DefineSecurityReportFlow(g, cfg).Run,
		AttackVector: DefineAttackVectorFlow(g, cfg).Run,
		Playbook:     DefineRemediationPlaybookFlow(g, cfg).Run,
		Assistant:    DefineGeneralQueryFlow(g, cfg).Run,
	}

	for _, source := range models.CategoryOrder {
		flows.Categories[source] = DefineCategoryFlow(g, source, cfg).Run
	}

	cfg.logger().Infof("✅ Registered %d category flows with model %s", len(flows.Categories), cfg.ModelName)
	return flows
}

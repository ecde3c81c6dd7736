package llm

import (
	"context"
	"fmt"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
	genkitcore "github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// DefineAttackVectorFlow creates the per-finding attack vector flow.
func DefineAttackVectorFlow(
	g *genkit.Genkit,
	cfg FlowConfig,
) *genkitcore.Flow[*DerivedRequest, *models.AttackVector, struct{}] {
	return genkit.DefineFlow(
		g,
		"generateAttackVectorFlow",
		func(ctx context.Context, req *DerivedRequest) (*models.AttackVector, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			result, _, err := genkit.GenerateData[models.AttackVector](ctx, g, cfg.generateOptions(BuildAttackVectorPrompt(req))...)
			if err != nil {
				return nil, fmt.Errorf("attack vector generation for %q failed: %w", req.Finding.Vulnerability, err)
			}
			return result, nil
		},
	)
}

// DefineRemediationPlaybookFlow creates the per-finding playbook flow.
func DefineRemediationPlaybookFlow(
	g *genkit.Genkit,
	cfg FlowConfig,
) *genkitcore.Flow[*DerivedRequest, *models.Playbook, struct{}] {
	return genkit.DefineFlow(
		g,
		"generateRemediationPlaybookFlow",
		func(ctx context.Context, req *DerivedRequest) (*models.Playbook, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			result, _, err := genkit.GenerateData[models.Playbook](ctx, g, cfg.generateOptions(BuildPlaybookPrompt(req))...)
			if err != nil {
				return nil, fmt.Errorf("playbook generation for %q failed: %w", req.Finding.Vulnerability, err)
			}
			return result, nil
		},
	)
}

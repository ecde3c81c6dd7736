package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
	genkitcore "github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Category Analysis Flows
// ═══════════════════════════════════════════════════════════════════════════════

// CategoryFlowName returns the registered flow name, e.g. "analyzeSastFlow".
func CategoryFlowName(source models.Source) string {
	name := strings.ToLower(string(source))
	return "analyze" + strings.ToUpper(name[:1]) + name[1:] + "Flow"
}

// DefineCategoryFlow creates the Genkit flow for one analysis category.
func DefineCategoryFlow(
	g *genkit.Genkit,
	source models.Source,
	cfg FlowConfig,
) *genkitcore.Flow[*CategoryRequest, *CategoryPromptOutput, struct{}] {
	log := cfg.logger().WithField("category", source)

	return genkit.DefineFlow(
		g,
		CategoryFlowName(source),
		func(ctx context.Context, req *CategoryRequest) (*CategoryPromptOutput, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			req.Category = source
			prompt := BuildCategoryPrompt(req)

			log.Debug("🤖 Calling LLM for category analysis")
			result, _, err := genkit.GenerateData[CategoryPromptOutput](ctx, g, cfg.generateOptions(prompt)...)
			if err != nil {
				return nil, fmt.Errorf("%s analysis generation failed: %w", source, err)
			}

			if result != nil {
				log.WithField("findings", len(result.Findings)).Info("✅ Category analysis complete")
			}
			return result, nil
		},
	)
}

package llm

import (
	"context"
	"fmt"

	genkitcore "github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// DefineGeneralQueryFlow creates the free-form security assistant flow.
func DefineGeneralQueryFlow(
	g *genkit.Genkit,
	cfg FlowConfig,
) *genkitcore.Flow[*AssistantRequest, *AssistantResponse, struct{}] {
	return genkit.DefineFlow(
		g,
		"generalQueryAssistantFlow",
		func(ctx context.Context, req *AssistantRequest) (*AssistantResponse, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			result, _, err := genkit.GenerateData[AssistantResponse](ctx, g, cfg.generateOptions(BuildAssistantPrompt(req))...)
			if err != nil {
				return nil, fmt.Errorf("assistant generation failed: %w", err)
			}
			return result, nil
		},
	)
}

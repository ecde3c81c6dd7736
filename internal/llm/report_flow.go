package llm

import (
	"context"
	"fmt"

	genkitcore "github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

// DefineSecurityReportFlow creates the consolidated report flow.
func DefineSecurityReportFlow(
	g *genkit.Genkit,
	cfg FlowConfig,
) *genkitcore.Flow[*ReportRequest, *ReportResponse, struct{}] {
	log := cfg.logger()

	return genkit.DefineFlow(
		g,
		"generateSecurityReportFlow",
		func(ctx context.Context, req *ReportRequest) (*ReportResponse, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			log.Infof("📝 Generating security report over %d vulnerable findings", len(req.OverallVulnerableFindings))
			result, _, err := genkit.GenerateData[ReportResponse](ctx, g, cfg.generateOptions(BuildSecurityReportPrompt(req))...)
			if err != nil {
				return nil, fmt.Errorf("report generation failed: %w", err)
			}
			return result, nil
		},
	)
}

package driven

import (
	"context"
	"fmt"
	"strings"

	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// expansionError summarizes per-finding failures of one derived-artifact sub-flow.
type expansionError struct {
	failed int
	total  int
	first  error
}

func (e *expansionError) Error() string {
	return fmt.Sprintf("%d of %d could not be generated: %v", e.failed, e.total, e.first)
}

func (e *expansionError) Unwrap() error {
	return e.first
}

func (e *expansionError) record(err error) {
	e.failed++
	if e.first == nil {
		e.first = err
	}
}

func (e *expansionError) orNil() error {
	if e.failed == 0 {
		return nil
	}
	return e
}

// generateAttackVectors runs one generation per vulnerable finding, sequentially.
// The result is index-parallel to vulnerable: a failed generation yields a placeholder.
func (p *Pipeline) generateAttackVectors(ctx context.Context, vulnerable []models.Finding, locale models.Locale) ([]models.AttackVector, error) {
	vectors := make([]models.AttackVector, 0, len(vulnerable))
	failures := &expansionError{total: len(vulnerable)}

	for i, f := range vulnerable {
		log := p.log.WithField("finding", f.Vulnerability)

		out, err := p.attackVectorFlow(ctx, &llm.DerivedRequest{Finding: llm.NewReportFinding(f), Locale: locale})
		if err == nil && (out == nil || strings.TrimSpace(out.AttackScenarioDescription) == "") {
			err = fmt.Errorf("empty attack vector output for %q", f.Vulnerability)
		}
		if err != nil {
			log.WithError(err).Warnf("⚠️ [%d/%d] Attack vector failed, using placeholder", i+1, len(vulnerable))
			failures.record(err)
			vectors = append(vectors, attackVectorPlaceholder(f, locale))
			continue
		}

		v := *out
		// the originating finding is authoritative for traceability
		v.VulnerabilityName = f.Vulnerability
		v.Source = f.Source
		vectors = append(vectors, v)
		log.Debugf("🎯 [%d/%d] Attack vector generated", i+1, len(vulnerable))
	}

	return vectors, failures.orNil()
}

func attackVectorPlaceholder(f models.Finding, locale models.Locale) models.AttackVector {
	na := message(locale, msgNotAvailable)
	return models.AttackVector{
		VulnerabilityName:           f.Vulnerability,
		Source:                      f.Source,
		AttackScenarioDescription:   message(locale, msgAttackVectorUnavailable),
		ExamplePayloadOrTechnique:   na,
		ExpectedOutcomeIfSuccessful: na,
	}
}

// generatePlaybooks runs one playbook generation per vulnerable finding, sequentially.
func (p *Pipeline) generatePlaybooks(ctx context.Context, vulnerable []models.Finding, locale models.Locale) ([]models.Playbook, error) {
	playbooks := make([]models.Playbook, 0, len(vulnerable))
	failures := &expansionError{total: len(vulnerable)}

	for i, f := range vulnerable {
		log := p.log.WithField("finding", f.Vulnerability)

		out, err := p.playbookFlow(ctx, &llm.DerivedRequest{Finding: llm.NewReportFinding(f), Locale: locale})
		if err == nil && (out == nil || strings.TrimSpace(out.PlaybookMarkdown) == "") {
			err = fmt.Errorf("empty playbook output for %q", f.Vulnerability)
		}
		if err != nil {
			log.WithError(err).Warnf("⚠️ [%d/%d] Playbook failed, using placeholder", i+1, len(vulnerable))
			failures.record(err)
			playbooks = append(playbooks, playbookPlaceholder(f, locale))
			continue
		}

		pb := *out
		if strings.TrimSpace(pb.PlaybookTitle) == "" {
			pb.PlaybookTitle = f.Vulnerability
		}
		playbooks = append(playbooks, pb)
		log.Debugf("📘 [%d/%d] Playbook generated", i+1, len(vulnerable))
	}

	return playbooks, failures.orNil()
}

func playbookPlaceholder(f models.Finding, locale models.Locale) models.Playbook {
	return models.Playbook{
		PlaybookTitle:    fmt.Sprintf(message(locale, msgPlaybookTitle), f.Vulnerability),
		PlaybookMarkdown: message(locale, msgPlaybookBody),
	}
}

package driven

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FileLanderScaner/ANALYZER/internal/analyzer"
	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/FileLanderScaner/ANALYZER/internal/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

// RecordStore is the persistence collaborator.
type RecordStore interface {
	InsertRecord(ctx context.Context, rec *models.AnalysisRecord) error
}

// EventSink receives progress events addressed to the submitting user; the
// websocket hub implements it.
type EventSink interface {
	Broadcast(userID, eventType string, data interface{})
}

// categoryAnalyzer is one gated, normalizing category analysis.
type categoryAnalyzer interface {
	Analyze(ctx context.Context, sub *models.Submission) (*models.CategoryAnalysisResult, error)
}

type noopSink struct{}

func (noopSink) Broadcast(string, string, interface{}) {}

// Options configure a Pipeline. Every field is optional.
type Options struct {
	Store           RecordStore
	Events          EventSink
	Locale          models.Locale
	CategoryTimeout time.Duration
	PersistTimeout  time.Duration
	Logger          logrus.FieldLogger
	Tracer          trace.Tracer
}

// Pipeline fans a submission out across the category analyzers and assembles
// one AggregateResult: Analyze → Report → (entitled) Attack vectors + Playbooks → Persist.
type Pipeline struct {
	analyzers map[models.Source]categoryAnalyzer

	reportFlow       llm.ReportFunc
	attackVectorFlow llm.AttackVectorFunc
	playbookFlow     llm.PlaybookFunc
	assistantFlow    llm.AssistantFunc

	store          RecordStore
	events         EventSink
	locale         models.Locale
	persistTimeout time.Duration
	log            logrus.FieldLogger
	tracer         trace.Tracer

	now   func() time.Time
	newID func() string
}

// NewPipeline wires the pipeline on top of the AI flows.
func NewPipeline(flows *llm.Flows, opts Options) (*Pipeline, error) {
	if flows == nil {
		return nil, errors.New("flows cannot be nil")
	}
	if flows.Report == nil || flows.AttackVector == nil || flows.Playbook == nil {
		return nil, errors.New("report, attack vector and playbook flows are required")
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	categoryTimeout := opts.CategoryTimeout
	if categoryTimeout == 0 {
		categoryTimeout = defaultCategoryTimeout
	}

	built, err := analyzer.NewAll(flows.Categories, analyzer.Options{
		Timeout: categoryTimeout,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build category analyzers: %w", err)
	}
	analyzers := make(map[models.Source]categoryAnalyzer, len(built))
	for source, a := range built {
		analyzers[source] = a
	}

	p := &Pipeline{
		analyzers:        analyzers,
		reportFlow:       flows.Report,
		attackVectorFlow: flows.AttackVector,
		playbookFlow:     flows.Playbook,
		assistantFlow:    flows.Assistant,
		store:            opts.Store,
		events:           opts.Events,
		locale:           models.ParseLocale(string(opts.Locale), models.LocaleEN),
		persistTimeout:   opts.PersistTimeout,
		log:              log,
		now:              time.Now,
		newID:            func() string { return uuid.NewString() },
	}
	if p.events == nil {
		p.events = noopSink{}
	}
	if opts.Tracer != nil {
		p.tracer = opts.Tracer
	} else {
		p.tracer = noop.NewTracerProvider().Tracer("driven")
	}
	if p.persistTimeout == 0 {
		p.persistTimeout = defaultPersistTimeout
	}
	return p, nil
}

// categoryOutcome is what one analyzer goroutine hands back.
type categoryOutcome struct {
	source models.Source
	result *models.CategoryAnalysisResult
	err    error
}

// RunAll analyzes sub for caller. It never fails: every stage failure is
// folded into the result's Error, alongside whatever data was produced.
func (p *Pipeline) RunAll(ctx context.Context, sub *models.Submission, caller Caller) *models.AggregateResult {
	input := *sub
	input.Locale = models.ParseLocale(string(sub.Locale), p.locale)
	locale := input.Locale

	errs := &errorLog{locale: locale}
	result := &models.AggregateResult{AllFindings: []models.Finding{}}

	requested := input.Requested()
	if len(requested) == 0 {
		p.log.Warn("⚠️ Submission has no input for any category")
		errs.add("", ErrNoInput)
		result.Error = errs.result()
		return result
	}

	result.AnalysisID = p.newID()
	log := p.log.WithField("analysis_id", result.AnalysisID)

	ctx, span := p.tracer.Start(ctx, "pipeline.RunAll", trace.WithAttributes(
		attribute.String("analysis_id", result.AnalysisID),
		attribute.Int("categories", len(requested)),
		attribute.Bool("entitled", caller.Entitled),
	))
	defer span.End()

	log.WithField("categories", requested).Info("🔍 Starting analysis")
	p.events.Broadcast(caller.UserID, websocket.EventAnalysisStarted, websocket.AnalysisStartedDTO{
		AnalysisID: result.AnalysisID,
		Categories: requested,
	})

	// STEP 1: Category fan-out. Each goroutine owns one slot; merge happens after Wait.
	outcomes := p.runCategories(ctx, &input, requested)

	// STEP 2: Merge in dispatch order
	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			errs.add(string(o.source), o.err)
			p.events.Broadcast(caller.UserID, websocket.EventCategoryFailed, websocket.CategoryDTO{
				AnalysisID: result.AnalysisID,
				Category:   o.source,
				Error:      UserFacingError(o.err, locale),
			})

			// a timed out category still contributes its fallback result
			if !errors.Is(o.err, analyzer.ErrCategoryTimeout) {
				continue
			}
		}

		result.SetCategory(o.source, o.result)
		for _, f := range o.result.Findings {
			if f.Source == "" {
				f.Source = o.source
			}
			result.AllFindings = append(result.AllFindings, f)
		}

		if o.err == nil {
			p.events.Broadcast(caller.UserID, websocket.EventCategoryCompleted, websocket.CategoryDTO{
				AnalysisID: result.AnalysisID,
				Category:   o.source,
				Findings:   len(o.result.Findings),
				Risk:       o.result.OverallRiskAssessment,
			})
		}
	}

	// STEP 3: Total failure short-circuit
	if failed == len(outcomes) && len(result.AllFindings) == 0 {
		log.Error("❌ Every requested category failed")
		all := &errorLog{locale: locale}
		all.add("", ErrAllCategoriesFailed)
		all.entries = append(all.entries, errs.entries...)

		span.SetStatus(codes.Error, ErrAllCategoriesFailed.Error())

		failedResult := &models.AggregateResult{
			AnalysisID:  result.AnalysisID,
			AllFindings: []models.Finding{},
			Error:       all.result(),
		}
		p.broadcastCompleted(caller.UserID, failedResult)
		return failedResult
	}

	target := TargetDescription(&input, locale)

	// STEP 4: Report synthesis
	reportCtx, reportSpan := p.tracer.Start(ctx, "pipeline.report")
	report, err := p.synthesizeReport(reportCtx, result, target, locale)
	if err != nil {
		errs.add("Report", err)
		recordSpanError(reportSpan, err)
	}
	reportSpan.End()
	result.ReportText = &report
	p.events.Broadcast(caller.UserID, websocket.EventReportReady, websocket.ReportReadyDTO{AnalysisID: result.AnalysisID})

	// STEP 5: Derived artifacts, entitled callers only
	if caller.Entitled {
		vulnerable := models.VulnerableFindings(result.AllFindings)

		vecCtx, vecSpan := p.tracer.Start(ctx, "pipeline.attack_vectors",
			trace.WithAttributes(attribute.Int("vulnerable", len(vulnerable))))
		vectors, vecErr := p.generateAttackVectors(vecCtx, vulnerable, locale)
		result.AttackVectors = vectors
		if vecErr != nil {
			errs.add("Attack vectors", vecErr)
			recordSpanError(vecSpan, vecErr)
		}
		vecSpan.End()

		pbCtx, pbSpan := p.tracer.Start(ctx, "pipeline.playbooks",
			trace.WithAttributes(attribute.Int("vulnerable", len(vulnerable))))
		playbooks, pbErr := p.generatePlaybooks(pbCtx, vulnerable, locale)
		result.RemediationPlaybooks = playbooks
		if pbErr != nil {
			errs.add("Playbooks", pbErr)
			recordSpanError(pbSpan, pbErr)
		}
		pbSpan.End()
	}

	// STEP 6: Persistence, best effort
	if caller.Authenticated() && p.store != nil && len(result.PerformedCategories()) > 0 {
		if err := p.persist(ctx, result, target, caller); err != nil {
			log.WithError(err).Error("❌ Failed to persist analysis record")
			// ошибки хранилища не относятся к AI, классификатор к ним не применяем
			errs.addText("Persistence", message(locale, msgPersistFailed))
		}
	}

	result.Error = errs.result()
	p.broadcastCompleted(caller.UserID, result)
	span.SetAttributes(attribute.Int("findings", len(result.AllFindings)))

	log.WithFields(logrus.Fields{
		"findings":   len(result.AllFindings),
		"vulnerable": len(models.VulnerableFindings(result.AllFindings)),
		"failed":     failed,
	}).Info("✅ Analysis complete")

	return result
}

// runCategories invokes every requested analyzer concurrently and returns
// the outcomes in the order of requested.
func (p *Pipeline) runCategories(ctx context.Context, sub *models.Submission, requested []models.Source) []categoryOutcome {
	outcomes := make([]categoryOutcome, len(requested))

	var g errgroup.Group
	for i, source := range requested {
		g.Go(func() error {
			catCtx, span := p.tracer.Start(ctx, "pipeline.category",
				trace.WithAttributes(attribute.String("category", string(source))))
			defer span.End()

			res, err := p.analyzers[source].Analyze(catCtx, sub)
			if err != nil {
				recordSpanError(span, err)
			}
			outcomes[i] = categoryOutcome{source: source, result: res, err: err}
			// failures are recorded in the outcome and never cancel siblings
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (p *Pipeline) broadcastCompleted(userID string, res *models.AggregateResult) {
	dto := websocket.AnalysisCompletedDTO{
		AnalysisID: res.AnalysisID,
		Findings:   len(res.AllFindings),
		Vulnerable: len(models.VulnerableFindings(res.AllFindings)),
	}
	if res.Error != nil {
		dto.Error = *res.Error
	}
	p.events.Broadcast(userID, websocket.EventAnalysisCompleted, dto)
}

func (p *Pipeline) persist(ctx context.Context, res *models.AggregateResult, target string, caller Caller) error {
	ctx, cancel := context.WithTimeout(ctx, p.persistTimeout)
	defer cancel()

	rec := BuildRecord(res, target, caller.UserID, p.now())
	rec.ID = res.AnalysisID
	if err := p.store.InsertRecord(ctx, rec); err != nil {
		return fmt.Errorf("insert analysis record: %w", err)
	}
	p.log.WithFields(logrus.Fields{"analysis_id": rec.ID, "risk": rec.OverallRiskAssessment}).Info("💾 Analysis record stored")
	return nil
}

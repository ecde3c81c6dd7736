package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrGenerationFailed = errors.New("generation failed")
	ErrCategoryTimeout  = errors.New("category analysis timed out")
)

// Options configure every category analyzer.
type Options struct {
	// Timeout bounds one generation call; zero disables it.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// Analyzer runs one analysis category: gate, generate, normalize.
type Analyzer struct {
	def      definition
	generate llm.CategoryFunc
	timeout  time.Duration
	log      logrus.FieldLogger
}

// New builds the analyzer for source on top of the given generation function.
func New(source models.Source, generate llm.CategoryFunc, opts Options) (*Analyzer, error) {
	def, ok := definitions[source]
	if !ok {
		return nil, fmt.Errorf("unknown analysis category %q", source)
	}
	if generate == nil {
		return nil, fmt.Errorf("no generation function for category %s", source)
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Analyzer{
		def:      def,
		generate: generate,
		timeout:  opts.Timeout,
		log:      log.WithField("category", source),
	}, nil
}

// NewAll builds one analyzer per category in dispatch order.
func NewAll(generators map[models.Source]llm.CategoryFunc, opts Options) (map[models.Source]*Analyzer, error) {
	out := make(map[models.Source]*Analyzer, len(models.CategoryOrder))
	for _, source := range models.CategoryOrder {
		a, err := New(source, generators[source], opts)
		if err != nil {
			return nil, err
		}
		out[source] = a
	}
	return out, nil
}

func (a *Analyzer) Source() models.Source {
	return a.def.source
}

// PassesGate reports whether sub carries enough input to be worth a generation call.
func (a *Analyzer) PassesGate(sub *models.Submission) bool {
	return a.def.passesGate(sub)
}

// Analyze always returns a usable result. The error is non-nil only when the
// generation call itself failed; the result is then the "could not complete" fallback.
// Errors wrap ErrCategoryTimeout when the per-category timeout expired and
// ErrGenerationFailed otherwise.
func (a *Analyzer) Analyze(ctx context.Context, sub *models.Submission) (*models.CategoryAnalysisResult, error) {
	locale := models.ParseLocale(string(sub.Locale), models.LocaleEN)

	if !a.def.passesGate(sub) {
		a.log.Info("⚪ Input below minimum length, skipping generation")
		return Fallback(a.def.source, locale, MessageTooShort), nil
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req := a.def.request(sub)
	req.Category = a.def.source
	req.Locale = locale

	started := time.Now()
	out, err := a.generate(callCtx, req)
	if err != nil {
		fallback := Fallback(a.def.source, locale, MessageIncomplete)
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			a.log.WithField("timeout", a.timeout).Warn("⏱️ Category analysis timed out")
			return fallback, fmt.Errorf("%w after %v", ErrCategoryTimeout, a.timeout)
		}
		a.log.WithError(err).Warn("⚠️ Category generation failed")
		return fallback, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if out == nil {
		a.log.Warn("⚠️ Generation returned no output")
		return Fallback(a.def.source, locale, MessageIncomplete), nil
	}

	res := a.def.normalize(out, sub, locale)
	a.log.WithFields(logrus.Fields{
		"findings": len(res.Findings),
		"risk":     res.OverallRiskAssessment,
		"elapsed":  time.Since(started).Round(time.Millisecond),
	}).Info("✅ Category analysis complete")

	return res, nil
}

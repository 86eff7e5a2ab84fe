package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"FxDesk/internal/domain/models"
	domrepo "FxDesk/internal/domain/repository"
	domsvc "FxDesk/internal/domain/service"
	"FxDesk/internal/services/advisor"
	applogger "FxDesk/pkg/logger"
)

// preflight token estimate; actual usage is billed at commit
const estimatedTokens = 1000

// Analyzer drives the full analysis chain: context assembly, prompt
// compilation, budget preflight, the completion call, response resolution
// and spend commit.
type Analyzer struct {
	feeds     *FeedSnapshot
	settings  domrepo.SettingsStore
	gate      *advisor.Gate
	completer domsvc.Completer
	resolver  *advisor.Resolver
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	log       *applogger.Logger
}

func NewAnalyzer(
	feeds *FeedSnapshot,
	settings domrepo.SettingsStore,
	gate *advisor.Gate,
	completer domsvc.Completer,
	resolver *advisor.Resolver,
	publisher domrepo.Publisher,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *Analyzer {
	return &Analyzer{
		feeds:     feeds,
		settings:  settings,
		gate:      gate,
		completer: completer,
		resolver:  resolver,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
}

// RunAnalysis executes one feature end to end. Extra carries caller-supplied
// placeholder values such as the question or the trading session.
func (a *Analyzer) RunAnalysis(ctx context.Context, featureID string, extra map[string]string) (*models.AnalysisRun, error) {
	start := time.Now()

	feature, ok := advisor.Lookup(featureID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", advisor.ErrUnknownFeature, featureID)
	}

	settings, err := a.settings.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	run, err := a.run(ctx, feature, settings, extra, start)
	if a.metrics != nil {
		a.metrics.RecordAnalysis(featureID, outcomeOf(err))
		a.metrics.RecordLatency("analysis", time.Since(start).Seconds())
	}
	if err != nil {
		a.log.Warn("analyzer run_failed",
			applogger.String("feature", featureID),
			applogger.Error(err))
		return nil, err
	}

	a.log.Info("analyzer run_done",
		applogger.String("feature", featureID),
		applogger.Int("tokens", run.Tokens),
		applogger.String("cost", run.Cost),
		applogger.Duration("elapsed", run.Elapsed))

	if a.publisher != nil {
		if perr := a.publisher.PublishAnalysis(ctx, run); perr != nil {
			a.log.Warn("analyzer publish_failed", applogger.Error(perr))
		}
	}
	return run, nil
}

func (a *Analyzer) run(ctx context.Context, feature advisor.Feature, settings models.Settings, extra map[string]string, start time.Time) (*models.AnalysisRun, error) {
	bundle, err := advisor.Assemble(feature, advisor.Inputs{
		News:     a.feeds.News(),
		Quotes:   a.feeds.Quotes(),
		Calendar: a.feeds.Calendar(),
		Extra:    extra,
	})
	if err != nil {
		return nil, err
	}

	template := advisor.TemplateFor(feature.ID, settings.Prompts)
	instruction := advisor.CompileForFeature(feature, template, bundle)

	if err := a.gate.Preflight(estimatedTokens, settings.Model); err != nil {
		return nil, err
	}

	resp, err := a.completer.Complete(ctx, domsvc.CompletionRequest{
		Model:       settings.Model,
		Instruction: instruction,
		MaxTokens:   feature.MaxTokens,
		JSONShaped:  feature.JSONShaped,
	})
	if err != nil {
		return nil, err
	}

	// the API billed these tokens regardless of what the response parses
	// into, so the ledger is charged before resolution
	cost, total := a.gate.Commit(resp.TotalTokens, settings.Model)
	if a.metrics != nil {
		a.metrics.RecordTokens(feature.ID, resp.TotalTokens)
		totalF, _ := total.Float64()
		a.metrics.RecordSpend(totalF)
	}

	run := &models.AnalysisRun{
		ID:        uuid.NewString(),
		Feature:   feature.ID,
		Tokens:    resp.TotalTokens,
		Cost:      cost.String(),
		StartedAt: start,
	}

	if feature.JSONShaped {
		elements, rerr := a.resolver.Resolve(&feature, resp.Text)
		if rerr != nil {
			return nil, rerr
		}
		run.Elements = elements
	} else {
		text, rerr := a.resolver.ResolveText(&feature, resp.Text)
		if rerr != nil {
			return nil, rerr
		}
		run.Text = text
	}

	run.Elapsed = time.Since(start)
	return run, nil
}

// AnalyzeAll runs every JSON-shaped feature concurrently. Failed features
// are reported alongside succeeded ones; one refusal does not void the rest.
func (a *Analyzer) AnalyzeAll(ctx context.Context, extra map[string]string) map[string]*FeatureOutcome {
	ids := advisor.JSONFeatureIDs()
	results := make(map[string]*FeatureOutcome, len(ids))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			run, err := a.RunAnalysis(ctx, id, extra)
			mu.Lock()
			results[id] = &FeatureOutcome{Run: run, Err: err}
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return results
}

// Ask answers a free-form question against the current market context.
func (a *Analyzer) Ask(ctx context.Context, question string) (*models.AnalysisRun, error) {
	return a.RunAnalysis(ctx, "insights", map[string]string{"question": question})
}

// FeatureOutcome pairs one feature's run with its error.
type FeatureOutcome struct {
	Run *models.AnalysisRun
	Err error
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}

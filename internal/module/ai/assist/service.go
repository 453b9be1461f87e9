package assist

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/smartblog/server/internal/module/ai/provider"
	"github.com/smartblog/server/internal/module/ai/usage"
	"github.com/smartblog/server/internal/shared/logger"
	"github.com/smartblog/server/internal/shared/metrics"
)

// Mode is the service operating mode, fixed at construction.
type Mode int

const (
	// ModeLive issues real provider calls.
	ModeLive Mode = iota
	// ModeDegraded serves deterministic fallbacks without ever calling
	// the provider. Entered when no credential is configured or client
	// construction fails; recovery requires a restart.
	ModeDegraded
)

func (m Mode) String() string {
	if m == ModeDegraded {
		return "degraded"
	}
	return "live"
}

// Result statuses for telemetry.
const (
	statusOK       = "ok"
	statusFallback = "fallback"
	statusDegraded = "degraded"
)

// UsageRecorder accounts one event per returned result.
type UsageRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, kind usage.Kind, approxTokens int) error
}

// Service implements the four writing assistance features. Provider
// failures never surface to callers; every feature degrades to a
// deterministic fallback instead.
type Service struct {
	client  provider.Client
	mode    Mode
	usage   UsageRecorder
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewService creates the assistance service. When cfg carries no API
// key, or the provider client cannot be constructed, the service runs
// degraded for its whole lifetime.
func NewService(cfg provider.Config, recorder UsageRecorder, m *metrics.Metrics, log *logger.Logger) *Service {
	s := &Service{
		mode:    ModeDegraded,
		usage:   recorder,
		metrics: m,
		logger:  log,
	}

	client, err := provider.NewClient(cfg, log)
	if err != nil {
		if errors.Is(err, provider.ErrNoAPIKey) {
			log.Warn("no provider api key configured, running degraded")
		} else {
			log.Error("provider client construction failed, running degraded", logger.Err(err))
		}
		return s
	}

	s.client = client
	s.mode = ModeLive
	log.Info("provider client ready", "model", cfg.Model)
	return s
}

// NewServiceWithClient creates a live service around an existing client.
func NewServiceWithClient(client provider.Client, recorder UsageRecorder, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		client:  client,
		mode:    ModeLive,
		usage:   recorder,
		metrics: m,
		logger:  log,
	}
}

// Mode returns the operating mode. Immutable, safe for concurrent reads.
func (s *Service) Mode() Mode {
	return s.mode
}

// invoke runs one provider call unless the service is degraded. The
// bool reports whether a real response came back; on false the caller
// serves its fallback.
func (s *Service) invoke(ctx context.Context, feature string, messages []provider.Message, budget int) (string, string, bool, error) {
	if s.mode == ModeDegraded {
		return "", statusDegraded, false, nil
	}

	raw, err := s.client.Invoke(ctx, messages, &provider.Options{MaxTokens: budget})
	if err != nil {
		// A client-side abort is not served a fallback; the caller is gone
		// and no usage must be written for work that never completed.
		if ctx.Err() != nil {
			return "", "", false, ctx.Err()
		}
		s.logger.Warn("provider call failed, serving fallback",
			"feature", feature,
			logger.Err(err),
		)
		return "", statusFallback, false, nil
	}

	return raw, statusOK, true, nil
}

// record accounts the result and emits telemetry. An accounting failure
// is returned so the caller never hands out an unaccounted result.
func (s *Service) record(ctx context.Context, userID uuid.UUID, kind usage.Kind, feature, status string, approxTokens int, took time.Duration) error {
	if err := s.usage.Record(ctx, userID, kind, approxTokens); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordAIRequest(feature, status, took)
		s.metrics.RecordAITokens(feature, approxTokens, 0)
	}
	return nil
}

// SuggestTitles returns up to count title candidates for the content.
func (s *Service) SuggestTitles(ctx context.Context, userID uuid.UUID, content string, count int) ([]string, error) {
	if count <= 0 {
		count = defaultTitleCount
	}

	start := time.Now()
	raw, status, ok, err := s.invoke(ctx, "title_suggest", buildTitleMessages(content, count), titleTokenBudget)
	if err != nil {
		return nil, err
	}

	titles := titleFallback(content)
	if ok {
		titles = postprocessTitles(raw, count)
	}

	approx := utf8.RuneCountInString(content) / 4
	if err := s.record(ctx, userID, usage.KindTitleSuggest, "title_suggest", status, approx, time.Since(start)); err != nil {
		return nil, err
	}
	return titles, nil
}

// CompleteContent continues the partial content in the requested style.
func (s *Service) CompleteContent(ctx context.Context, userID uuid.UUID, content, style string) (string, error) {
	start := time.Now()
	raw, status, ok, err := s.invoke(ctx, "autocomplete", buildCompletionMessages(content, style), completionTokenBudget)
	if err != nil {
		return "", err
	}

	completion := completionFallback
	if ok {
		completion = postprocessCompletion(raw)
	}

	approx := utf8.RuneCountInString(content+completion) / 4
	if err := s.record(ctx, userID, usage.KindAutocomplete, "autocomplete", status, approx, time.Since(start)); err != nil {
		return "", err
	}
	return completion, nil
}

// SuggestTags returns up to maxTags tags for the title and content.
func (s *Service) SuggestTags(ctx context.Context, userID uuid.UUID, title, content string, maxTags int) ([]string, error) {
	if maxTags <= 0 {
		maxTags = defaultMaxTags
	}

	start := time.Now()
	raw, status, ok, err := s.invoke(ctx, "tag_suggest", buildTagMessages(title, content, maxTags), tagTokenBudget)
	if err != nil {
		return nil, err
	}

	tags := tagsFallbackSet
	if ok {
		tags = postprocessTags(raw, maxTags)
	}

	approx := utf8.RuneCountInString(title+content) / 4
	if err := s.record(ctx, userID, usage.KindTagSuggest, "tag_suggest", status, approx, time.Since(start)); err != nil {
		return nil, err
	}
	return tags, nil
}

// Summarize produces a summary no longer than maxLength runes.
func (s *Service) Summarize(ctx context.Context, userID uuid.UUID, content string, maxLength int) (string, error) {
	// Limits too small to hold the ellipsis truncation fall back to
	// the default rather than erroring out.
	if maxLength < minSummaryLimit {
		maxLength = defaultSummaryLimit
	}

	start := time.Now()
	raw, status, ok, err := s.invoke(ctx, "summary", buildSummaryMessages(content, maxLength), summaryTokenBudget)
	if err != nil {
		return "", err
	}

	summary := summaryFallbackText
	if ok {
		summary = postprocessSummary(raw, maxLength)
	}

	approx := utf8.RuneCountInString(content+summary) / 4
	if err := s.record(ctx, userID, usage.KindSummary, "summary", status, approx, time.Since(start)); err != nil {
		return "", err
	}
	return summary, nil
}

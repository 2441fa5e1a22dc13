package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Skufu/bpfuel/internal/bp"
	"github.com/Skufu/bpfuel/internal/metrics"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 30 * time.Second

// Generator is a text-generation backend. It returns the model's raw text.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider picks between the model path and the static table. It holds no
// per-user state and is safe for concurrent use.
type Provider struct {
	gen     Generator
	timeout time.Duration
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewProvider wires a provider. A nil gen means no credential was configured
// and every call is served from the static table.
func NewProvider(gen Generator, timeout time.Duration, log zerolog.Logger, m *metrics.Metrics) *Provider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Provider{gen: gen, timeout: timeout, log: log, metrics: m}
}

// Backend names the generator in use, or "static".
func (p *Provider) Backend() string {
	if p.gen == nil {
		return SourceStatic
	}
	return p.gen.Name()
}

// Recommend never fails. When the model path errors, the static entry for the
// category comes back with Error carrying the reason as a notice.
func (p *Provider) Recommend(ctx context.Context, c bp.Classification, prof Profile) Set {
	if p.gen == nil {
		p.metrics.ObserveRecommendation(SourceStatic)
		return Static(c.Category)
	}

	s := p.Generate(ctx, c, prof)
	if s.Error == "" {
		p.metrics.ObserveRecommendation(SourceAI)
		return s
	}

	fallback := Static(c.Category)
	fallback.Error = s.Error
	p.metrics.ObserveRecommendation(SourceStatic)
	return fallback
}

// Generate runs only the model path. Failures are returned as an
// error-marked Set with empty lists.
func (p *Provider) Generate(ctx context.Context, c bp.Classification, prof Profile) (out Set) {
	if p.gen == nil {
		return failed("no recommendation service configured")
	}
	log := p.log.With().Str("backend", p.gen.Name()).Str("category", c.Category).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recommendation service panicked")
			p.metrics.ObserveFallback("panic")
			out = failed(fmt.Sprintf("recommendation service error: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	text, err := p.gen.Generate(ctx, BuildPrompt(c, prof))
	p.metrics.ObserveGeneration(p.gen.Name(), time.Since(start), err)
	if err != nil {
		reason, label := describeFailure(ctx, err)
		log.Warn().Err(err).Str("reason", label).Msg("recommendation service failed, using fallback")
		p.metrics.ObserveFallback(label)
		return failed(reason)
	}

	res := Parse(text)
	if !res.OK() {
		label := "parse_error"
		if errors.Is(res.Err, ErrEmptyResponse) {
			label = "empty_response"
		}
		log.Warn().Err(res.Err).Int("response_len", len(text)).Msg("recommendation output unusable, using fallback")
		p.metrics.ObserveFallback(label)
		return failed(res.Err.Error())
	}

	log.Debug().Str("stage", res.Stage).Msg("recommendations generated")
	return res.Set
}

func describeFailure(ctx context.Context, err error) (string, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "recommendation service timed out", "timeout"
	case errors.Is(err, context.Canceled):
		return "recommendation request was canceled", "canceled"
	case errors.Is(err, ErrUnauthorized):
		return "recommendation service rejected the API key", "auth"
	default:
		return fmt.Sprintf("recommendation service error: %v", err), "service_error"
	}
}

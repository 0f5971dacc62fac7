package transcription

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/honeyvig/voicescribe/errors"
	"github.com/honeyvig/voicescribe/logger"
	"github.com/honeyvig/voicescribe/observability"
	"github.com/honeyvig/voicescribe/resilience"
)

// Service orchestrates the transcription pipeline: payload validation,
// request construction, provider dispatch with bounded retry, and transcript
// rendering. One Service is shared by all requests; it is safe for
// concurrent use.
type Service struct {
	cfg      Config
	provider Provider
	limits   Limits
	bulkhead *resilience.Bulkhead
	log      *logger.Logger
	metrics  *observability.TranscriptionMetrics
}

// NewService creates the pipeline around the given provider. The logger and
// metrics may be nil; a component logger and no-op instruments are installed
// in that case.
func NewService(cfg Config, p Provider, log *logger.Logger, metrics *observability.TranscriptionMetrics) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.WithComponent("transcription")
	}
	if metrics == nil {
		var err error
		metrics, err = observability.NewTranscriptionMetrics()
		if err != nil {
			return nil, err
		}
	}

	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "transcription",
		MaxConcurrent: cfg.MaxConcurrent,
		OnReject: func(name string) {
			log.Warn("concurrency ceiling reached, rejecting request",
				logger.Fields("bulkhead", name))
		},
	})

	return &Service{
		cfg:      cfg,
		provider: p,
		limits:   cfg.Limits(),
		bulkhead: bh,
		log:      log,
		metrics:  metrics,
	}, nil
}

// Provider returns the backend the service dispatches to.
func (s *Service) Provider() Provider { return s.provider }

// Process runs one upload through the full pipeline and returns the rendered
// transcript. Validation failures never reach the provider. Transient
// provider failures (rate limiting, unavailability) are retried with
// exponential backoff; everything else fails fast.
func (s *Service) Process(ctx context.Context, data []byte, declaredType, language string) (string, error) {
	result, err := s.Transcribe(ctx, data, declaredType, language)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

// Transcribe is Process without the final text rendering, for callers that
// need segment-level detail.
func (s *Service) Transcribe(ctx context.Context, data []byte, declaredType, language string) (*TranscriptionResult, error) {
	start := time.Now()

	payload, err := ValidatePayload(data, declaredType, s.limits)
	if err != nil {
		s.recordOutcome(ctx, err, start)
		return nil, err
	}

	if language == "" {
		language = s.cfg.DefaultLanguage
	}

	req := TranscriptionRequest{
		Audio:    *payload,
		Language: language,
	}

	result, err := s.dispatch(ctx, req)
	if err != nil {
		s.recordOutcome(ctx, err, start)
		return nil, err
	}

	if len(result.Segments) == 0 {
		err := errors.EmptyTranscript(s.provider.Name())
		s.log.WithContext(ctx).Warn("provider returned zero segments",
			logger.Fields(logger.FieldProvider, s.provider.Name()))
		s.recordOutcome(ctx, err, start)
		return nil, err
	}

	s.log.WithContext(ctx).Info("transcription complete", logger.Fields(
		logger.FieldProvider, result.Provider,
		"segments", len(result.Segments),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	s.recordOutcome(ctx, nil, start)
	return result, nil
}

// dispatch calls the provider with per-attempt timeouts under the retry
// policy. Only retryable provider errors (rate limited, unavailable) trigger
// another attempt.
func (s *Service) dispatch(ctx context.Context, req TranscriptionRequest) (*TranscriptionResult, error) {
	retryCfg := resilience.RetryConfig{
		MaxAttempts:    s.cfg.Retry.MaxAttempts,
		InitialBackoff: s.cfg.Retry.InitialBackoff,
		MaxBackoff:     s.cfg.Retry.MaxBackoff,
		BackoffFactor:  2.0,
		Jitter:         0.1,
		RetryIf:        errors.IsRetryable,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			s.metrics.RecordRetry(ctx, s.provider.Name())
			s.log.WithContext(ctx).Warn("provider call failed, retrying", logger.Fields(
				logger.FieldProvider, s.provider.Name(),
				logger.FieldAttempt, attempt,
				"backoff_ms", backoff.Milliseconds(),
				"error", err.Error(),
			))
		},
	}

	return resilience.Retry(ctx, retryCfg, func() (*TranscriptionResult, error) {
		result, err := s.attempt(ctx, req)
		if err != nil {
			return nil, s.classify(err)
		}
		return result, nil
	})
}

// attempt runs a single provider call bounded by the attempt timeout and the
// concurrency ceiling.
func (s *Service) attempt(ctx context.Context, req TranscriptionRequest) (*TranscriptionResult, error) {
	attemptCtx := ctx
	if s.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.cfg.AttemptTimeout)
		defer cancel()
	}

	return resilience.ExecuteWithResult(s.bulkhead, attemptCtx, func() (*TranscriptionResult, error) {
		s.metrics.AddInFlight(attemptCtx, s.provider.Name(), 1)
		defer s.metrics.AddInFlight(attemptCtx, s.provider.Name(), -1)
		return s.provider.Transcribe(attemptCtx, req)
	})
}

// classify normalizes dispatch failures into the error taxonomy. Bulkhead
// saturation surfaces as rate limiting so callers see a retryable 503; an
// expired attempt deadline counts as provider unavailability; anything a
// backend failed to classify becomes an unknown provider error.
func (s *Service) classify(err error) error {
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	switch {
	case stderrors.Is(err, resilience.ErrBulkheadFull) || stderrors.Is(err, resilience.ErrBulkheadTimeout):
		return errors.ProviderRateLimited(s.provider.Name()).
			WithDetail("reason", "concurrency_ceiling")
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ProviderUnavailable(s.provider.Name(), err).
			WithDetail("reason", "attempt_timeout")
	case stderrors.Is(err, context.Canceled):
		return err
	default:
		return errors.ProviderUnknown(s.provider.Name(), err)
	}
}

func (s *Service) recordOutcome(ctx context.Context, err error, start time.Time) {
	outcome := "success"
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			outcome = string(appErr.Code)
		} else {
			outcome = "error"
		}
	}
	s.metrics.RecordRequest(ctx, s.provider.Name(), outcome, time.Since(start).Seconds())
}

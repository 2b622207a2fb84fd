package usecase

import (
	"context"

	"easy-apply/internal/answers"
	"easy-apply/internal/config"
	"easy-apply/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the origin of the job site.
const DefaultBaseURL = "https://www.linkedin.com"

// Recorder is the append-only store of run artifacts.
type Recorder interface {
	RecordAnswered(ctx context.Context, job *domain.Job, q domain.Question) error
	RecordUnprepared(ctx context.Context, job *domain.Job, q domain.Question) error
	RecordAttempt(ctx context.Context, a *domain.Attempt) error
}

// Screenshotter is implemented by pages that can capture the viewport.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// ScreenshotRecorder is implemented by recorders that keep failure captures.
type ScreenshotRecorder interface {
	RecordScreenshot(ctx context.Context, a *domain.Attempt, png []byte) error
}

// RunContext is built once per run and shared read-only by every component.
type RunContext struct {
	RunID    uuid.UUID
	BaseURL  string
	Answers  answers.Provider
	Recorder Recorder
	Timing   config.Timing
	TestMode bool
	// Limiter paces opening result entries; nil disables pacing.
	Limiter *rate.Limiter
}

// NewRunContext returns the context of run id; uuid.Nil draws a fresh id.
// perMinute <= 0 disables pacing.
func NewRunContext(id uuid.UUID, p answers.Provider, r Recorder, t config.Timing, testMode bool, perMinute float64) *RunContext {
	if id == uuid.Nil {
		id = uuid.New()
	}
	rc := &RunContext{
		RunID:    id,
		BaseURL:  DefaultBaseURL,
		Answers:  p,
		Recorder: r,
		Timing:   t,
		TestMode: testMode,
	}
	if perMinute > 0 {
		rc.Limiter = rate.NewLimiter(rate.Limit(perMinute/60), 1)
	}
	return rc
}

package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRunActive    = errors.New("a run is already in progress")
	ErrRunNotFound  = errors.New("run not found")
	ErrOTPNotWanted = errors.New("run is not waiting for a verification code")
)

const (
	RunRunning     = "running"
	RunAwaitingOTP = "awaiting_otp"
	RunFinished    = "finished"
	RunFailed      = "failed"
)

// RunStatus is the externally visible state of a background run.
type RunStatus struct {
	ID         uuid.UUID  `json:"id"`
	State      string     `json:"state"`
	Summary    *Summary   `json:"summary,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RunFunc performs one run. otp delivers codes posted through SubmitOTP.
type RunFunc func(ctx context.Context, runID uuid.UUID, otp OTPFunc) (*Summary, error)

// Runs starts background runs, one at a time, since they share the browser
// profile.
type Runs struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	active bool
	runs   map[uuid.UUID]*RunStatus
	codes  map[uuid.UUID]chan string
}

func NewRuns() *Runs {
	return &Runs{runs: map[uuid.UUID]*RunStatus{}, codes: map[uuid.UUID]chan string{}}
}

// Start launches fn in the background and returns the run id.
func (m *Runs) Start(ctx context.Context, fn RunFunc) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active {
		return uuid.Nil, ErrRunActive
	}
	id := uuid.New()
	m.active = true
	m.runs[id] = &RunStatus{ID: id, State: RunRunning, StartedAt: time.Now()}
	m.codes[id] = make(chan string, 1)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		sum, err := fn(ctx, id, m.otpFunc(id))
		m.finish(id, sum, err)
	}()
	return id, nil
}

// Wait blocks until every started run has returned and its status is final.
func (m *Runs) Wait() {
	m.wg.Wait()
}

// Get returns a copy of the run's status.
func (m *Runs) Get(id uuid.UUID) (RunStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.runs[id]
	if !ok {
		return RunStatus{}, false
	}
	return *s, true
}

// SubmitOTP hands a verification code to a run waiting for one.
func (m *Runs) SubmitOTP(id uuid.UUID, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.runs[id]
	if !ok {
		return ErrRunNotFound
	}
	if s.State != RunAwaitingOTP {
		return ErrOTPNotWanted
	}
	select {
	case m.codes[id] <- code:
		s.State = RunRunning
		return nil
	default:
		return ErrOTPNotWanted
	}
}

func (m *Runs) otpFunc(id uuid.UUID) OTPFunc {
	return func(ctx context.Context) (string, error) {
		m.mu.Lock()
		m.runs[id].State = RunAwaitingOTP
		ch := m.codes[id]
		m.mu.Unlock()
		slog.Info("waiting for verification code", "run_id", id)

		select {
		case code := <-ch:
			return code, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (m *Runs) finish(id uuid.UUID, sum *Summary, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	s := m.runs[id]
	s.Summary = sum
	s.FinishedAt = &now
	s.State = RunFinished
	if err != nil {
		s.State = RunFailed
		s.Error = err.Error()
		slog.Error("run failed", "run_id", id, "error", err)
	}
	delete(m.codes, id)
	m.active = false
}

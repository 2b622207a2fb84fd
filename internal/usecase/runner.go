package usecase

import (
	"context"
	"log/slog"

	"easy-apply/internal/answers"
)

// Session is a browser tab owned by one run.
type Session interface {
	Page
	Close() error
}

// Credentials are the account used to sign in.
type Credentials struct {
	Username string
	Password string
}

// Runner executes login, search and the apply loop over one session.
type Runner struct {
	rc      *RunContext
	creds   Credentials
	filters Filters
	otp     OTPFunc
}

func NewRunner(rc *RunContext, creds Credentials, filters Filters, otp OTPFunc) *Runner {
	return &Runner{rc: rc, creds: creds, filters: filters, otp: otp}
}

// Run owns s and closes it on every return path.
func (r *Runner) Run(ctx context.Context, s Session) (sum *Summary, err error) {
	defer func() {
		if cerr := s.Close(); cerr != nil {
			slog.Warn("close browser session", "run_id", r.rc.RunID, "error", cerr)
		}
	}()

	if err := answers.CheckRequired(r.rc.Answers); err != nil {
		return nil, &SetupError{Err: err}
	}
	if _, err := r.filters.Query(); err != nil {
		return nil, err
	}

	slog.Info("run started", "run_id", r.rc.RunID, "test_mode", r.rc.TestMode)
	if err := NewLoginPage(r.rc, s, r.otp).Login(ctx, r.creds.Username, r.creds.Password); err != nil {
		return nil, err
	}

	jobs := NewJobsPage(r.rc, s)
	if _, err := jobs.ApplyFilters(ctx, r.filters); err != nil {
		return nil, err
	}
	sum, err = jobs.Apply(ctx)
	slog.Info("run finished", "run_id", r.rc.RunID, "entries", sum.Entries, "skipped", sum.Skipped, "by_status", sum.ByStatus)
	return sum, err
}

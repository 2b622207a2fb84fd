package domain

import (
	"time"

	"github.com/google/uuid"
)

type AttemptStatus string

const (
	StatusAlreadyApplied  AttemptStatus = "ALREADY_APPLIED"
	StatusApplied         AttemptStatus = "APPLIED"
	StatusAppliedTestMode AttemptStatus = "APPLIED_TEST_MODE"
	StatusFailed          AttemptStatus = "FAILED"
)

// Attempt is the terminal outcome of processing one Job.
type Attempt struct {
	ID        uuid.UUID     `json:"id"`
	RunID     uuid.UUID     `json:"run_id"`
	Job       *Job          `json:"job"`
	Status    AttemptStatus `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func NewAttempt(runID uuid.UUID, job *Job, status AttemptStatus, reason string) *Attempt {
	return &Attempt{
		ID:        uuid.New(),
		RunID:     runID,
		Job:       job,
		Status:    status,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
}

// UnpreparedQuestion is a question that needs a human-curated answer.
type UnpreparedQuestion struct {
	JobID    string       `json:"job"`
	Question string       `json:"question"`
	Type     QuestionKind `json:"type"`
	Options  []string     `json:"options,omitempty"`
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"easy-apply/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitState(t *testing.T, runs *Runs, id uuid.UUID, state string) RunStatus {
	t.Helper()
	var st RunStatus
	require.Eventually(t, func() bool {
		st, _ = runs.Get(id)
		return st.State == state
	}, 2*time.Second, 5*time.Millisecond)
	return st
}

func TestRuns_OneAtATime(t *testing.T) {
	runs := NewRuns()
	release := make(chan struct{})
	id, err := runs.Start(context.Background(), func(ctx context.Context, _ uuid.UUID, _ OTPFunc) (*Summary, error) {
		<-release
		sum := newSummary()
		sum.ByStatus[domain.StatusApplied] = 2
		return sum, nil
	})
	require.NoError(t, err)

	_, err = runs.Start(context.Background(), func(context.Context, uuid.UUID, OTPFunc) (*Summary, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrRunActive)

	close(release)
	st := waitState(t, runs, id, RunFinished)
	require.NotNil(t, st.Summary)
	assert.Equal(t, 2, st.Summary.ByStatus[domain.StatusApplied])
	assert.NotNil(t, st.FinishedAt)

	_, err = runs.Start(context.Background(), func(context.Context, uuid.UUID, OTPFunc) (*Summary, error) { return nil, nil })
	assert.NoError(t, err, "a finished run frees the slot")
}

func TestRuns_Failure(t *testing.T) {
	runs := NewRuns()
	id, err := runs.Start(context.Background(), func(context.Context, uuid.UUID, OTPFunc) (*Summary, error) {
		return nil, &LoginError{Reason: "nope"}
	})
	require.NoError(t, err)

	st := waitState(t, runs, id, RunFailed)
	assert.Equal(t, "login failed: nope", st.Error)
}

func TestRuns_SubmitOTP(t *testing.T) {
	runs := NewRuns()
	got := make(chan string, 1)
	id, err := runs.Start(context.Background(), func(ctx context.Context, _ uuid.UUID, otp OTPFunc) (*Summary, error) {
		code, err := otp(ctx)
		got <- code
		return newSummary(), err
	})
	require.NoError(t, err)

	waitState(t, runs, id, RunAwaitingOTP)
	require.NoError(t, runs.SubmitOTP(id, "654321"))
	assert.Equal(t, "654321", <-got)
	waitState(t, runs, id, RunFinished)

	assert.ErrorIs(t, runs.SubmitOTP(id, "1"), ErrOTPNotWanted)
	assert.ErrorIs(t, runs.SubmitOTP(uuid.New(), "1"), ErrRunNotFound)
}

func TestRuns_GetUnknown(t *testing.T) {
	_, ok := NewRuns().Get(uuid.New())
	assert.False(t, ok)
}

func TestRuns_CancelledWhileWaitingForCode(t *testing.T) {
	runs := NewRuns()
	ctx, cancel := context.WithCancel(context.Background())
	id, err := runs.Start(ctx, func(ctx context.Context, _ uuid.UUID, otp OTPFunc) (*Summary, error) {
		_, err := otp(ctx)
		return nil, err
	})
	require.NoError(t, err)
	waitState(t, runs, id, RunAwaitingOTP)

	cancel()
	st := waitState(t, runs, id, RunFailed)
	assert.True(t, errors.Is(ctx.Err(), context.Canceled))
	assert.Equal(t, context.Canceled.Error(), st.Error)
}

func TestRuns_WaitBlocksUntilRunEnds(t *testing.T) {
	runs := NewRuns()
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	id, err := runs.Start(ctx, func(ctx context.Context, _ uuid.UUID, _ OTPFunc) (*Summary, error) {
		<-ctx.Done()
		<-release
		return newSummary(), ctx.Err()
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		runs.Wait()
		close(done)
	}()

	cancel()
	select {
	case <-done:
		t.Fatal("Wait returned while the run was still recording")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after the run ended")
	}
	st, ok := runs.Get(id)
	require.True(t, ok)
	assert.Equal(t, RunFailed, st.State, "status is final once Wait returns")
}

func TestRuns_WaitWithoutRuns(t *testing.T) {
	NewRuns().Wait()
}

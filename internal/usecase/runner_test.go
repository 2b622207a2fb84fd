package usecase

import (
	"context"
	"testing"

	"easy-apply/internal/answers"
	"easy-apply/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	*fakePage
	closed int
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

func TestRunner_Run(t *testing.T) {
	p := newListingPage(listing{id: "11", applied: true}, listing{id: "12", applied: true})
	p.title = "Feed | LinkedIn"
	s := &fakeSession{fakePage: p}
	rec := &fakeRecorder{}
	rc := testRunContext(defaultKB(), rec, true)

	sum, err := NewRunner(rc, Credentials{Username: "u", Password: "p"}, Filters{Title: "go"}, nil).Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.ByStatus[domain.StatusAlreadyApplied])
	assert.Len(t, rec.attempts, 2)
	assert.Equal(t, 1, s.closed)
	require.Len(t, p.navigated, 2)
	assert.Contains(t, p.navigated[1], "/jobs/search?")
}

func TestRunner_MissingBasicKeyAbortsBeforeLogin(t *testing.T) {
	basics := testBasics()
	delete(basics, answers.KeyDefaultExperience)
	s := &fakeSession{fakePage: newPage()}
	rc := testRunContext(answers.NewJSONProvider(basics, nil), &fakeRecorder{}, false)

	_, err := NewRunner(rc, Credentials{}, Filters{}, nil).Run(context.Background(), s)
	var se *SetupError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, answers.ErrMissingKey)
	assert.Empty(t, s.navigated)
	assert.Equal(t, 1, s.closed)
}

func TestRunner_LoginFailureEndsRun(t *testing.T) {
	p, _, _ := newLoginSite("Sign In")
	s := &fakeSession{fakePage: p}
	rec := &fakeRecorder{}
	rc := testRunContext(defaultKB(), rec, false)

	_, err := NewRunner(rc, Credentials{Username: "u", Password: "p"}, Filters{}, nil).Run(context.Background(), s)
	var le *LoginError
	require.ErrorAs(t, err, &le)
	assert.Empty(t, rec.attempts)
	assert.Equal(t, 1, s.closed)
}

func TestRunner_InvalidFilters(t *testing.T) {
	s := &fakeSession{fakePage: newPage()}
	rc := testRunContext(defaultKB(), &fakeRecorder{}, false)

	_, err := NewRunner(rc, Credentials{}, Filters{WorkLocation: "MOON"}, nil).Run(context.Background(), s)
	var se *SetupError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, s.closed)
}

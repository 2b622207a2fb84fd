package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"easy-apply/internal/answers"
	"easy-apply/internal/config"
	"easy-apply/internal/domain"

	"github.com/google/uuid"
)

// fakeEl is a scripted DOM node. Lookups are answered by exact selector.
type fakeEl struct {
	text     string
	attrs    map[string]string
	value    string
	checked  bool
	children map[string][]*fakeEl
	prev     map[string]*fakeEl

	valueErr error
	onClick  func()
	clicks   int
	typed    []string
	submits  int
}

func el() *fakeEl { return &fakeEl{attrs: map[string]string{}, children: map[string][]*fakeEl{}, prev: map[string]*fakeEl{}} }

func (e *fakeEl) with(sel string, kids ...*fakeEl) *fakeEl {
	e.children[sel] = append(e.children[sel], kids...)
	return e
}

func (e *fakeEl) withText(s string) *fakeEl  { e.text = s; return e }
func (e *fakeEl) withValue(s string) *fakeEl { e.value = s; return e }
func (e *fakeEl) withAttr(k, v string) *fakeEl {
	e.attrs[k] = v
	return e
}

func first(els []*fakeEl) Element {
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

func all(els []*fakeEl) []Element {
	out := make([]Element, 0, len(els))
	for _, e := range els {
		out = append(out, e)
	}
	return out
}

func (e *fakeEl) Find(_ context.Context, sel string) (Element, error) {
	return first(e.children[sel]), nil
}

func (e *fakeEl) FindAll(_ context.Context, sel string) ([]Element, error) {
	return all(e.children[sel]), nil
}

func (e *fakeEl) Preceding(_ context.Context, xpath string) (Element, error) {
	if p, ok := e.prev[xpath]; ok {
		return p, nil
	}
	return nil, nil
}

func (e *fakeEl) Text(context.Context) (string, error) { return e.text, nil }

func (e *fakeEl) Attribute(_ context.Context, name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeEl) Value(context.Context) (string, error) { return e.value, e.valueErr }

func (e *fakeEl) Checked(context.Context) (bool, error) { return e.checked, nil }

func (e *fakeEl) Click(context.Context) error {
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeEl) Type(_ context.Context, text string) error {
	e.typed = append(e.typed, text)
	e.value += text
	return nil
}

func (e *fakeEl) Submit(context.Context) error {
	e.submits++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

// fakePage answers page-level lookups from a selector table that tests
// mutate from click handlers.
type fakePage struct {
	els       map[string][]*fakeEl
	url       string
	title     string
	navigated []string
}

func newPage() *fakePage { return &fakePage{els: map[string][]*fakeEl{}} }

func (p *fakePage) set(sel string, els ...*fakeEl) *fakePage {
	p.els[sel] = els
	return p
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *fakePage) URL(context.Context) (string, error)   { return p.url, nil }
func (p *fakePage) Title(context.Context) (string, error) { return p.title, nil }

func (p *fakePage) WaitFor(ctx context.Context, sel string, _ time.Duration) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return first(p.els[sel]), nil
}

func (p *fakePage) Find(_ context.Context, sel string) (Element, error) {
	return first(p.els[sel]), nil
}

func (p *fakePage) FindAll(_ context.Context, sel string) ([]Element, error) {
	return all(p.els[sel]), nil
}

// fakeRecorder keeps everything in memory.
type fakeRecorder struct {
	mu         sync.Mutex
	answered   []domain.Question
	unprepared []domain.Question
	attempts   []*domain.Attempt
}

func (r *fakeRecorder) RecordAnswered(_ context.Context, _ *domain.Job, q domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answered = append(r.answered, q)
	return nil
}

func (r *fakeRecorder) RecordUnprepared(_ context.Context, _ *domain.Job, q domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unprepared = append(r.unprepared, q)
	return nil
}

func (r *fakeRecorder) RecordAttempt(_ context.Context, a *domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
	return nil
}

var errBoom = errors.New("boom")

func testBasics() answers.Basics {
	return answers.Basics{
		answers.KeyFirstName:         "Ada",
		answers.KeyLastName:          "Lovelace",
		answers.KeyMobilePhoneNumber: "555-1234",
		answers.KeyEmailAddress:      "ada@example.com",
		answers.KeyCity:              "London",
		answers.KeyExperience:        map[string]any{"3": []any{"python", "django"}},
		answers.KeyDefaultExperience: "1",
	}
}

func testRunContext(kb answers.Provider, rec Recorder, testMode bool) *RunContext {
	rc := NewRunContext(uuid.Nil, kb, rec, config.Timing{}, testMode, 0)
	rc.BaseURL = "https://jobs.test"
	return rc
}

func testJob() *domain.Job {
	return &domain.Job{JobID: "42", Title: "Engineer", Company: "Acme"}
}

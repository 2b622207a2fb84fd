package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"easy-apply/internal/answers"
	"easy-apply/internal/domain"
)

// placeholder values of an unanswered select.
var selectPlaceholders = map[string]bool{"": true, "Select an option": true}

// personalFields maps exact question labels to basic answer keys.
var personalFields = map[string]string{
	"first name":          answers.KeyFirstName,
	"last name":           answers.KeyLastName,
	"mobile phone number": answers.KeyMobilePhoneNumber,
	"email address":       answers.KeyEmailAddress,
	"city":                answers.KeyCity,
}

// Filler classifies the field groupings of a wizard step and answers them
// from the knowledge base.
type Filler struct {
	rc *RunContext
}

func NewFiller(rc *RunContext) *Filler {
	return &Filler{rc: rc}
}

type classifier struct {
	kind domain.QuestionKind
	try  func(context.Context, *domain.Job, Element) (*domain.Question, error)
}

// FillSection handles one form section of the current step: resume selection
// first, then every question grouping. Failures stay inside their grouping;
// only setup errors and the end of ctx are returned.
func (f *Filler) FillSection(ctx context.Context, job *domain.Job, section Element) error {
	if err := f.selectResume(ctx, section); err != nil {
		if isFatal(ctx, err) {
			return err
		}
		f.logFillError(job, &StepFillError{Stage: "resume", Err: err})
	}

	groupings, err := section.FindAll(ctx, selGrouping)
	if err != nil {
		if isFatal(ctx, err) {
			return err
		}
		f.logFillError(job, &StepFillError{Stage: "groupings", Err: err})
		return nil
	}
	for _, g := range groupings {
		if _, err := f.FillGrouping(ctx, job, g); err != nil {
			return err
		}
	}
	return nil
}

// FillGrouping classifies one grouping, radio before dropdown before text,
// and returns the question it resolved to. A nil question means no pattern
// matched. A classifier that fails before resolving a question is logged and
// the next one is tried; once a question is resolved the grouping is done,
// even when recording it fails.
func (f *Filler) FillGrouping(ctx context.Context, job *domain.Job, g Element) (*domain.Question, error) {
	classifiers := []classifier{
		{domain.KindRadio, f.tryRadio},
		{domain.KindDropdown, f.tryDropdown},
		{domain.KindText, f.tryText},
	}
	for _, c := range classifiers {
		q, err := c.try(ctx, job, g)
		if err != nil {
			err = asSetup(err)
			if isFatal(ctx, err) {
				return nil, err
			}
			stage := strings.ToLower(string(c.kind))
			if q != nil {
				stage = "record " + stage
			}
			f.logFillError(job, &StepFillError{Stage: stage, Err: err})
		}
		if q != nil {
			return q, nil
		}
	}
	return nil, nil
}

func (f *Filler) tryRadio(ctx context.Context, job *domain.Job, g Element) (*domain.Question, error) {
	label, err := g.Find(ctx, selRadioLabel)
	if err != nil {
		return nil, err
	}
	radios, err := g.FindAll(ctx, selRadioInputs)
	if err != nil {
		return nil, err
	}
	if label == nil || len(radios) == 0 {
		return nil, nil
	}
	text, err := label.Text(ctx)
	if err != nil {
		return nil, err
	}

	q := &domain.Question{Text: domain.NormalizeQuestion(text), Kind: domain.KindRadio}
	selected := ""
	for _, r := range radios {
		v, err := r.Value(ctx)
		if err != nil {
			return nil, err
		}
		q.Options = append(q.Options, v)
		checked, err := r.Checked(ctx)
		if err != nil {
			return nil, err
		}
		if checked {
			selected = v
		}
	}

	if selected != "" {
		q.State, q.Value = domain.AlreadyAnswered, selected
		return q, f.rc.Recorder.RecordAnswered(ctx, job, *q)
	}
	q.State = domain.Unprepared
	return q, f.rc.Recorder.RecordUnprepared(ctx, job, *q)
}

func (f *Filler) tryDropdown(ctx context.Context, job *domain.Job, g Element) (*domain.Question, error) {
	formEl, err := g.Find(ctx, selFormElement)
	if err != nil {
		return nil, err
	}
	dropdown, err := g.Find(ctx, selSelect)
	if err != nil {
		return nil, err
	}
	if formEl == nil || dropdown == nil {
		return nil, nil
	}

	label, err := firstOf(ctx,
		func(ctx context.Context) (Element, error) { return formEl.Find(ctx, selSelectLabel) },
		func(ctx context.Context) (Element, error) { return g.Preceding(ctx, xpathGroupTitle) },
	)
	if err != nil {
		return nil, err
	}
	if label == nil {
		return nil, errors.New("dropdown has no label")
	}
	text, err := label.Text(ctx)
	if err != nil {
		return nil, err
	}
	value, err := dropdown.Value(ctx)
	if err != nil {
		return nil, err
	}

	q := &domain.Question{Text: domain.NormalizeQuestion(text), Kind: domain.KindDropdown}
	if !selectPlaceholders[value] {
		q.State, q.Value = domain.AlreadyAnswered, value
		return q, f.rc.Recorder.RecordAnswered(ctx, job, *q)
	}

	opts, err := dropdown.FindAll(ctx, selOption)
	if err != nil {
		return nil, err
	}
	for _, o := range opts {
		v, err := o.Value(ctx)
		if err != nil {
			return nil, err
		}
		if selectPlaceholders[v] {
			continue
		}
		t, err := o.Text(ctx)
		if err != nil {
			return nil, err
		}
		q.Options = append(q.Options, strings.TrimSpace(t))
	}
	q.State = domain.Unprepared
	return q, f.rc.Recorder.RecordUnprepared(ctx, job, *q)
}

func (f *Filler) tryText(ctx context.Context, job *domain.Job, g Element) (*domain.Question, error) {
	label, err := f.textLabel(ctx, g)
	if err != nil {
		return nil, err
	}
	field, err := firstOf(ctx,
		func(ctx context.Context) (Element, error) { return g.Find(ctx, selTextInput) },
		func(ctx context.Context) (Element, error) { return g.Find(ctx, selTextArea) },
	)
	if err != nil {
		return nil, err
	}
	if label == nil || field == nil {
		return nil, nil
	}
	text, err := label.Text(ctx)
	if err != nil {
		return nil, err
	}
	value, err := field.Value(ctx)
	if err != nil {
		return nil, err
	}

	q := &domain.Question{Text: domain.NormalizeQuestion(text), Kind: domain.KindText}
	if value != "" {
		q.State, q.Value = domain.AlreadyAnswered, value
		return q, f.rc.Recorder.RecordAnswered(ctx, job, *q)
	}

	answer, err := f.resolveText(ctx, q.Text)
	if err != nil {
		return nil, err
	}
	if answer == "" {
		q.State = domain.Unprepared
		return q, f.rc.Recorder.RecordUnprepared(ctx, job, *q)
	}
	if err := field.Type(ctx, answer); err != nil {
		return nil, fmt.Errorf("enter answer for %q: %w", q.Text, err)
	}
	q.State, q.Value = domain.AnsweredNow, answer
	return q, f.rc.Recorder.RecordAnswered(ctx, job, *q)
}

// textLabel finds the label of a text grouping: the associated label, its
// inner marker span when present, else the nearest preceding group title.
func (f *Filler) textLabel(ctx context.Context, g Element) (Element, error) {
	label, err := g.Find(ctx, selLabel)
	if err != nil {
		return nil, err
	}
	if label != nil {
		marker, err := label.Find(ctx, selLabelMarker)
		if err != nil {
			return nil, err
		}
		if marker != nil {
			return marker, nil
		}
		return label, nil
	}
	return g.Preceding(ctx, xpathGroupTitle)
}

// resolveText answers a free-text question. An empty result means the
// question is unprepared.
func (f *Filler) resolveText(ctx context.Context, question string) (string, error) {
	kb := f.rc.Answers
	if strings.Contains(question, "years of experience") || strings.Contains(question, "work experience") {
		table, err := kb.Experience()
		if err != nil {
			return "", err
		}
		for _, e := range table {
			if e.Years == "" {
				continue
			}
			for _, skill := range e.Skills {
				if skill != "" && strings.Contains(question, strings.ToLower(skill)) {
					return e.Years, nil
				}
			}
		}
		return kb.BasicAnswer(answers.KeyDefaultExperience)
	}

	if key, ok := personalFields[question]; ok {
		v, err := kb.BasicAnswer(key)
		if err != nil || v != "" {
			return v, err
		}
	}

	a, ok, err := kb.Answer(ctx, question, nil)
	if err != nil || !ok {
		return "", err
	}
	return a, nil
}

// selectResume picks an already uploaded resume when the section asks for
// one. Uploading from disk and cover letters are left to the user.
func (f *Filler) selectResume(ctx context.Context, section Element) error {
	input, err := section.Find(ctx, selFileInput)
	if err != nil || input == nil {
		return err
	}
	label, err := firstOf(ctx,
		func(ctx context.Context) (Element, error) { return section.Find(ctx, selUploadLabel) },
		func(ctx context.Context) (Element, error) { return section.Find(ctx, selLabel) },
	)
	if err != nil || label == nil {
		return err
	}
	text, err := label.Text(ctx)
	if err != nil {
		return err
	}
	text = strings.ToLower(text)

	switch {
	case strings.Contains(text, "resume"):
		checked, err := section.Find(ctx, selResumeChecked)
		if err != nil || checked != nil {
			return err
		}
		uploaded, err := section.FindAll(ctx, selUploadedResume)
		if err != nil {
			return err
		}
		if len(uploaded) == 0 {
			slog.Info("no uploaded resume to select, leaving upload to the user", "run_id", f.rc.RunID)
			return nil
		}
		return uploaded[0].Click(ctx)
	case strings.Contains(text, "cover letter"):
		slog.Info("cover letter upload left to the user", "run_id", f.rc.RunID)
	}
	return nil
}

func (f *Filler) logFillError(job *domain.Job, err error) {
	slog.Warn("field grouping skipped", "run_id", f.rc.RunID, "job_id", job.JobID, "error", err)
}

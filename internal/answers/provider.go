// Package answers holds the knowledge base the form filler reads from: the
// basic profile answers of the config file and previously recorded
// question/answer pairs.
package answers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"easy-apply/internal/domain"

	"gopkg.in/yaml.v3"
)

// ErrMissingKey marks a basic answer that the config does not define.
var ErrMissingKey = errors.New("missing configuration key")

// Basic answer keys understood by the form filler.
const (
	KeyFirstName         = "first_name"
	KeyLastName          = "last_name"
	KeyMobilePhoneNumber = "mobile_phone_number"
	KeyEmailAddress      = "email_address"
	KeyCity              = "city"
	KeyExperience        = "experience"
	KeyDefaultExperience = "default_experience"
)

// RequiredKeys lists the keys a run cannot start without.
var RequiredKeys = []string{
	KeyFirstName, KeyLastName, KeyMobilePhoneNumber, KeyEmailAddress,
	KeyCity, KeyExperience, KeyDefaultExperience,
}

// Provider is the read side of the knowledge base.
type Provider interface {
	BasicAnswer(key string) (string, error)
	Experience() ([]Experience, error)
	// Answer looks up a recorded answer. A nil options slice selects TEXT
	// entries; otherwise only choice entries with the same option set match.
	// No match is reported as ok == false, not as an error.
	Answer(ctx context.Context, question string, options []string) (answer string, ok bool, err error)
}

// Experience maps a number of years to the skills it applies to.
type Experience struct {
	Years  string   `yaml:"years" json:"years"`
	Skills []string `yaml:"skills" json:"skills"`
}

// Entry is one recorded question/answer pair.
type Entry struct {
	Question string              `json:"question"`
	Type     domain.QuestionKind `json:"type"`
	Options  []string            `json:"options,omitempty"`
	Answer   string              `json:"answer"`
}

// Basics is the basic_questions table of the config file.
type Basics map[string]any

func (b Basics) BasicAnswer(key string) (string, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case int, int64, float64, bool:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("basic answer %q is not a scalar (%T)", key, v)
	}
}

// Experience decodes the experience table. Both the ordered list form
// ([{years, skills}]) and the map form ({"3": [skills]}) are accepted; the
// map form is ordered by ascending years.
func (b Basics) Experience() ([]Experience, error) {
	raw, ok := b[KeyExperience]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingKey, KeyExperience)
	}
	buf, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode experience: %w", err)
	}

	var list []Experience
	if err := yaml.Unmarshal(buf, &list); err == nil {
		return list, nil
	}

	var byYears map[string][]string
	if err := yaml.Unmarshal(buf, &byYears); err != nil {
		return nil, fmt.Errorf("experience must be a list of {years, skills} or a map of years to skills: %w", err)
	}
	out := make([]Experience, 0, len(byYears))
	for years, skills := range byYears {
		out = append(out, Experience{Years: years, Skills: skills})
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i].Years)
		c, errC := strconv.Atoi(out[j].Years)
		if errA != nil || errC != nil {
			return out[i].Years < out[j].Years
		}
		return a < c
	})
	return out, nil
}

// CheckRequired reports the first required key that is missing.
func CheckRequired(p Provider) error {
	for _, k := range RequiredKeys {
		if k == KeyExperience {
			if _, err := p.Experience(); err != nil {
				return err
			}
			continue
		}
		if _, err := p.BasicAnswer(k); err != nil {
			return err
		}
	}
	return nil
}

// match returns the answer of the last entry matching question and options.
func match(entries []Entry, question string, options []string) (string, bool) {
	q := domain.NormalizeQuestion(question)
	answer, found := "", false
	for _, e := range entries {
		if domain.NormalizeQuestion(e.Question) != q {
			continue
		}
		if options == nil {
			if e.Type != domain.KindText {
				continue
			}
		} else if !e.Type.IsChoice() || !domain.SameOptionSet(e.Options, options) {
			continue
		}
		answer, found = e.Answer, true
	}
	return answer, found
}

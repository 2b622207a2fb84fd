package domain

import "strings"

type QuestionKind string

const (
	KindText     QuestionKind = "TEXT"
	KindDropdown QuestionKind = "DROPDOWN"
	KindRadio    QuestionKind = "RADIO"
	KindFile     QuestionKind = "FILE"
)

// IsChoice reports whether answers for the kind are keyed by an option set.
func (k QuestionKind) IsChoice() bool {
	return k == KindDropdown || k == KindRadio
}

type AnswerState string

const (
	AlreadyAnswered AnswerState = "ALREADY_ANSWERED"
	AnsweredNow     AnswerState = "ANSWERED_NOW"
	Unprepared      AnswerState = "UNPREPARED"
)

// Question is a single form field seen during one wizard step.
type Question struct {
	Text    string       `json:"question"`
	Kind    QuestionKind `json:"type"`
	Options []string     `json:"options,omitempty"`
	State   AnswerState  `json:"state"`
	Value   string       `json:"value,omitempty"`
}

// NormalizeQuestion lower-cases and trims label text so lookups compare
// labels the same way regardless of page formatting.
func NormalizeQuestion(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameOptionSet compares two option lists as sets.
func SameOptionSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, o := range a {
		as[o] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, o := range b {
		if _, ok := as[o]; !ok {
			return false
		}
		bs[o] = struct{}{}
	}
	return len(as) == len(bs)
}

package answers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"easy-apply/internal/model"
)

// JSONProvider serves recorded answers from a questions.json file.
type JSONProvider struct {
	Basics
	entries []Entry
}

func NewJSONProvider(basics Basics, entries []Entry) *JSONProvider {
	return &JSONProvider{Basics: basics, entries: entries}
}

// LoadJSONProvider reads and validates the recorded answers file.
func LoadJSONProvider(basics Basics, path string) (*JSONProvider, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers file: %w", err)
	}
	if err := model.ValidateQuestions(b); err != nil {
		return nil, fmt.Errorf("answers file %s: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("decode answers file: %w", err)
	}
	return NewJSONProvider(basics, entries), nil
}

func (p *JSONProvider) Answer(_ context.Context, question string, options []string) (string, bool, error) {
	a, ok := match(p.entries, question, options)
	return a, ok, nil
}

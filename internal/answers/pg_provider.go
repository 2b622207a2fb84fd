package answers

import (
	"context"
	"encoding/json"
	"fmt"

	"easy-apply/internal/domain"

	"github.com/jackc/pgx/v4"
)

// Querier is the subset of *pgxpool.Pool the provider needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PGProvider serves recorded answers from the recorded_answers table.
type PGProvider struct {
	Basics
	db Querier
}

func NewPGProvider(basics Basics, db Querier) *PGProvider {
	return &PGProvider{Basics: basics, db: db}
}

func (p *PGProvider) Answer(ctx context.Context, question string, options []string) (string, bool, error) {
	rows, err := p.db.Query(ctx,
		`SELECT question, type, coalesce(options, '[]'::jsonb), answer FROM recorded_answers WHERE lower(trim(question)) = $1 ORDER BY id`,
		domain.NormalizeQuestion(question))
	if err != nil {
		return "", false, fmt.Errorf("query recorded answers: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e    Entry
			kind string
			opts []byte
		)
		if err := rows.Scan(&e.Question, &kind, &opts, &e.Answer); err != nil {
			return "", false, fmt.Errorf("scan recorded answer: %w", err)
		}
		e.Type = domain.QuestionKind(kind)
		if err := json.Unmarshal(opts, &e.Options); err != nil {
			return "", false, fmt.Errorf("decode options of %q: %w", e.Question, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}

	a, ok := match(entries, question, options)
	return a, ok, nil
}

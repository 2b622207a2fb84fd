package repository

import (
	"context"
	"encoding/json"

	"easy-apply/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// queryJSON runs a SQL that returns a single json value and unmarshals it
// into out.
func queryJSON(ctx context.Context, pool *pgxpool.Pool, out interface{}, sql string, args ...interface{}) error {
	var raw []byte
	if err := pool.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Unprepared lists every unprepared question in recording order.
func (r *AttemptsRepo) Unprepared(ctx context.Context) ([]domain.UnpreparedQuestion, error) {
	out := []domain.UnpreparedQuestion{}
	if r.pool == nil {
		return out, nil
	}
	err := queryJSON(ctx, r.pool, &out, `SELECT coalesce(json_agg(json_strip_nulls(json_build_object(
			'job', u.job_id, 'question', u.question, 'type', u.type, 'options', u.options)) ORDER BY u.id), '[]')
		FROM unprepared_questions u`)
	return out, err
}

// Attempts lists the application attempts with the job details recorded at
// the time of each attempt.
func (r *AttemptsRepo) Attempts(ctx context.Context) ([]AttemptRow, error) {
	out := []AttemptRow{}
	if r.pool == nil {
		return out, nil
	}
	err := queryJSON(ctx, r.pool, &out, attemptsReportSQL)
	return out, err
}

const attemptsReportSQL = `SELECT coalesce(json_agg(json_build_object(
		'application_date', to_char(a.created_at, 'YYYY-MM-DD'),
		'job_id', a.job_id, 'job_role', a.job_role, 'company', a.company,
		'location', a.location, 'applicants', a.applicants,
		'status', a.status, 'reason', a.reason) ORDER BY a.created_at), '[]')
	FROM application_attempts a`

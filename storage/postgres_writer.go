package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"furniture-survey-analysis/models"
	"furniture-survey-analysis/utils"
)

// PostgresWriter persists the derived numeric feature rows to PostgreSQL so
// downstream analyses can read them back from the database.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter. The ping is retried with
// exponential backoff.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS survey_features (
			id                   SERIAL PRIMARY KEY,
			age_numeric          NUMERIC(8,2)  NOT NULL DEFAULT 0,
			income_numeric       NUMERIC(12,2) NOT NULL DEFAULT 0,
			familiarity_score    NUMERIC(4,2)  NOT NULL DEFAULT 0,
			recommendation_score NUMERIC(4,2)  NOT NULL DEFAULT 0,
			created_at           TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_survey_features_income ON survey_features(income_numeric);
		CREATE INDEX IF NOT EXISTS idx_survey_features_age    ON survey_features(age_numeric);
	`)
	return err
}

// Clear deletes all existing feature rows.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM survey_features")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts all feature rows, clearing old data first.
func (pw *PostgresWriter) Write(rows []*models.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.FeatureRow) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*4)

	for idx, r := range batch {
		base := idx * 4
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		valueArgs = append(valueArgs, r.Age, r.Income, r.Familiarity, r.Recommendation)
	}

	query := fmt.Sprintf(`
		INSERT INTO survey_features (age_numeric, income_numeric, familiarity_score, recommendation_score)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// FetchAll retrieves all stored feature rows in insertion order.
func (pw *PostgresWriter) FetchAll() ([]*models.FeatureRow, error) {
	rows, err := pw.db.Query(`
		SELECT id, age_numeric, income_numeric, familiarity_score, recommendation_score, created_at
		FROM survey_features
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var features []*models.FeatureRow
	for rows.Next() {
		r := &models.FeatureRow{}
		if err := rows.Scan(
			&r.ID, &r.Age, &r.Income, &r.Familiarity, &r.Recommendation, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		features = append(features, r)
	}
	return features, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

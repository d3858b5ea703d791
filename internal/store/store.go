// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists completed evaluation runs to a SQLite archive.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/review-panel/internal/report"
	"github.com/pdiddy/review-panel/pkg/types"
)

// Store manages the evaluation archive SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			topic_count INTEGER NOT NULL,
			correlation REAL,
			valid_comparisons INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS topics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			topic TEXT NOT NULL,
			mean REAL,
			stddev REAL,
			min_score INTEGER,
			max_score INTEGER,
			composite REAL,
			entities TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS persona_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic_id INTEGER NOT NULL REFERENCES topics(id),
			role TEXT NOT NULL,
			score INTEGER,
			score_tier TEXT,
			analysis TEXT,
			dimension_scores TEXT,
			background_used INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_topics_run_id ON topics(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_persona_results_topic_id ON persona_results(topic_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// RunSummary is one row of the archive listing.
type RunSummary struct {
	ID          int64
	CreatedAt   time.Time
	TopicCount  int
	Correlation *float64
}

// Run is a fully loaded archived run.
type Run struct {
	RunSummary
	ValidComparisons *int
	Evaluations      []types.TopicEvaluation
	Composites       map[string]float64
}

// Save archives a completed run and returns its assigned id.
func (s *Store) Save(ctx context.Context, evals []types.TopicEvaluation, weights map[string]float64, corr *report.CorrelationResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var coefficient, comparisons interface{}
	if corr != nil {
		coefficient = corr.Coefficient
		comparisons = corr.ValidComparisons
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, topic_count, correlation, valid_comparisons) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), len(evals), coefficient, comparisons,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	resultStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO persona_results (topic_id, role, score, score_tier, analysis, dimension_scores, background_used)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing result insert: %w", err)
	}
	defer resultStmt.Close()

	for _, eval := range evals {
		var entitiesJSON []byte
		if eval.Background != nil {
			entitiesJSON, _ = json.Marshal(eval.Background.Entities)
		}

		topicRes, err := tx.ExecContext(ctx,
			`INSERT INTO topics (run_id, topic, mean, stddev, min_score, max_score, composite, entities)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, eval.Topic,
			nullFloat(eval.Stats.Mean), nullFloat(eval.Stats.StdDev),
			nullInt(eval.Stats.Min), nullInt(eval.Stats.Max),
			report.WeightedComposite(eval.Results, weights), string(entitiesJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting topic %q: %w", eval.Topic, err)
		}
		topicID, err := topicRes.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading topic id: %w", err)
		}

		for _, r := range eval.Results {
			dimJSON, _ := json.Marshal(r.DimensionScores)
			_, err := resultStmt.ExecContext(ctx,
				topicID, r.Role, nullInt(r.Score), string(r.ScoreTier),
				r.Analysis, string(dimJSON), r.BackgroundUsed,
			)
			if err != nil {
				return 0, fmt.Errorf("inserting result %s/%s: %w", eval.Topic, r.Role, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// List returns archived run summaries, newest first.
func (s *Store) List(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, topic_count, correlation FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var summary RunSummary
		var createdAt string
		var correlation sql.NullFloat64
		if err := rows.Scan(&summary.ID, &createdAt, &summary.TopicCount, &correlation); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		summary.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if correlation.Valid {
			summary.Correlation = &correlation.Float64
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Show loads one archived run with all topic and persona detail.
func (s *Store) Show(ctx context.Context, id int64) (*Run, error) {
	run := &Run{Composites: make(map[string]float64)}

	var createdAt string
	var correlation sql.NullFloat64
	var comparisons sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, topic_count, correlation, valid_comparisons FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &createdAt, &run.TopicCount, &correlation, &comparisons)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", id, err)
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if correlation.Valid {
		run.Correlation = &correlation.Float64
	}
	if comparisons.Valid {
		v := int(comparisons.Int64)
		run.ValidComparisons = &v
	}

	topicRows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, mean, stddev, min_score, max_score, composite, entities
		 FROM topics WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer topicRows.Close()

	type topicRow struct {
		id   int64
		eval types.TopicEvaluation
	}
	var topics []topicRow
	for topicRows.Next() {
		var row topicRow
		var mean, stddev sql.NullFloat64
		var minScore, maxScore sql.NullInt64
		var composite float64
		var entitiesJSON sql.NullString
		if err := topicRows.Scan(&row.id, &row.eval.Topic, &mean, &stddev, &minScore, &maxScore, &composite, &entitiesJSON); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		if mean.Valid {
			row.eval.Stats.Mean = &mean.Float64
		}
		if stddev.Valid {
			row.eval.Stats.StdDev = &stddev.Float64
		}
		if minScore.Valid {
			v := int(minScore.Int64)
			row.eval.Stats.Min = &v
		}
		if maxScore.Valid {
			v := int(maxScore.Int64)
			row.eval.Stats.Max = &v
		}
		if entitiesJSON.Valid && entitiesJSON.String != "" {
			var entities []string
			if json.Unmarshal([]byte(entitiesJSON.String), &entities) == nil && len(entities) > 0 {
				row.eval.Background = &types.TopicBackground{Entities: entities}
			}
		}
		row.eval.Results = make(map[string]types.PersonaResult)
		run.Composites[row.eval.Topic] = composite
		topics = append(topics, row)
	}
	if err := topicRows.Err(); err != nil {
		return nil, err
	}

	for i := range topics {
		if err := s.loadResults(ctx, &topics[i].eval, topics[i].id); err != nil {
			return nil, err
		}
		run.Evaluations = append(run.Evaluations, topics[i].eval)
	}

	return run, nil
}

func (s *Store) loadResults(ctx context.Context, eval *types.TopicEvaluation, topicID int64) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, score, score_tier, analysis, dimension_scores, background_used
		 FROM persona_results WHERE topic_id = ? ORDER BY role`, topicID)
	if err != nil {
		return fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r := types.PersonaResult{Topic: eval.Topic}
		var score sql.NullInt64
		var tier string
		var dimJSON sql.NullString
		if err := rows.Scan(&r.Role, &score, &tier, &r.Analysis, &dimJSON, &r.BackgroundUsed); err != nil {
			return fmt.Errorf("scanning result: %w", err)
		}
		if score.Valid {
			v := int(score.Int64)
			r.Score = &v
			eval.Stats.Valid++
		}
		r.ScoreTier = types.ScoreTier(tier)
		if dimJSON.Valid && dimJSON.String != "" && dimJSON.String != "null" {
			_ = json.Unmarshal([]byte(dimJSON.String), &r.DimensionScores)
		}
		eval.Results[r.Role] = r
		eval.Stats.Total++
	}
	return rows.Err()
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

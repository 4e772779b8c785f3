package resultstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/echolabs-ai/stt-bench/internal/config"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Sample is one audio sample drawn from the dataset.
type Sample struct {
	SampleID        string
	AudioPath       string
	DurationSeconds float64
	Language        string
	DatasetIndex    int
}

// GroundTruth is the reference transcription for a sample.
type GroundTruth struct {
	SampleID     string
	Text         string
	ModelUsed    string
	VerifiedBy   string
	OriginalText string
	GeneratedAt  time.Time
}

// Result is one transcription attempt by one service against one sample.
type Result struct {
	ID                   int64
	SampleID             string
	ServiceName          string
	ModelName            string
	TTFBSeconds          *float64
	Transcription        string
	AudioDurationSeconds float64
	Error                string
	CreatedAt            time.Time
}

// Run records the metadata of one benchmark invocation.
type Run struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time
	Services    []string
	NumSamples  int
}

// TranscriptRow is one exported (audio_path, target, prediction) triple.
type TranscriptRow struct {
	AudioPath  string
	Target     string
	Prediction string
}

// Store wraps the SQLite-backed benchmark results database.
type Store struct {
	db    *sql.DB
	log   *slog.Logger
	clock func() time.Time
}

// Open initializes the results database, creating the schema if needed.
func Open(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (*Store, error) {
	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, log: log, clock: time.Now}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.VacuumOnStart {
		if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
			log.Warn("results store vacuum failed", slog.String("error", err.Error()))
		}
	}

	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS samples (
    sample_id TEXT PRIMARY KEY,
    audio_path TEXT NOT NULL,
    duration_seconds REAL NOT NULL,
    language TEXT NOT NULL DEFAULT 'eng',
    dataset_index INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS ground_truth (
    sample_id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    model_used TEXT,
    verified_by TEXT,
    original_text TEXT,
    generated_at TIMESTAMP NOT NULL,
    FOREIGN KEY(sample_id) REFERENCES samples(sample_id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sample_id TEXT NOT NULL,
    service_name TEXT NOT NULL,
    model_name TEXT,
    ttfb_seconds REAL,
    transcription TEXT,
    audio_duration_seconds REAL,
    error TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY(sample_id) REFERENCES samples(sample_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_results_service ON results(service_name, sample_id);
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL,
    completed_at TIMESTAMP,
    services TEXT,
    num_samples INTEGER
);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AddSample inserts or replaces a dataset sample.
func (s *Store) AddSample(ctx context.Context, smp Sample) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO samples(sample_id, audio_path, duration_seconds, language, dataset_index)
		 VALUES(?, ?, ?, ?, ?)
		 ON CONFLICT(sample_id) DO UPDATE SET
		   audio_path=excluded.audio_path,
		   duration_seconds=excluded.duration_seconds,
		   language=excluded.language,
		   dataset_index=excluded.dataset_index`,
		smp.SampleID, smp.AudioPath, smp.DurationSeconds, smp.Language, smp.DatasetIndex)
	return err
}

// UpsertGroundTruth writes the reference transcription for a sample.
func (s *Store) UpsertGroundTruth(ctx context.Context, gt GroundTruth) error {
	if gt.GeneratedAt.IsZero() {
		gt.GeneratedAt = s.clock().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ground_truth(sample_id, text, model_used, verified_by, original_text, generated_at)
		 VALUES(?, ?, ?, ?, ?, ?)
		 ON CONFLICT(sample_id) DO UPDATE SET
		   text=excluded.text,
		   model_used=excluded.model_used,
		   verified_by=excluded.verified_by,
		   original_text=excluded.original_text,
		   generated_at=excluded.generated_at`,
		gt.SampleID, gt.Text, gt.ModelUsed, gt.VerifiedBy, gt.OriginalText, gt.GeneratedAt)
	return err
}

// AddResult appends one transcription result.
func (s *Store) AddResult(ctx context.Context, res Result) error {
	if res.CreatedAt.IsZero() {
		res.CreatedAt = s.clock().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results(sample_id, service_name, model_name, ttfb_seconds, transcription, audio_duration_seconds, error, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		res.SampleID, res.ServiceName, res.ModelName, res.TTFBSeconds, res.Transcription,
		res.AudioDurationSeconds, res.Error, res.CreatedAt)
	return err
}

// BeginRun records run metadata and returns the generated run ID.
func (s *Store) BeginRun(ctx context.Context, services []string, numSamples int) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(run_id, started_at, services, num_samples) VALUES(?, ?, ?, ?)`,
		runID, s.clock().UTC(), strings.Join(services, ","), numSamples)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return runID, nil
}

// CompleteRun stamps the completion time of a run.
func (s *Store) CompleteRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET completed_at = ? WHERE run_id = ?`, s.clock().UTC(), runID)
	return err
}

// ListSamples returns all samples ordered by their dataset index.
func (s *Store) ListSamples(ctx context.Context) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sample_id, audio_path, duration_seconds, language, dataset_index
		 FROM samples ORDER BY dataset_index ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var smp Sample
		if err := rows.Scan(&smp.SampleID, &smp.AudioPath, &smp.DurationSeconds, &smp.Language, &smp.DatasetIndex); err != nil {
			return nil, err
		}
		samples = append(samples, smp)
	}
	return samples, rows.Err()
}

// ExportTranscripts joins samples, ground truth and results for one service,
// skipping rows without a transcription, ordered by dataset index.
func (s *Store) ExportTranscripts(ctx context.Context, service string) ([]TranscriptRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.audio_path, g.text, r.transcription
		 FROM results r
		 JOIN samples s ON r.sample_id = s.sample_id
		 JOIN ground_truth g ON r.sample_id = g.sample_id
		 WHERE r.service_name = ?
		   AND r.transcription IS NOT NULL
		   AND r.transcription != ''
		 ORDER BY s.dataset_index`, service)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TranscriptRow
	for rows.Next() {
		var tr TranscriptRow
		if err := rows.Scan(&tr.AudioPath, &tr.Target, &tr.Prediction); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// TTFBs returns the recorded time-to-first-byte latencies for one service,
// paired with each sample's audio duration, for aggregate statistics.
func (s *Store) TTFBs(ctx context.Context, service string) (ttfbs, durations []float64, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ttfb_seconds, audio_duration_seconds
		 FROM results
		 WHERE service_name = ? AND ttfb_seconds IS NOT NULL AND error = ''
		 ORDER BY id`, service)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ttfb, dur float64
		if err := rows.Scan(&ttfb, &dur); err != nil {
			return nil, nil, err
		}
		ttfbs = append(ttfbs, ttfb)
		durations = append(durations, dur)
	}
	return ttfbs, durations, rows.Err()
}

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"framescan/internal/config"
)

// ErrAmbiguousID is returned when a run id prefix matches more than one run.
var ErrAmbiguousID = errors.New("run id prefix is ambiguous")

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the history database configured in cfg.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("history requires config")
	}
	return OpenPath(cfg.Paths.HistoryDB)
}

// OpenPath opens the database at dbPath, creating it and its schema when
// missing.
func OpenPath(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin inserts a running run and returns its generated id.
func (s *Store) Begin(ctx context.Context, start RunStart) (string, error) {
	targets := start.Targets
	if targets == nil {
		targets = []string{}
	}
	targetsJSON, err := json.Marshal(targets)
	if err != nil {
		return "", fmt.Errorf("marshal targets: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (
            id, session_id, video_path, output_dir, targets_json,
            start_frame, end_frame, frame_rate, stride, status, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		nullableString(start.SessionID),
		start.VideoPath,
		nullableString(start.OutputDir),
		string(targetsJSON),
		start.StartFrame,
		start.EndFrame,
		start.FrameRate,
		start.Stride,
		StatusRunning,
		s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Finish records the outcome of a run.
func (s *Store) Finish(ctx context.Context, id string, result RunResult) error {
	var message string
	if result.Err != nil {
		message = result.Err.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs
         SET status = ?, samples = ?, match_count = ?, exhausted = ?, error_message = ?, finished_at = ?
         WHERE id = ?`,
		result.Status,
		result.Samples,
		result.Matches,
		boolToInt(result.Exhausted),
		nullableString(message),
		s.now().UTC().Format(timeLayout),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: unknown run %s", id)
	}
	return nil
}

// AddMatch appends a match event to a run.
func (s *Store) AddMatch(ctx context.Context, m Match) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (run_id, frame_index, timestamp_us, target, image_path, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		m.RunID,
		m.FrameIndex,
		m.Timestamp.Microseconds(),
		m.Target,
		nullableString(m.ImagePath),
		s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Get fetches a run by id or unique id prefix. It returns nil when nothing
// matches.
func (s *Store) Get(ctx context.Context, idOrPrefix string) (*Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, errors.New("run id is empty")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR substr(id, 1, ?) = ? LIMIT 2`,
		idOrPrefix, len(idOrPrefix), idOrPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
	}
}

// Matches returns the match events of a run in frame order.
func (s *Store) Matches(ctx context.Context, runID string) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, frame_index, timestamp_us, target, image_path, created_at
         FROM matches WHERE run_id = ? ORDER BY frame_index, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			m          Match
			micros     int64
			imagePath  sql.NullString
			createdRaw string
		)
		if err := rows.Scan(&m.ID, &m.RunID, &m.FrameIndex, &micros, &m.Target, &imagePath, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Timestamp = time.Duration(micros) * time.Microsecond
		m.ImagePath = imagePath.String
		if created, err := parseTimeString(createdRaw); err == nil {
			m.CreatedAt = created
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

const runColumns = "id, session_id, video_path, output_dir, targets_json, start_frame, end_frame, frame_rate, stride, status, samples, match_count, exhausted, error_message, started_at, finished_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		sessionID   sql.NullString
		outputDir   sql.NullString
		targetsJSON string
		statusStr   string
		exhausted   int64
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&sessionID,
		&run.VideoPath,
		&outputDir,
		&targetsJSON,
		&run.StartFrame,
		&run.EndFrame,
		&run.FrameRate,
		&run.Stride,
		&statusStr,
		&run.Samples,
		&run.Matches,
		&exhausted,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.SessionID = sessionID.String
	run.OutputDir = outputDir.String
	run.Status = statusFromString(statusStr)
	run.Exhausted = exhausted != 0
	run.ErrorMessage = errorMsg.String
	if err := json.Unmarshal([]byte(targetsJSON), &run.Targets); err != nil {
		return nil, fmt.Errorf("decode targets: %w", err)
	}
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

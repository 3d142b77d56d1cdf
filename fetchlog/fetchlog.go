// CLAUDE:SUMMARY SQLite tool-invocation log: non-blocking event writes, endpoint middleware, retention cleanup.
// Package fetchlog records tool invocations in a local SQLite database.
// Writes never block or fail a tool call; a broken log store degrades to
// slog warnings.
package fetchlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/getweb/dbopen"
	"github.com/hazyhaar/getweb/guard"
	"github.com/hazyhaar/getweb/idgen"
	"github.com/hazyhaar/getweb/kit"
)

// Schema is the DDL for the invocation log. Applied via Init or passed
// to dbopen.WithSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS tool_invocations (
    event_id TEXT PRIMARY KEY,
    tool TEXT NOT NULL,
    transport TEXT NOT NULL,
    request TEXT,
    status TEXT NOT NULL,
    error_code TEXT,
    duration_ms INTEGER NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_invocations_tool_time
    ON tool_invocations(tool, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_invocations_time
    ON tool_invocations(created_at DESC);
`

// Init applies the schema to the given database.
func Init(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Event is one recorded tool invocation.
type Event struct {
	Tool       string
	Transport  string
	Request    string // optional JSON
	Status     string // "ok" or "error"
	ErrorCode  string
	DurationMS int64
}

// Recorder writes invocation events.
type Recorder struct {
	db     *sql.DB
	newID  idgen.Generator
	logger *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithIDGenerator sets a custom ID generator for event IDs.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(r *Recorder) { r.newID = gen }
}

// WithLogger sets the logger used for degraded-store warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// New creates a Recorder backed by the given database.
func New(db *sql.DB, opts ...Option) *Recorder {
	r := &Recorder{
		db:     db,
		newID:  idgen.Prefixed("evt_", idgen.Default),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Record writes an event, retrying on lock contention. Errors are
// logged, never propagated.
func (r *Recorder) Record(ctx context.Context, event Event) {
	_, err := dbopen.Exec(ctx, r.db, `
		INSERT INTO tool_invocations (
			event_id, tool, transport, request, status, error_code, duration_ms, created_at
		) VALUES (?,?,?,?,?,?,?,?)`,
		r.newID(), event.Tool, event.Transport, event.Request,
		event.Status, event.ErrorCode, event.DurationMS, time.Now().Unix())
	if err != nil {
		r.logger.Warn("tool invocation log failed", "tool", event.Tool, "error", err)
	}
}

// Instrument returns a middleware recording every call to the named
// tool. The request payload lands in the log as JSON; failures carry
// the standardized error code when the error has one.
func (r *Recorder) Instrument(tool string) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			event := Event{
				Tool:       tool,
				Transport:  kit.GetTransport(ctx),
				Status:     "ok",
				DurationMS: time.Since(start).Milliseconds(),
			}
			if data, merr := json.Marshal(req); merr == nil {
				event.Request = string(data)
			}
			if err != nil {
				event.Status = "error"
				event.ErrorCode = guard.PayloadCode(err.Error())
			}

			// Logging happens off the request context so a cancelled call
			// still gets recorded.
			r.Record(context.WithoutCancel(ctx), event)
			return resp, err
		}
	}
}

// Cleanup deletes events older than the retention window, optionally
// compacting afterwards.
func Cleanup(ctx context.Context, db *sql.DB, retentionDays int, vacuum bool) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().Unix() - int64(retentionDays*86400)
	if _, err := dbopen.Exec(ctx, db, `DELETE FROM tool_invocations WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup tool_invocations: %w", err)
	}
	if vacuum {
		if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
			return fmt.Errorf("vacuum: %w", err)
		}
	}
	return nil
}

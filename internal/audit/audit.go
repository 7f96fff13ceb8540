// Package audit emits structured records for every security-filter
// application and PII-redaction decision made under an audit-required
// security context.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one audited governance decision.
type Record struct {
	ID       string    `json:"id"`
	Actor    string    `json:"actor"`
	Action   string    `json:"action"`
	Resource string    `json:"resource"`
	Success  bool      `json:"success"`
	At       time.Time `json:"at"`
}

// NewRecord stamps a record with an id and the current time.
func NewRecord(actor, action, resource string, success bool) Record {
	return Record{
		ID:       uuid.NewString(),
		Actor:    actor,
		Action:   action,
		Resource: resource,
		Success:  success,
		At:       time.Now().UTC(),
	}
}

// Recorder receives audit records. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// LogRecorder writes audit records to the structured log.
type LogRecorder struct {
	Logger *slog.Logger
}

func (r *LogRecorder) Record(_ context.Context, rec Record) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("audit",
		"audit_id", rec.ID,
		"actor", rec.Actor,
		"action", rec.Action,
		"resource", rec.Resource,
		"success", rec.Success,
		"at", rec.At,
	)
	return nil
}

// PGRecorder persists audit records to the audit_log table.
type PGRecorder struct {
	Pool *pgxpool.Pool
}

func (r *PGRecorder) Record(ctx context.Context, rec Record) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO audit_log (id, actor, action, resource, success, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Actor, rec.Action, rec.Resource, rec.Success, rec.At,
	)
	return err
}

// NopRecorder discards records; used when auditing is not required.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Record) error { return nil }

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	ic "irrigation_controller"

	"github.com/google/uuid"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite {
	return &RunSQLite{db: db}
}

const (
	insertRunSQL = `
		INSERT INTO schedule_runs (id, ran_at, rain_reading, rain_limit, policy, active, skipped, zones)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectLatestRunSQL = `
		SELECT id, ran_at, rain_reading, rain_limit, policy, active, skipped, zones
		FROM schedule_runs ORDER BY ran_at DESC, rowid DESC LIMIT 1
	`
)

func marshalZones(zones []ic.ZoneView) (string, error) {
	b, err := json.Marshal(zones)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalZones(s string) ([]ic.ZoneView, error) {
	if s == "" || s == "null" {
		return nil, nil
	}
	var zones []ic.ZoneView
	if err := json.Unmarshal([]byte(s), &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// Save inserts a run. A missing RunID or RanAt is filled in.
func (r *RunSQLite) Save(ctx context.Context, run ic.ScheduleRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	ranAt := run.RanAt
	if ranAt.IsZero() {
		ranAt = time.Now().UTC()
	} else {
		ranAt = ranAt.UTC()
	}

	zonesJSON, err := marshalZones(run.Zones)
	if err != nil {
		return fmt.Errorf("marshal zones of run %s: %w", run.RunID, err)
	}

	_, err = r.db.ExecContext(ctx, insertRunSQL,
		run.RunID,
		ranAt,
		run.RainReading,
		run.RainLimit,
		run.Policy,
		run.Active,
		run.Skipped,
		zonesJSON,
	)
	if err != nil {
		return fmt.Errorf("insert schedule run %s: %w", run.RunID, err)
	}
	return nil
}

// Latest returns the most recent run, or a zero value when none exists.
func (r *RunSQLite) Latest(ctx context.Context) (ic.ScheduleRun, error) {
	row := r.db.QueryRowContext(ctx, selectLatestRunSQL)

	var run ic.ScheduleRun
	var zonesJSON string
	if err := row.Scan(
		&run.RunID,
		&run.RanAt,
		&run.RainReading,
		&run.RainLimit,
		&run.Policy,
		&run.Active,
		&run.Skipped,
		&zonesJSON,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ic.ScheduleRun{}, nil
		}
		return ic.ScheduleRun{}, fmt.Errorf("select latest schedule run: %w", err)
	}

	zones, err := unmarshalZones(zonesJSON)
	if err != nil {
		return ic.ScheduleRun{}, fmt.Errorf("decode zones of run %s: %w", run.RunID, err)
	}
	run.Zones = zones
	run.RanAt = run.RanAt.UTC()
	return run, nil
}

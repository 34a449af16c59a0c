package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"irrigation_controller/internal/models"
	"irrigation_controller/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockEventRepo(t *testing.T) (*EventSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewEventSQLite(db), mock
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestAppend_FillsDefaultsAndNormalizesType(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), models.EventZoneCount, "zones resized", `{"count":3}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(testCtx(t), models.ControllerEvent{
		Type:        "  zone_count ",
		Description: "zones resized",
		Metadata:    map[string]any{"count": 3},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_FormatsTimestampInUTC(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2024, 4, 26, 10, 0, 0, 0, loc)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs("e1", "2024-04-26 08:00:00", models.EventReset, "reset", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(testCtx(t), models.ControllerEvent{
		EventID: "e1", OccurredAt: at, Type: models.EventReset, Description: "reset",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBErrorIsWrapped(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	mock.ExpectExec("INSERT INTO controller_events").WillReturnError(errors.New("down"))

	err := repo.Append(testCtx(t), models.ControllerEvent{Type: "reset", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") || !strings.Contains(err.Error(), "insert event") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestList_NoFilters_MetadataDecoding(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"active": 5.0})

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("1", now, models.EventSchedule, "scheduled", string(js)).
		AddRow("2", now.Add(time.Hour), models.EventReset, "reset", nil).
		AddRow("3", now.Add(2*time.Hour), models.EventError, "bad", "not json")

	mock.ExpectQuery(regexp.QuoteMeta(selectEventSQL + " ORDER BY occurred_at ASC, rowid ASC")).
		WillReturnRows(rows)

	got, err := repo.List(testCtx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 events, got %d", len(got))
	}
	b, _ := json.Marshal(got[0].Metadata)
	if string(b) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", b, js)
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil metadata, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != "not json" {
		t.Fatalf("expected raw metadata kept, got %#v", got[2].Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := selectEventSQL + " WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC, rowid ASC"
	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("2", from, models.EventSchedule, "b", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("2025-01-01 11:00:00", "2025-01-01 12:00:00", models.EventSchedule).
		WillReturnRows(rows)

	got, err := repo.List(testCtx(t), from, to, " schedule ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "2" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("x", 123, "RESET", "msg", nil)
	mock.ExpectQuery("SELECT id, occurred_at").WillReturnRows(rows)

	if _, err := repo.List(testCtx(t), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
}

func TestBuildListQuery_OnlyType(t *testing.T) {
	q, args := buildListQuery(time.Time{}, time.Time{}, "clock")
	if !strings.HasSuffix(q, "WHERE type = ? ORDER BY occurred_at ASC, rowid ASC") {
		t.Fatalf("unexpected query: %s", q)
	}
	if len(args) != 1 || args[0] != models.EventClock {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestList_SameSecondKeepsInsertionOrder(t *testing.T) {
	conn, err := db.InitDB(":memory:")
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	repo := NewEventSQLite(conn)
	ctx := testCtx(t)

	at := time.Date(2024, 4, 26, 8, 0, 0, 0, time.UTC)
	appended := []models.ControllerEvent{
		{EventID: "z-reading", OccurredAt: at.Add(100 * time.Millisecond), Type: models.EventRainReading, Description: "rain 0.3"},
		{EventID: "m-schedule", OccurredAt: at.Add(900 * time.Millisecond), Type: models.EventSchedule, Description: "run"},
		{EventID: "a-reading", OccurredAt: at.Add(500 * time.Millisecond), Type: models.EventRainReading, Description: "rain 0.1"},
	}
	for _, e := range appended {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append %s: %v", e.EventID, err)
		}
	}

	got, err := repo.List(ctx, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(appended) {
		t.Fatalf("got %d events, want %d", len(got), len(appended))
	}
	for i, e := range appended {
		if got[i].EventID != e.EventID {
			t.Fatalf("event %d = %s, want %s", i, got[i].EventID, e.EventID)
		}
	}
}

package repository

import (
	"context"
	"database/sql"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
}

// RunRepo keeps the audit trail of schedule runs.
type RunRepo interface {
	Save(ctx context.Context, run ic.ScheduleRun) error
	Latest(ctx context.Context) (ic.ScheduleRun, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.ControllerEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ControllerEvent, error)
}

type Repository struct {
	RunRepo   RunRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		RunRepo:   NewRunSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewOperatorRepository(db),
	}
}

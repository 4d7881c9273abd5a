package repository

import (
	"context"
	"errors"
	"time"

	"github.com/medicalife/patient-api/internal/model"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the email unique constraint rejects a write.
	ErrDuplicateEmail = errors.New("email already registered")
)

// All repository interfaces in one file
type (
	// PatientRepository is the persistence gateway for patients.
	// CreatedAt and UpdatedAt are maintained by the implementation.
	PatientRepository interface {
		FindAll(ctx context.Context) ([]*model.Patient, error)
		FindByPK(ctx context.Context, id string) (*model.Patient, error)
		FindOneByEmail(ctx context.Context, email string) (*model.Patient, error)
		Create(ctx context.Context, patient *model.Patient) error
		Save(ctx context.Context, patient *model.Patient) error
		Destroy(ctx context.Context, id string) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id string, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)

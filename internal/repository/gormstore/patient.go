package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/internal/repository"
	"github.com/medicalife/patient-api/internal/repository/postgres"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) FindAll(ctx context.Context) ([]*model.Patient, error) {
	patients := make([]*model.Patient, 0)
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) FindByPK(ctx context.Context, id string) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	return r.one(&patient, err)
}

func (r *patientRepository) FindOneByEmail(ctx context.Context, email string) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&patient).Error
	return r.one(&patient, err)
}

func (r *patientRepository) one(patient *model.Patient, err error) (*model.Patient, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		if isDuplicate(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Save(ctx context.Context, patient *model.Patient) error {
	result := r.db.WithContext(ctx).
		Model(patient).
		Select("name", "email", "birth_date", "postal_code", "street_address", "city", "state", "updated_at").
		Updates(patient)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update patient: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) Destroy(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Patient{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete patient: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// The shared pool speaks lib/pq, which gorm's pgx-based translator does not
// recognise, so both forms are checked.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || postgres.IsUniqueViolation(err)
}

package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/internal/repository"
	apperrors "github.com/medicalife/patient-api/pkg/errors"
	"github.com/medicalife/patient-api/pkg/logger"
	"github.com/medicalife/patient-api/pkg/validator"
)

const (
	msgMissingID      = "Id de paciente não informado."
	msgMissingPayload = "Dados de paciente não fornecidos."
	msgNotFound       = "Paciente não encontrado."
	msgDuplicateEmail = "Já existe um paciente registrado com esse email."
	msgInvalidBirth   = "Data de Nascimento inválida."
)

// fieldLabels maps JSON field names to the labels shown in validation messages.
var fieldLabels = map[string]string{
	"name":          "Nome",
	"email":         "Email",
	"birthDate":     "Data de Nascimento",
	"city":          "Cidade",
	"postalCode":    "CEP",
	"state":         "Estado",
	"streetAddress": "Logradouro",
}

type PatientService interface {
	ListAll(ctx context.Context) ([]*model.Patient, error)
	GetByID(ctx context.Context, id string) (*model.Patient, error)
	Create(ctx context.Context, input *model.PatientInput) (*model.Patient, error)
	Update(ctx context.Context, id string, input *model.PatientInput) (*model.Patient, error)
	Delete(ctx context.Context, id string) error
}

// Emitter publishes domain events for committed mutations.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

type Service struct {
	repo      repository.PatientRepository
	validator validator.Validator
	emitter   Emitter
	log       *logger.Logger
}

func NewService(repo repository.PatientRepository, v validator.Validator, emitter Emitter, log *logger.Logger) *Service {
	if v == nil {
		v = validator.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		validator: v,
		emitter:   emitter,
		log:       log.With("patient_service"),
	}
}

func (s *Service) ListAll(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return patients, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*model.Patient, error) {
	if id == "" {
		return nil, apperrors.InvalidArgument(msgMissingID)
	}
	return s.find(ctx, id)
}

func (s *Service) Create(ctx context.Context, input *model.PatientInput) (*model.Patient, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	_, err := s.repo.FindOneByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, apperrors.Conflict(msgDuplicateEmail, nil)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storageError(err)
	}

	birthDate, err := model.ParseBirthDate(input.BirthDate)
	if err != nil {
		return nil, apperrors.InvalidArgument(msgInvalidBirth)
	}

	patient := &model.Patient{
		Base:          model.Base{ID: uuid.NewString()},
		Name:          input.Name,
		Email:         input.Email,
		BirthDate:     birthDate,
		PostalCode:    input.PostalCode,
		StreetAddress: input.StreetAddress,
		City:          input.City,
		State:         input.State,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, s.writeError(err)
	}

	s.emit(ctx, model.EventPatientCreated, patient)
	s.log.Info("patient created", "patient_id", patient.ID)
	return patient, nil
}

func (s *Service) Update(ctx context.Context, id string, input *model.PatientInput) (*model.Patient, error) {
	if id == "" {
		return nil, apperrors.InvalidArgument(msgMissingID)
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	patient, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := merge(patient, input); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, patient); err != nil {
		return nil, s.writeError(err)
	}

	s.emit(ctx, model.EventPatientUpdated, patient)
	s.log.Info("patient updated", "patient_id", patient.ID)
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidArgument(msgMissingID)
	}

	patient, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Destroy(ctx, patient.ID); err != nil {
		return s.writeError(err)
	}

	s.emit(ctx, model.EventPatientDeleted, map[string]string{"id": patient.ID})
	s.log.Info("patient deleted", "patient_id", patient.ID)
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*model.Patient, error) {
	// ids are always UUIDs, anything else cannot match a row
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound(msgNotFound)
	}

	patient, err := s.repo.FindByPK(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, storageError(err)
	}
	return patient, nil
}

func (s *Service) validate(input *model.PatientInput) error {
	if input == nil {
		return apperrors.InvalidArgument(msgMissingPayload)
	}

	fieldErr, err := s.validator.First(input)
	if err != nil {
		return apperrors.Internal(err)
	}
	if fieldErr == nil {
		return nil
	}

	label, ok := fieldLabels[fieldErr.Field]
	if !ok {
		label = fieldErr.Field
	}
	return apperrors.InvalidArgument("O campo " + label + " deve ser preenchido.")
}

func (s *Service) writeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.Conflict(msgDuplicateEmail, err)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(msgNotFound)
	default:
		return storageError(err)
	}
}

// storageError maps an unexpected gateway failure. A passed request deadline
// is a 504, anything else a 500.
func storageError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(err)
	}
	return apperrors.Internal(err)
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.Emit(ctx, eventType, payload); err != nil {
		s.log.Error(err, "failed to emit event", "event_type", eventType)
	}
}

// merge applies input over the stored patient. A non-empty incoming value
// wins; an empty one keeps the stored value, except postalCode, whose stored
// value loses its first hyphen.
func merge(patient *model.Patient, input *model.PatientInput) error {
	patient.Name = orElse(input.Name, patient.Name)
	patient.Email = orElse(input.Email, patient.Email)
	patient.City = orElse(input.City, patient.City)
	patient.State = orElse(input.State, patient.State)
	patient.StreetAddress = orElse(input.StreetAddress, patient.StreetAddress)

	if input.PostalCode != "" {
		patient.PostalCode = input.PostalCode
	} else {
		patient.PostalCode = strings.Replace(patient.PostalCode, "-", "", 1)
	}

	birthDate, err := model.ParseBirthDate(input.BirthDate)
	if err != nil {
		return apperrors.InvalidArgument(msgInvalidBirth)
	}
	if !birthDate.Equal(model.CanonicalBirthDate(patient.BirthDate)) {
		patient.BirthDate = birthDate
	}
	return nil
}

func orElse(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

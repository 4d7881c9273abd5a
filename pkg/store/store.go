// Package store holds the client-side patient list. It is seeded from a local
// cache, refreshed from the API, and mirrored back to the cache after every
// successful change.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/pkg/client"
	"github.com/medicalife/patient-api/pkg/kv"
	"github.com/medicalife/patient-api/pkg/validator"
)

// CacheKey is where the patient list is mirrored.
const CacheKey = "@Medicalife:patients"

const (
	msgLoadFailed = "Não foi possível recuperar os pacientes."

	msgCreated = "Paciente criado com sucesso."
	msgUpdated = "Paciente atualizado com sucesso."
	msgDeleted = "Paciente removido com sucesso."

	msgCreateUnknown = "Ocorreu um erro desconhecido ao registrar o paciente."
	msgUpdateUnknown = "Ocorreu um erro desconhecido ao atualizar o paciente."
	msgDeleteUnknown = "Ocorreu um erro desconhecido ao remover o paciente."
)

// API is the subset of the patient API the store calls.
type API interface {
	List(ctx context.Context) ([]*model.Patient, error)
	Create(ctx context.Context, input *model.PatientInput) (*model.Patient, error)
	Update(ctx context.Context, id string, input *model.PatientInput) (*model.Patient, error)
	Delete(ctx context.Context, id string) error
}

type Store struct {
	api       API
	cache     kv.Store
	notifier  Notifier
	validator validator.Validator
	log       zerolog.Logger

	mu       sync.RWMutex
	patients []*model.Patient
	loading  bool
}

// New builds a store seeded from the cache. A missing or unreadable cache
// entry leaves the list empty.
func New(ctx context.Context, api API, cache kv.Store, notifier Notifier, log zerolog.Logger) *Store {
	s := &Store{
		api:       api,
		cache:     cache,
		notifier:  notifier,
		validator: validator.New(),
		log:       log,
		patients:  []*model.Patient{},
	}
	s.seed(ctx)
	return s
}

func (s *Store) seed(ctx context.Context) {
	raw, ok, err := s.cache.Get(ctx, CacheKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read patient cache")
		return
	}
	if !ok {
		return
	}

	var patients []*model.Patient
	if err := json.Unmarshal([]byte(raw), &patients); err != nil {
		s.log.Warn().Err(err).Msg("ignoring unreadable patient cache")
		return
	}
	if patients != nil {
		s.patients = patients
	}
}

// Patients returns a snapshot of the current list.
func (s *Store) Patients() []*model.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Patient, len(s.patients))
	copy(out, s.patients)
	return out
}

// IsLoading reports whether a create is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Load replaces the list with the server's. On failure the seeded list stays.
func (s *Store) Load(ctx context.Context) bool {
	patients, err := s.api.List(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("failed to load patients")
		s.notifier.Error(msgLoadFailed)
		return false
	}

	s.mu.Lock()
	s.patients = patients
	s.mu.Unlock()

	s.sync(ctx, patients)
	return true
}

// Create checks the form rules, then registers the patient and appends it.
func (s *Store) Create(ctx context.Context, input *model.PatientInput) bool {
	if msg := checkForm(s.validator, input); msg != "" {
		s.notifier.Error(msg)
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	patient, err := s.api.Create(ctx, input)
	if err != nil {
		s.fail(err, msgCreateUnknown)
		return false
	}

	s.mu.Lock()
	next := make([]*model.Patient, 0, len(s.patients)+1)
	next = append(next, s.patients...)
	next = append(next, patient)
	s.patients = next
	s.mu.Unlock()

	s.sync(ctx, next)
	s.notifier.Success(msgCreated)
	return true
}

// Update checks the form rules, sends the seven business fields of patient
// and replaces the stored entry with the server's answer.
func (s *Store) Update(ctx context.Context, patient *model.Patient) bool {
	input := patient.Input()
	if msg := checkForm(s.validator, input); msg != "" {
		s.notifier.Error(msg)
		return false
	}

	updated, err := s.api.Update(ctx, patient.ID, input)
	if err != nil {
		s.fail(err, msgUpdateUnknown)
		return false
	}

	s.mu.Lock()
	next := make([]*model.Patient, len(s.patients))
	for i, existing := range s.patients {
		if existing.ID == updated.ID {
			next[i] = updated
		} else {
			next[i] = existing
		}
	}
	s.patients = next
	s.mu.Unlock()

	s.sync(ctx, next)
	s.notifier.Success(msgUpdated)
	return true
}

func (s *Store) Delete(ctx context.Context, id string) bool {
	if err := s.api.Delete(ctx, id); err != nil {
		s.fail(err, msgDeleteUnknown)
		return false
	}

	s.mu.Lock()
	next := make([]*model.Patient, 0, len(s.patients))
	for _, existing := range s.patients {
		if existing.ID != id {
			next = append(next, existing)
		}
	}
	s.patients = next
	s.mu.Unlock()

	s.sync(ctx, next)
	s.notifier.Success(msgDeleted)
	return true
}

// sync mirrors patients into the cache. Failures are logged only.
func (s *Store) sync(ctx context.Context, patients []*model.Patient) {
	raw, err := json.Marshal(patients)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode patient cache")
		return
	}
	if err := s.cache.Set(ctx, CacheKey, string(raw)); err != nil {
		s.log.Warn().Err(err).Msg("failed to write patient cache")
	}
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *Store) fail(err error, unknown string) {
	s.log.Debug().Err(err).Msg("patient request failed")

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		s.notifier.Error("Erro: " + apiErr.Message)
		return
	}
	s.notifier.Error(unknown)
}

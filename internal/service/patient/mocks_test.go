package patient

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/internal/repository"
)

var _ repository.PatientRepository = (*memoryRepo)(nil)

// memoryRepo keeps copies of patients so callers cannot mutate stored rows.
type memoryRepo struct {
	mu       sync.Mutex
	patients map[string]model.Patient
	order    []string

	// failWith, when set, is returned by every call.
	failWith error
	// createErr and saveErr simulate storage constraint failures.
	createErr error
	saveErr   error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{patients: make(map[string]model.Patient)}
}

func (r *memoryRepo) FindAll(ctx context.Context) ([]*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]*model.Patient, 0, len(r.order))
	for _, id := range r.order {
		p := r.patients[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *memoryRepo) FindByPK(ctx context.Context, id string) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) FindOneByEmail(ctx context.Context, email string) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, p := range r.patients {
		if p.Email == email {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if r.createErr != nil {
		return r.createErr
	}
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now
	r.patients[patient.ID] = *patient
	r.order = append(r.order, patient.ID)
	return nil
}

func (r *memoryRepo) Save(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.patients[patient.ID]; !ok {
		return repository.ErrNotFound
	}
	patient.UpdatedAt = time.Now().UTC()
	r.patients[patient.ID] = *patient
	return nil
}

func (r *memoryRepo) Destroy(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.patients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.patients, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type emitted struct {
	eventType string
	payload   interface{}
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
	err    error
}

func (e *recordingEmitter) Emit(ctx context.Context, eventType string, payload interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, emitted{eventType: eventType, payload: payload})
	return nil
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, evt := range e.events {
		out = append(out, evt.eventType)
	}
	return out
}

var errDatabaseDown = errors.New("connection refused")

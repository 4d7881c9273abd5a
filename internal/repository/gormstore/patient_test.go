package gormstore

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), newConfig())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Patient{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newPatient(email string) *model.Patient {
	return &model.Patient{
		Base:          model.Base{ID: uuid.NewString()},
		Name:          "Ana",
		Email:         email,
		BirthDate:     time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		PostalCode:    "80000000",
		StreetAddress: "Rua A, 1",
		City:          "Curitiba",
		State:         "PR",
	}
}

func TestPatientRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(setupTestDB(t))

	p := newPatient("ana@x.com")
	require.NoError(t, repo.Create(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())
	assert.False(t, p.UpdatedAt.IsZero())

	got, err := repo.FindByPK(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Email, got.Email)
	assert.True(t, p.BirthDate.Equal(got.BirthDate))
	assert.Equal(t, p.PostalCode, got.PostalCode)
	assert.Equal(t, p.StreetAddress, got.StreetAddress)
	assert.Equal(t, p.City, got.City)
	assert.Equal(t, p.State, got.State)

	byEmail, err := repo.FindOneByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byEmail.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPatientRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(setupTestDB(t))

	_, err := repo.FindByPK(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.FindOneByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.Destroy(ctx, uuid.NewString()), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Save(ctx, newPatient("ghost@x.com")), repository.ErrNotFound)
}

func TestPatientRepositoryEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, newPatient("ana@x.com")))
	assert.ErrorIs(t, repo.Create(ctx, newPatient("ana@x.com")), repository.ErrDuplicateEmail)

	// exact match only
	require.NoError(t, repo.Create(ctx, newPatient("Ana@x.com")))

	other := newPatient("bia@x.com")
	require.NoError(t, repo.Create(ctx, other))
	other.Email = "ana@x.com"
	assert.ErrorIs(t, repo.Save(ctx, other), repository.ErrDuplicateEmail)
}

func TestPatientRepositorySaveAndDestroy(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(setupTestDB(t))

	p := newPatient("ana@x.com")
	require.NoError(t, repo.Create(ctx, p))
	createdAt := p.CreatedAt

	p.City = "Londrina"
	p.PostalCode = "86000000"
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByPK(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Londrina", got.City)
	assert.Equal(t, "86000000", got.PostalCode)
	assert.True(t, createdAt.Equal(got.CreatedAt))

	require.NoError(t, repo.Destroy(ctx, p.ID))
	_, err = repo.FindByPK(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

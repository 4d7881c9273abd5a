package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/pkg/messaging"
)

func run(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PATIENTCTL_API_URL", apiURL)
	t.Setenv("PATIENTCTL_CACHE_FILE", filepath.Join(t.TempDir(), "patients.cache"))
	t.Setenv("PATIENTCTL_REDIS_URL", "")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListSortsByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"patients":[
			{"id":"2","name":"Bruno","email":"b@x.com","birthDate":"1990-04-21T00:00:00Z","streetAddress":"Rua B","city":"Curitiba","state":"PR"},
			{"id":"1","name":"ana","email":"a@x.com","streetAddress":"Rua A"}
		]}`)
	}))
	defer srv.Close()

	out, err := run(t, srv.URL, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1 "))
	assert.Contains(t, lines[1], "N/A")
	assert.Contains(t, lines[2], "21/04/1990")
	assert.Contains(t, lines[2], "Rua B, Curitiba - PR")
}

func TestFailedOperationExitsWithError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"success":false,"message":"Paciente não encontrado."}`)
	}))
	defer srv.Close()

	_, err := run(t, srv.URL, "delete", "missing")
	assert.ErrorIs(t, err, errFailed)
}

func TestUpdateSendsOnlyChangedFields(t *testing.T) {
	var sent model.PatientInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `{"success":true,"patient":{"id":"p1","name":"Ana","email":"ana@x.com","birthDate":"1990-04-21T00:00:00Z","postalCode":"80000-000","city":"Curitiba","state":"PR","streetAddress":"Rua A"}}`)
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
			io.WriteString(w, `{"success":true,"patient":{"id":"p1","name":"Ana","city":"Londrina"}}`)
		}
	}))
	defer srv.Close()

	_, err := run(t, srv.URL, "update", "p1", "--city", "Londrina")
	require.NoError(t, err)

	assert.Equal(t, "Londrina", sent.City)
	assert.Equal(t, "Ana", sent.Name)
	assert.Equal(t, "80000-000", sent.PostalCode)
	assert.Equal(t, "1990-04-21T00:00:00Z", sent.BirthDate)
}

func TestUpdateRejectsBadBirthDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"patient":{"id":"p1"}}`)
	}))
	defer srv.Close()

	_, err := run(t, srv.URL, "update", "p1", "--birth-date", "ontem")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errFailed)
}

func TestWatchRequiresRedis(t *testing.T) {
	_, err := run(t, "http://localhost:3000", "watch")
	assert.ErrorContains(t, err, "PATIENTCTL_REDIS_URL")
}

func TestRenderEvent(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderEvent(&out, messaging.Message{
		Type:       "patient.created",
		Payload:    json.RawMessage(`{"id":"p1"}`),
		OccurredAt: time.Now(),
	}))
	assert.Contains(t, out.String(), `patient.created {"id":"p1"}`)
}

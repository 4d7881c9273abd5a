package patient

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicalife/patient-api/internal/middleware"
	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/internal/service/patient"
	"github.com/medicalife/patient-api/pkg/errors"
	"github.com/medicalife/patient-api/pkg/httputil"
)

const (
	msgListed  = "Pacientes recuperados com sucesso."
	msgFound   = "Paciente recuperado com sucesso."
	msgCreated = "Paciente criado com sucesso."
	msgUpdated = "Paciente atualizado com sucesso."
	msgDeleted = "Paciente removido com sucesso."

	msgInvalidBody = "Corpo da requisição inválido."
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	patients := r.Group("/patient")
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.CreatePatient)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)

		// empty id reaches the service, which rejects it
		patients.GET("/", h.GetPatient)
		patients.PUT("/", h.UpdatePatient)
		patients.DELETE("/", h.DeletePatient)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if patients == nil {
		patients = []*model.Patient{}
	}

	httputil.RespondWithSuccess(c, http.StatusOK, httputil.Response{
		Patients: patients,
		Message:  msgListed,
	})
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, httputil.Response{
		Patient: p,
		Message: msgFound,
	})
}

func (h *Handler) CreatePatient(c *gin.Context) {
	input, err := bindInput(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, httputil.Response{
		Patient: p,
		Message: msgCreated,
	})
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	input, err := bindInput(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, httputil.Response{
		Patient: p,
		Message: msgUpdated,
	})
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, httputil.Response{
		Message: msgDeleted,
	})
}

// bindInput decodes the request body. An empty body or JSON null yields a nil
// input so the service reports the missing payload.
func bindInput(c *gin.Context) (*model.PatientInput, error) {
	raw, err := c.GetRawData()
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			return nil, middleware.BodyTooLarge()
		}
		return nil, errors.InvalidArgument(msgInvalidBody)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var input *model.PatientInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, errors.InvalidArgument(msgInvalidBody)
	}
	return input, nil
}

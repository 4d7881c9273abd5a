package store

import (
	"github.com/medicalife/patient-api/internal/model"
	"github.com/medicalife/patient-api/pkg/validator"
)

// patientForm holds the rules the patient form enforces before any request
// is sent. Fields are declared in the order their errors are reported.
type patientForm struct {
	Name          string `json:"name" validate:"required,min=3,max=50"`
	BirthDate     string `json:"birthDate" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	PostalCode    string `json:"postalCode" validate:"required,min=8"`
	City          string `json:"city" validate:"required,min=3,max=40"`
	State         string `json:"state" validate:"required,min=2,max=2"`
	StreetAddress string `json:"streetAddress" validate:"required,min=3,max=100"`
}

// Texts are the form's own; the name and street address length messages
// do not match their limits.
var formMessages = map[string]map[string]string{
	"name": {
		"required": "O nome do paciente deve ser preenchido.",
		"min":      "O nome do paciente deve conter no mínimo 3 caracteres.",
		"max":      "O nome do paciente deve conter no máximo 30 caracteres.",
	},
	"birthDate": {
		"required": "A Data de Nascimento deve ser preenchida.",
	},
	"email": {
		"required": "O email deve ser preenchido.",
		"email":    "O email fornecido é inválido.",
	},
	"postalCode": {
		"required": "O CEP deve ser preenchido.",
		"min":      "O CEP deve conter no mínimo 8 caracteres.",
	},
	"city": {
		"required": "A Cidade deve ser preenchida.",
		"min":      "A Cidade deve conter no mínimo 3 caracteres.",
		"max":      "A Cidade deve conter no máximo 40 caracteres.",
	},
	"state": {
		"required": "O Estado deve ser preenchido.",
		"min":      "O Estado deve conter no mínimo 2 caracteres.",
		"max":      "O Estado deve conter no máximo 2 caracteres.",
	},
	"streetAddress": {
		"required": "O Logradouro deve ser preenchido.",
		"min":      "O Logradouro deve conter no mínimo 10 caracteres.",
		"max":      "O Logradouro deve conter no máximo 100 caracteres.",
	},
}

const msgFormInvalid = "Dados de paciente inválidos."

func newPatientForm(input *model.PatientInput) *patientForm {
	return &patientForm{
		Name:          input.Name,
		BirthDate:     input.BirthDate,
		Email:         input.Email,
		PostalCode:    input.PostalCode,
		City:          input.City,
		State:         input.State,
		StreetAddress: input.StreetAddress,
	}
}

// checkForm returns the message of the first broken form rule, or "".
func checkForm(v validator.Validator, input *model.PatientInput) string {
	if input == nil {
		return formMessages["name"]["required"]
	}

	fieldErr, err := v.First(newPatientForm(input))
	if err != nil {
		return msgFormInvalid
	}
	if fieldErr == nil {
		return ""
	}
	if msg, ok := formMessages[fieldErr.Field][fieldErr.Tag]; ok {
		return msg
	}
	return msgFormInvalid
}

package model

import (
	"github.com/google/uuid"
)

// Patient represents a registered patient. Address fields are embedded on the row.
type Patient struct {
	Base
	FullName     string    `json:"nomeCompleto" db:"nome_completo"`
	BirthDate    Date      `json:"dataNascimento" db:"data_nascimento"`
	MotherName   string    `json:"nomeMae" db:"nome_mae"`
	FatherName   *string   `json:"nomePai" db:"nome_pai"`
	CPF          string    `json:"CPF" db:"cpf"`
	SUSNumber    string    `json:"numSUS" db:"num_sus"`
	SexID        uuid.UUID `json:"idSexo" db:"sexo_id"`
	PostalCode   string    `json:"CEP" db:"cep"`
	Street       string    `json:"endereco" db:"endereco"`
	Number       string    `json:"numero" db:"numero"`
	Complement   *string   `json:"complemento" db:"complemento"`
	Neighborhood string    `json:"bairro" db:"bairro"`
	City         string    `json:"cidade" db:"cidade"`
	State        string    `json:"uf" db:"uf"`

	Sex *Sex `json:"sexo,omitempty" db:"-"`
}

// PatientRequest is the full-field payload for create and replace
type PatientRequest struct {
	FullName     string    `json:"nomeCompleto" binding:"required"`
	BirthDate    *Date     `json:"dataNascimento" binding:"required"`
	MotherName   string    `json:"nomeMae" binding:"required"`
	FatherName   *string   `json:"nomePai"`
	CPF          string    `json:"CPF" binding:"required,cpf"`
	SUSNumber    string    `json:"numSUS" binding:"required,sus"`
	SexID        uuid.UUID `json:"idSexo" binding:"required"`
	PostalCode   string    `json:"CEP" binding:"required,cep"`
	Street       string    `json:"endereco" binding:"required"`
	Number       string    `json:"numero" binding:"required"`
	Complement   *string   `json:"complemento"`
	Neighborhood string    `json:"bairro" binding:"required"`
	City         string    `json:"cidade" binding:"required"`
	State        string    `json:"uf" binding:"required,uf"`
}

// Apply copies the request onto p, replacing every field
func (r *PatientRequest) Apply(p *Patient) {
	p.FullName = r.FullName
	if r.BirthDate != nil {
		p.BirthDate = *r.BirthDate
	}
	p.MotherName = r.MotherName
	p.FatherName = emptyToNil(r.FatherName)
	p.CPF = r.CPF
	p.SUSNumber = r.SUSNumber
	p.SexID = r.SexID
	p.PostalCode = r.PostalCode
	p.Street = r.Street
	p.Number = r.Number
	p.Complement = emptyToNil(r.Complement)
	p.Neighborhood = r.Neighborhood
	p.City = r.City
	p.State = r.State
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

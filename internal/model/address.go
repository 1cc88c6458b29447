package model

// Address is a standalone postal address record
type Address struct {
	Base
	PostalCode   string `json:"CEP" db:"cep"`
	Street       string `json:"endereco" db:"endereco"`
	Number       string `json:"num" db:"numero"`
	Neighborhood string `json:"bairro" db:"bairro"`
	State        string `json:"uf" db:"uf"`
}

type AddressRequest struct {
	PostalCode   string `json:"CEP" binding:"required,cep"`
	Street       string `json:"endereco" binding:"required"`
	Number       string `json:"num" binding:"required"`
	Neighborhood string `json:"bairro" binding:"required"`
	State        string `json:"uf" binding:"required,uf"`
}

func (r *AddressRequest) Apply(a *Address) {
	a.PostalCode = r.PostalCode
	a.Street = r.Street
	a.Number = r.Number
	a.Neighborhood = r.Neighborhood
	a.State = r.State
}

package model

// Sex is a reference table pointed to by patients
type Sex struct {
	Base
	Name string `json:"nome" db:"nome"`
}

type SexRequest struct {
	Name string `json:"nome" binding:"required"`
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/cadastro-saude/patient-registry/internal/model"
)

// All repository interfaces in one file.
// Implementations return *errors.AppError values: NotFound for missing rows,
// Conflict for unique or reference violations and Store for anything else.
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		FindByEmailOrExternalID(ctx context.Context, email, externalID string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.User, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Patient, error)
		// FindDuplicates returns patients other than excludeID sharing the CPF or SUS number.
		// cpf and susNumber are digits only; stored values are compared without separators.
		FindDuplicates(ctx context.Context, cpf, susNumber string, excludeID uuid.UUID) ([]*model.Patient, error)
	}

	SexRepository interface {
		Create(ctx context.Context, sex *model.Sex) error
		Get(ctx context.Context, id uuid.UUID) (*model.Sex, error)
		Update(ctx context.Context, sex *model.Sex) error
		// Delete fails with a Conflict while any patient references the row
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Sex, error)
	}

	AddressRepository interface {
		Create(ctx context.Context, address *model.Address) error
		Get(ctx context.Context, id uuid.UUID) (*model.Address, error)
		Update(ctx context.Context, address *model.Address) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Address, error)
	}
)

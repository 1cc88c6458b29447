// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
)

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.PatientRepository = (*PatientRepository)(nil)
	_ repository.SexRepository     = (*SexRepository)(nil)
	_ repository.AddressRepository = (*AddressRepository)(nil)
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepository) FindByEmailOrExternalID(ctx context.Context, email, externalID string) (*model.User, error) {
	args := m.Called(ctx, email, externalID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*model.User)
	return users, args.Error(1)
}

type PatientRepository struct {
	mock.Mock
}

func (m *PatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return m.Called(ctx, patient).Error(0)
}

func (m *PatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	args := m.Called(ctx, id)
	patient, _ := args.Get(0).(*model.Patient)
	return patient, args.Error(1)
}

func (m *PatientRepository) Update(ctx context.Context, patient *model.Patient) error {
	return m.Called(ctx, patient).Error(0)
}

func (m *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PatientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	args := m.Called(ctx)
	patients, _ := args.Get(0).([]*model.Patient)
	return patients, args.Error(1)
}

func (m *PatientRepository) FindDuplicates(ctx context.Context, cpf, susNumber string, excludeID uuid.UUID) ([]*model.Patient, error) {
	args := m.Called(ctx, cpf, susNumber, excludeID)
	patients, _ := args.Get(0).([]*model.Patient)
	return patients, args.Error(1)
}

type SexRepository struct {
	mock.Mock
}

func (m *SexRepository) Create(ctx context.Context, sex *model.Sex) error {
	return m.Called(ctx, sex).Error(0)
}

func (m *SexRepository) Get(ctx context.Context, id uuid.UUID) (*model.Sex, error) {
	args := m.Called(ctx, id)
	sex, _ := args.Get(0).(*model.Sex)
	return sex, args.Error(1)
}

func (m *SexRepository) Update(ctx context.Context, sex *model.Sex) error {
	return m.Called(ctx, sex).Error(0)
}

func (m *SexRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *SexRepository) List(ctx context.Context) ([]*model.Sex, error) {
	args := m.Called(ctx)
	sexes, _ := args.Get(0).([]*model.Sex)
	return sexes, args.Error(1)
}

type AddressRepository struct {
	mock.Mock
}

func (m *AddressRepository) Create(ctx context.Context, address *model.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *AddressRepository) Get(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	args := m.Called(ctx, id)
	address, _ := args.Get(0).(*model.Address)
	return address, args.Error(1)
}

func (m *AddressRepository) Update(ctx context.Context, address *model.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *AddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *AddressRepository) List(ctx context.Context) ([]*model.Address, error) {
	args := m.Called(ctx)
	addresses, _ := args.Get(0).([]*model.Address)
	return addresses, args.Error(1)
}

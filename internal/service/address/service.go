package address

import (
	"context"

	"github.com/google/uuid"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
)

type AddressServicer interface {
	CreateAddress(ctx context.Context, req *model.AddressRequest) (*model.Address, error)
	GetAddress(ctx context.Context, id uuid.UUID) (*model.Address, error)
	UpdateAddress(ctx context.Context, id uuid.UUID, req *model.AddressRequest) (*model.Address, error)
	DeleteAddress(ctx context.Context, id uuid.UUID) error
	ListAddresses(ctx context.Context) ([]*model.Address, error)
}

type Service struct {
	repo repository.AddressRepository
}

func NewService(repo repository.AddressRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateAddress(ctx context.Context, req *model.AddressRequest) (*model.Address, error) {
	address := &model.Address{}
	req.Apply(address)

	if err := s.repo.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *Service) GetAddress(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateAddress(ctx context.Context, id uuid.UUID, req *model.AddressRequest) (*model.Address, error) {
	address, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(address)

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *Service) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListAddresses(ctx context.Context) ([]*model.Address, error) {
	return s.repo.List(ctx)
}

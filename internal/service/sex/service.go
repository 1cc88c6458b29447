package sex

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
)

type SexServicer interface {
	CreateSex(ctx context.Context, req *model.SexRequest) (*model.Sex, error)
	GetSex(ctx context.Context, id uuid.UUID) (*model.Sex, error)
	UpdateSex(ctx context.Context, id uuid.UUID, req *model.SexRequest) (*model.Sex, error)
	DeleteSex(ctx context.Context, id uuid.UUID) error
	ListSexes(ctx context.Context) ([]*model.Sex, error)
}

type Service struct {
	repo repository.SexRepository
}

func NewService(repo repository.SexRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSex(ctx context.Context, req *model.SexRequest) (*model.Sex, error) {
	sex := &model.Sex{Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Create(ctx, sex); err != nil {
		return nil, nameConflict(err)
	}
	return sex, nil
}

func (s *Service) GetSex(ctx context.Context, id uuid.UUID) (*model.Sex, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateSex(ctx context.Context, id uuid.UUID, req *model.SexRequest) (*model.Sex, error) {
	sex, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sex.Name = strings.TrimSpace(req.Name)
	if err := s.repo.Update(ctx, sex); err != nil {
		return nil, nameConflict(err)
	}
	return sex, nil
}

// DeleteSex is rejected while any patient references the sex
func (s *Service) DeleteSex(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListSexes(ctx context.Context) ([]*model.Sex, error) {
	return s.repo.List(ctx)
}

func nameConflict(err error) error {
	if apperrors.Is(err, apperrors.KindConflict) {
		return apperrors.Conflict("sex name already registered", err)
	}
	return err
}

package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
	"github.com/cadastro-saude/patient-registry/pkg/validator"
)

type PatientServicer interface {
	CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *model.PatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	ListPatients(ctx context.Context) ([]*model.Patient, error)
}

type Service struct {
	repo    repository.PatientRepository
	sexRepo repository.SexRepository
	logger  zerolog.Logger
}

func NewService(repo repository.PatientRepository, sexRepo repository.SexRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		sexRepo: sexRepo,
		logger:  logger,
	}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error) {
	patient := &model.Patient{}
	req.Apply(patient)

	if err := s.validatePatient(ctx, patient, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", patient.ID.String()).Msg("patient created")

	return s.repo.Get(ctx, patient.ID)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

// UpdatePatient replaces every field of an existing patient
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.PatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(patient)

	if err := s.validatePatient(ctx, patient, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	return s.repo.List(ctx)
}

func (s *Service) validatePatient(ctx context.Context, patient *model.Patient, self uuid.UUID) error {
	if _, err := s.sexRepo.Get(ctx, patient.SexID); err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return apperrors.Validation("idSexo must reference an existing sex", err)
		}
		return err
	}

	cpf := validator.Digits(patient.CPF)
	dups, err := s.repo.FindDuplicates(ctx, cpf, validator.Digits(patient.SUSNumber), self)
	if err != nil {
		return err
	}
	for _, d := range dups {
		if validator.Digits(d.CPF) == cpf {
			return apperrors.Conflict("CPF already registered", nil)
		}
	}
	if len(dups) > 0 {
		return apperrors.Conflict("SUS number already registered", nil)
	}
	return nil
}

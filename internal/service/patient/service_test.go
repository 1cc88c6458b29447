package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository/mocks"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
)

func newRequest(sexID uuid.UUID) *model.PatientRequest {
	birth := model.NewDate(1990, 5, 17)
	return &model.PatientRequest{
		FullName:     "Ana Souza",
		BirthDate:    &birth,
		MotherName:   "Maria Souza",
		CPF:          "529.982.247-25",
		SUSNumber:    "123 4567 8901 2345",
		SexID:        sexID,
		PostalCode:   "01001-000",
		Street:       "Praça da Sé",
		Number:       "100",
		Neighborhood: "Sé",
		City:         "São Paulo",
		State:        "sp",
	}
}

func newTestService() (*Service, *mocks.PatientRepository, *mocks.SexRepository) {
	repo := &mocks.PatientRepository{}
	sexes := &mocks.SexRepository{}
	return NewService(repo, sexes, zerolog.Nop()), repo, sexes
}

func TestCreatePatient(t *testing.T) {
	ctx := context.Background()
	sexID := uuid.New()

	t.Run("stores fields as sent", func(t *testing.T) {
		svc, repo, sexes := newTestService()
		sexes.On("Get", ctx, sexID).Return(&model.Sex{Base: model.Base{ID: sexID}, Name: "Feminino"}, nil)
		repo.On("FindDuplicates", ctx, "52998224725", "123456789012345", uuid.Nil).Return([]*model.Patient{}, nil)

		newID := uuid.New()
		var created *model.Patient
		repo.On("Create", ctx, mock.MatchedBy(func(p *model.Patient) bool {
			return p.CPF == "529.982.247-25" && p.SUSNumber == "123 4567 8901 2345" &&
				p.PostalCode == "01001-000" && p.State == "sp" && p.FatherName == nil
		})).Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Patient)
			created.ID = newID
		}).Return(nil)
		repo.On("Get", ctx, newID).Return(&model.Patient{Base: model.Base{ID: newID}, FullName: "Ana Souza"}, nil)

		patient, err := svc.CreatePatient(ctx, newRequest(sexID))
		require.NoError(t, err)
		assert.Equal(t, newID, patient.ID)
		repo.AssertExpectations(t)
		require.NotNil(t, created)
		assert.Equal(t, "1990-05-17", created.BirthDate.String())
	})

	t.Run("duplicate cpf", func(t *testing.T) {
		svc, repo, sexes := newTestService()
		sexes.On("Get", ctx, sexID).Return(&model.Sex{}, nil)
		repo.On("FindDuplicates", ctx, "52998224725", "123456789012345", uuid.Nil).
			Return([]*model.Patient{{CPF: "529.982.247-25", SUSNumber: "999999999999999"}}, nil)

		_, err := svc.CreatePatient(ctx, newRequest(sexID))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
		assert.Equal(t, "CPF already registered", apperrors.From(err).Message)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate sus number", func(t *testing.T) {
		svc, repo, sexes := newTestService()
		sexes.On("Get", ctx, sexID).Return(&model.Sex{}, nil)
		repo.On("FindDuplicates", ctx, mock.Anything, mock.Anything, uuid.Nil).
			Return([]*model.Patient{{CPF: "11144477735", SUSNumber: "123456789012345"}}, nil)

		_, err := svc.CreatePatient(ctx, newRequest(sexID))
		assert.Equal(t, "SUS number already registered", apperrors.From(err).Message)
	})

	t.Run("unknown sex", func(t *testing.T) {
		svc, repo, sexes := newTestService()
		sexes.On("Get", ctx, sexID).Return(nil, apperrors.NotFound("sex", nil))

		_, err := svc.CreatePatient(ctx, newRequest(sexID))
		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		repo.AssertNotCalled(t, "FindDuplicates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdatePatientExcludesItself(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	sexID := uuid.New()

	svc, repo, sexes := newTestService()
	existing := &model.Patient{Base: model.Base{ID: id}, CPF: "52998224725"}
	repo.On("Get", ctx, id).Return(existing, nil)
	sexes.On("Get", ctx, sexID).Return(&model.Sex{}, nil)
	repo.On("FindDuplicates", ctx, "52998224725", "123456789012345", id).Return([]*model.Patient{}, nil)
	repo.On("Update", ctx, existing).Return(nil)

	updated, err := svc.UpdatePatient(ctx, id, newRequest(sexID))
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", updated.FullName)
	assert.Equal(t, id, updated.ID)
	repo.AssertExpectations(t)
}

func TestUpdateMissingPatient(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	svc, repo, _ := newTestService()
	repo.On("Get", ctx, id).Return(nil, apperrors.NotFound("patient", nil))

	_, err := svc.UpdatePatient(ctx, id, newRequest(uuid.New()))
	assert.Equal(t, 404, apperrors.From(err).StatusCode())
}

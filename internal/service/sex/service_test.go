package sex

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository/mocks"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
)

func TestCreateSexTrimsName(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SexRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(s *model.Sex) bool { return s.Name == "Feminino" })).Return(nil)

	sex, err := NewService(repo).CreateSex(ctx, &model.SexRequest{Name: "  Feminino "})
	require.NoError(t, err)
	assert.Equal(t, "Feminino", sex.Name)
	repo.AssertExpectations(t)
}

func TestCreateSexDuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SexRepository{}
	repo.On("Create", ctx, mock.Anything).Return(apperrors.Conflict("sex already exists", nil))

	_, err := NewService(repo).CreateSex(ctx, &model.SexRequest{Name: "Feminino"})
	require.Error(t, err)
	assert.Equal(t, "sex name already registered", apperrors.From(err).Message)
	assert.Equal(t, 400, apperrors.From(err).StatusCode())
}

func TestDeleteReferencedSex(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := &mocks.SexRepository{}
	repo.On("Delete", ctx, id).Return(apperrors.Conflict("sex is referenced by patients", nil))

	err := NewService(repo).DeleteSex(ctx, id)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Equal(t, 400, apperrors.From(err).StatusCode())
}

func TestUpdateSex(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := &mocks.SexRepository{}
	repo.On("Get", ctx, id).Return(&model.Sex{Base: model.Base{ID: id}, Name: "F"}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	sex, err := NewService(repo).UpdateSex(ctx, id, &model.SexRequest{Name: "Feminino"})
	require.NoError(t, err)
	assert.Equal(t, "Feminino", sex.Name)
}

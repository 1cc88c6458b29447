package user

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cadastro-saude/patient-registry/internal/email"
	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
	"github.com/cadastro-saude/patient-registry/pkg/security"
)

type UserServicer interface {
	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// welcomeTimeout bounds one welcome email delivery
const welcomeTimeout = 15 * time.Second

type Service struct {
	repo     repository.UserRepository
	hasher   security.PasswordHasher
	emailSvc email.Service
	logger   zerolog.Logger
	mail     sync.WaitGroup
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, emailSvc email.Service, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

// CreateUser is the public signup. The welcome email is best effort and sent
// after the request returns.
func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := s.ensureEmailFree(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hash,
		Role:         req.Role,
	}
	if user.Role == "" {
		user.Role = model.UserRoleUser
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.mail.Add(1)
	go s.sendWelcome(user.ID, user.Email, user.Name)

	return user, nil
}

func (s *Service) sendWelcome(id uuid.UUID, to, name string) {
	defer s.mail.Done()

	ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
	defer cancel()

	if err := s.emailSvc.SendWelcome(ctx, to, name); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id.String()).Msg("failed to send welcome email")
	}
}

// Wait blocks until pending welcome emails are delivered or have timed out
func (s *Service) Wait() {
	s.mail.Wait()
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.Get(ctx, id)
}

// UpdateUser replaces name and email. The password is rehashed only when one is given.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != user.Email {
		if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
			return nil, err
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := s.hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, owner uuid.UUID) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != owner {
			return apperrors.Conflict("email already registered", nil)
		}
		return nil
	case apperrors.Is(err, apperrors.KindNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return "", apperrors.Validation("password must be at least 6 characters", err)
		}
		return "", apperrors.Unknown(err)
	}
	return hash, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cadastro-saude/patient-registry/internal/govbr"
	"github.com/cadastro-saude/patient-registry/internal/model"
	"github.com/cadastro-saude/patient-registry/internal/repository"
	"github.com/cadastro-saude/patient-registry/pkg/auth"
	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
	"github.com/cadastro-saude/patient-registry/pkg/metrics"
	"github.com/cadastro-saude/patient-registry/pkg/security"
)

// login methods and outcomes recorded in metrics
const (
	methodPassword = "password"
	methodGovBR    = "govbr"

	outcomeSuccess         = "success"
	outcomeUnknownUser     = "unknown_user"
	outcomeInvalidPassword = "invalid_password"
	outcomeProviderError   = "provider_error"
	outcomeError           = "error"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrSSODisabled     = errors.New("govbr login is not configured")
)

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	provider govbr.Provider
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewService wires the login flows. provider may be nil when Gov.BR is not configured.
func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher,
	provider govbr.Provider, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		provider: provider,
		metrics:  m,
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			s.metrics.ObserveLogin(methodPassword, outcomeUnknownUser)
			return nil, apperrors.Unauthorized(ErrUserNotFound.Error(), err)
		}
		s.metrics.ObserveLogin(methodPassword, outcomeError)
		return nil, err
	}

	// Gov.BR-only accounts have no password to compare against
	if !user.HasPassword() {
		s.metrics.ObserveLogin(methodPassword, outcomeInvalidPassword)
		return nil, apperrors.Unauthorized(ErrInvalidPassword.Error(), nil)
	}

	if err := s.hasher.Compare(*user.PasswordHash, req.Password); err != nil {
		s.metrics.ObserveLogin(methodPassword, outcomeInvalidPassword)
		if errors.Is(err, security.ErrPasswordMismatch) {
			return nil, apperrors.Unauthorized(ErrInvalidPassword.Error(), nil)
		}
		return nil, apperrors.Unauthorized(ErrInvalidPassword.Error(), err)
	}

	token, _, err := s.jwtSvc.GenerateToken(user)
	if err != nil {
		s.metrics.ObserveLogin(methodPassword, outcomeError)
		return nil, apperrors.Unknown(err)
	}

	s.metrics.ObserveLogin(methodPassword, outcomeSuccess)
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return &model.LoginResponse{User: user.Summary(), Token: token}, nil
}

// LoginWithGovBR exchanges an authorization code for a local session, creating
// or linking the local user on first sight.
func (s *Service) LoginWithGovBR(ctx context.Context, req *model.GovBRLoginRequest) (*model.GovBRLoginResponse, error) {
	if s.provider == nil {
		return nil, apperrors.Unknown(ErrSSODisabled)
	}

	profile, err := s.provider.Exchange(ctx, req.Code)
	if err != nil {
		s.metrics.ObserveLogin(methodGovBR, outcomeProviderError)
		s.logger.Error().Err(err).Msg("govbr exchange failed")
		return nil, apperrors.Unknown(fmt.Errorf("govbr login: %w", err))
	}

	user, err := s.resolveUser(ctx, profile)
	if err != nil {
		s.metrics.ObserveLogin(methodGovBR, outcomeError)
		return nil, err
	}

	token, _, err := s.jwtSvc.GenerateToken(user)
	if err != nil {
		s.metrics.ObserveLogin(methodGovBR, outcomeError)
		return nil, apperrors.Unknown(err)
	}

	s.metrics.ObserveLogin(methodGovBR, outcomeSuccess)
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in with govbr")

	return &model.GovBRLoginResponse{
		Token: token,
		User: model.GovBRUserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

func (s *Service) resolveUser(ctx context.Context, profile *model.ExternalProfile) (*model.User, error) {
	user, err := s.userRepo.FindByEmailOrExternalID(ctx, profile.Email, profile.Subject)
	switch {
	case err == nil:
		if user.ExternalID == nil {
			user.ExternalID = &profile.Subject
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	case apperrors.Is(err, apperrors.KindNotFound):
	default:
		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = profile.Email
	}
	user = &model.User{
		Name:       name,
		Email:      profile.Email,
		ExternalID: &profile.Subject,
		Role:       model.UserRoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user created from govbr profile")
	return user, nil
}

func (s *Service) ValidateToken(token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.Unauthorized("token expired", err)
		}
		return nil, apperrors.Unauthorized("invalid token", err)
	}
	return claims, nil
}

package services

import (
	"context"
	"errors"
	"log"
	"time"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"
	"ninawa-bookdesk/internal/config"
	"ninawa-bookdesk/internal/core/domain"
	"ninawa-bookdesk/internal/pkg/jwt"
	"ninawa-bookdesk/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAccountDisabled = errors.New("account is disabled")
	ErrForcedLogout    = errors.New("session terminated by administrator")
)

// AuthService handles admin and office authentication
type AuthService struct {
	userRepo   repositories.UserRepository
	officeRepo *repositories.OfficeRepository
	tokenRepo  repositories.RefreshTokenRepository
	jwtConfig  config.JWTConfig
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	officeRepo *repositories.OfficeRepository,
	tokenRepo repositories.RefreshTokenRepository,
	jwtConfig config.JWTConfig,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		officeRepo: officeRepo,
		tokenRepo:  tokenRepo,
		jwtConfig:  jwtConfig,
	}
}

// LoginInput represents login credentials
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult bundles the issued tokens with the authenticated identity
type LoginResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ActorType    string      `json:"actor_type"`
	Profile      interface{} `json:"profile"`
}

// LoginAdmin authenticates an admin user and issues a token pair
func (s *AuthService) LoginAdmin(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	access, refresh, err := s.issueTokens(ctx, user.ID, string(domain.ActorAdmin), user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Admin login: %s", user.Username)
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ActorType:    string(domain.ActorAdmin),
		Profile:      user.ToResponse(),
	}, nil
}

// LoginOffice authenticates an office account. A successful login clears
// any pending force-logout flag and refreshes the presence timestamp.
func (s *AuthService) LoginOffice(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	office, err := s.officeRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, office.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if office.ForceLogout {
		if err := s.officeRepo.SetForceLogout(ctx, office.ID, false); err != nil {
			return nil, err
		}
		office.ForceLogout = false
	}
	if err := s.officeRepo.Heartbeat(ctx, office.ID, time.Now()); err != nil {
		return nil, err
	}

	access, refresh, err := s.issueTokens(ctx, office.ID, string(domain.ActorOffice), office.Username, string(domain.RoleOffice))
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Office login: %s", office.OfficeName)
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ActorType:    string(domain.ActorOffice),
		Profile:      office.ToResponse(),
	}, nil
}

// issueTokens creates an access/refresh pair and persists the refresh
// token hash for revocation checks
func (s *AuthService) issueTokens(ctx context.Context, actorID uint, actorType, username, role string) (string, string, error) {
	access, err := jwt.GenerateAccessToken(actorID, actorType, username, role, s.jwtConfig.Secret, s.jwtConfig.AccessTokenMins)
	if err != nil {
		return "", "", err
	}

	tokenID := uuid.New().String()
	refresh, err := jwt.GenerateRefreshToken(actorID, actorType, tokenID, s.jwtConfig.RefreshSecret, s.jwtConfig.RefreshTokenDays)
	if err != nil {
		return "", "", err
	}

	record := &models.RefreshToken{
		ActorType: actorType,
		ActorID:   actorID,
		TokenHash: password.HashToken(refresh),
		ExpiresAt: jwt.GetExpiryTime(s.jwtConfig.RefreshTokenDays),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// new pair is issued. Revoked or expired tokens are rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.jwtConfig.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	stored, err := s.tokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if stored.IsRevoked() || stored.IsExpired() {
		return nil, domain.ErrTokenInvalid
	}

	var username, role string
	var profile interface{}
	switch claims.ActorType {
	case string(domain.ActorAdmin):
		user, err := s.userRepo.GetByID(ctx, claims.ActorID)
		if err != nil {
			return nil, domain.ErrTokenInvalid
		}
		if !user.IsActive {
			return nil, ErrAccountDisabled
		}
		username, role = user.Username, user.Role
		profile = user.ToResponse()
	case string(domain.ActorOffice):
		office, err := s.officeRepo.GetByID(ctx, claims.ActorID)
		if err != nil {
			return nil, domain.ErrTokenInvalid
		}
		if office.ForceLogout {
			return nil, ErrForcedLogout
		}
		username, role = office.Username, string(domain.RoleOffice)
		profile = office.ToResponse()
	default:
		return nil, domain.ErrTokenInvalid
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	access, refresh, err := s.issueTokens(ctx, claims.ActorID, claims.ActorType, username, role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ActorType:    claims.ActorType,
		Profile:      profile,
	}, nil
}

// Logout revokes the presented refresh token. Unknown tokens are a no-op
// so logout never fails for an already-cleared session.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// ValidateAccess validates an access token and returns its claims
func (s *AuthService) ValidateAccess(tokenString string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateAccessToken(tokenString, s.jwtConfig.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

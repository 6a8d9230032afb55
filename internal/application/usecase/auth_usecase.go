package usecase

import (
	"github.com/henn-dt/carbonitor-v2/internal/application/dto"
	"github.com/henn-dt/carbonitor-v2/internal/domain"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
	"github.com/henn-dt/carbonitor-v2/internal/domain/repository"
	"github.com/henn-dt/carbonitor-v2/pkg/jwt"
	"github.com/henn-dt/carbonitor-v2/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase handles registration and login.
type AuthUseCase struct {
	users      repository.UserRepository
	log        *logger.Logger
	jwtSecret  string
	jwtIssuer  string
	jwtMinutes int
}

// NewAuthUseCase builds the use case.
func NewAuthUseCase(users repository.UserRepository, log *logger.Logger, jwtSecret, jwtIssuer string, jwtMinutes int) *AuthUseCase {
	return &AuthUseCase{
		users:      users,
		log:        log,
		jwtSecret:  jwtSecret,
		jwtIssuer:  jwtIssuer,
		jwtMinutes: jwtMinutes,
	}
}

// Register creates an account and returns a fresh token. A registered email
// returns domain.ErrEmailExists.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.Create(&entity.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hash),
		Status:       entity.UserStatusActive,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("user_id", user.ID).Msg("account registered")
	return uc.issue(user)
}

// Login authenticates by email and password. A wrong email or password both
// return domain.ErrUnauthorized; an inactive account domain.ErrForbidden.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtSecret, user.ID, user.Email, uc.jwtIssuer, uc.jwtMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

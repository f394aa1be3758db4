package service

import (
	"context"
	"errors"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"movieflix/internal/domain"
	"movieflix/internal/repository"
)

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minUsernameLen = 5

// ValidationError reporta todos los campos inválidos de una sola vez,
// antes de tocar el store.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
	Birthday *time.Time
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	username := strings.TrimSpace(input.Username)
	password := input.Password
	emailAddr := normalizeEmail(input.Email)

	fields := map[string]string{}
	if msg := validateUsername(username); msg != "" {
		fields["username"] = msg
	}
	if !isValidEmail(emailAddr) {
		fields["email"] = "does not appear to be a valid email"
	}
	if strings.TrimSpace(password) == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return domain.User{}, &ValidationError{Fields: fields}
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          emailAddr,
		Birthday:       input.Birthday,
		PasswordHash:   passwordHash,
		FavoriteMovies: []string{},
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			// El insert perdió la carrera o el nombre ya estaba tomado;
			// para el caller es el mismo resultado.
			if s.logger != nil {
				s.logger.Warn("duplicate username on register", zap.String("username", username))
			}
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// Authenticate devuelve el mismo error genérico para usuario inexistente
// y para password incorrecto.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, username string) (domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// UpdateInput lleva solo los campos presentes en el request; nil significa
// "sin cambio".
type UpdateInput struct {
	Username *string
	Password *string
	Email    *string
	Birthday *time.Time
}

func (s *UserService) Update(ctx context.Context, username string, input UpdateInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	fields := map[string]string{}
	if input.Username != nil {
		if msg := validateUsername(strings.TrimSpace(*input.Username)); msg != "" {
			fields["username"] = msg
		}
	}
	if input.Email != nil {
		if !isValidEmail(normalizeEmail(*input.Email)) {
			fields["email"] = "does not appear to be a valid email"
		}
	}
	if input.Password != nil && strings.TrimSpace(*input.Password) == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return domain.User{}, &ValidationError{Fields: fields}
	}

	user, err := s.Get(ctx, username)
	if err != nil {
		return domain.User{}, err
	}

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.Birthday != nil {
		user.Birthday = input.Birthday
	}
	if input.Password != nil {
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.users.Update(ctx, username, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return domain.User{}, ErrUsernameTaken
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	err := s.users.Delete(ctx, strings.TrimSpace(username))
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

func (s *UserService) AddFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	user, err := s.users.AddFavorite(ctx, strings.TrimSpace(username), movieID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) RemoveFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	user, err := s.users.RemoveFavorite(ctx, strings.TrimSpace(username), movieID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func validateUsername(username string) string {
	if len(username) < minUsernameLen {
		return "must be at least 5 characters"
	}
	for _, r := range username {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit {
			return "contains non alphanumeric characters"
		}
	}
	return ""
}

func isValidEmail(emailAddr string) bool {
	if emailAddr == "" {
		return false
	}
	addr, err := mail.ParseAddress(emailAddr)
	return err == nil && addr.Address == emailAddr
}

func normalizeEmail(emailAddr string) string {
	return strings.ToLower(strings.TrimSpace(emailAddr))
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"movieflix/internal/domain"
	"movieflix/internal/repository"
)

type mockUserRepo struct {
	users       map[string]domain.User
	createCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	if _, ok := m.users[user.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	user, ok := m.users[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepo) Update(_ context.Context, username string, user domain.User) (domain.User, error) {
	if _, ok := m.users[username]; !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if user.Username != username {
		if _, taken := m.users[user.Username]; taken {
			return domain.User{}, repository.ErrDuplicateUsername
		}
	}
	delete(m.users, username)
	m.users[user.Username] = user
	return user, nil
}

func (m *mockUserRepo) Delete(_ context.Context, username string) error {
	if _, ok := m.users[username]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, username)
	return nil
}

func (m *mockUserRepo) AddFavorite(_ context.Context, username, movieID string) (domain.User, error) {
	user, ok := m.users[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	favorites := make([]string, 0, len(user.FavoriteMovies)+1)
	for _, id := range user.FavoriteMovies {
		if id != movieID {
			favorites = append(favorites, id)
		}
	}
	user.FavoriteMovies = append(favorites, movieID)
	m.users[username] = user
	return user, nil
}

func (m *mockUserRepo) RemoveFavorite(_ context.Context, username, movieID string) (domain.User, error) {
	user, ok := m.users[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	favorites := make([]string, 0, len(user.FavoriteMovies))
	for _, id := range user.FavoriteMovies {
		if id != movieID {
			favorites = append(favorites, id)
		}
	}
	user.FavoriteMovies = favorites
	m.users[username] = user
	return user, nil
}

func newTestUserService() (*UserService, *mockUserRepo) {
	repo := newMockUserRepo()
	return NewUserService(zap.NewNop(), repo), repo
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestUserService()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice1",
		Password: "Secr3t!",
		Email:    "a@x.com",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "Secr3t!" {
		t.Fatalf("expected stored hash, got %q", user.PasswordHash)
	}
	if user.FavoriteMovies == nil || len(user.FavoriteMovies) != 0 {
		t.Fatalf("expected empty favorites, got %v", user.FavoriteMovies)
	}

	got, err := svc.Authenticate(context.Background(), "alice1", "Secr3t!")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.Username != "alice1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUserService_AuthenticateGenericError(t *testing.T) {
	svc, _ := newTestUserService()
	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice1",
		Password: "Secr3t!",
		Email:    "a@x.com",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPass := svc.Authenticate(context.Background(), "alice1", "wrong")
	_, noUser := svc.Authenticate(context.Background(), "nobody1", "Secr3t!")

	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", noUser)
	}
}

func TestUserService_RegisterValidationEnumeratesFields(t *testing.T) {
	svc, repo := newTestUserService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "a!",
		Password: "",
		Email:    "not-an-email",
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"username", "email", "password"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Fatalf("expected field %q in validation error, got %v", field, ve.Fields)
		}
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no store calls on validation failure, got %d", repo.createCalls)
	}
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	svc, repo := newTestUserRepoWithAlice(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice1",
		Password: "Other1!",
		Email:    "other@x.com",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(repo.users))
	}
}

func TestUserService_UpdateRehashesPassword(t *testing.T) {
	svc, repo := newTestUserRepoWithAlice(t)
	oldHash := repo.users["alice1"].PasswordHash

	newPass := "N3wSecret!"
	updated, err := svc.Update(context.Background(), "alice1", UpdateInput{Password: &newPass})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PasswordHash == oldHash {
		t.Fatalf("expected password hash to change")
	}
	if !VerifyPassword(newPass, updated.PasswordHash) {
		t.Fatalf("expected new hash to verify new password")
	}
	if VerifyPassword("Secr3t!", updated.PasswordHash) {
		t.Fatalf("expected old password to stop verifying")
	}
}

func TestUserService_UpdateRejectsInvalidFields(t *testing.T) {
	svc, _ := newTestUserRepoWithAlice(t)

	bad := "x!"
	_, err := svc.Update(context.Background(), "alice1", UpdateInput{Username: &bad})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["username"]; !ok {
		t.Fatalf("expected username field, got %v", ve.Fields)
	}
}

func TestUserService_FavoritesSetSemantics(t *testing.T) {
	svc, _ := newTestUserRepoWithAlice(t)
	ctx := context.Background()

	if _, err := svc.AddFavorite(ctx, "alice1", "m1"); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	user, err := svc.AddFavorite(ctx, "alice1", "m1")
	if err != nil {
		t.Fatalf("add favorite again: %v", err)
	}
	if len(user.FavoriteMovies) != 1 || user.FavoriteMovies[0] != "m1" {
		t.Fatalf("expected favorites to behave as a set, got %v", user.FavoriteMovies)
	}

	user, err = svc.RemoveFavorite(ctx, "alice1", "m1")
	if err != nil {
		t.Fatalf("remove favorite: %v", err)
	}
	if len(user.FavoriteMovies) != 0 {
		t.Fatalf("expected empty favorites, got %v", user.FavoriteMovies)
	}
}

func TestUserService_DeleteNotFound(t *testing.T) {
	svc, _ := newTestUserService()
	if err := svc.Delete(context.Background(), "nobody1"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func newTestUserRepoWithAlice(t *testing.T) (*UserService, *mockUserRepo) {
	t.Helper()
	svc, repo := newTestUserService()
	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice1",
		Password: "Secr3t!",
		Email:    "a@x.com",
	}); err != nil {
		t.Fatalf("register alice1: %v", err)
	}
	return svc, repo
}

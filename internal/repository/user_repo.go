package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"movieflix/internal/domain"
)

// ErrDuplicateUsername señala una violación de unicidad sobre username.
// La restricción de la base es la única fuente de verdad: no hay chequeo
// de existencia previo al insert.
var ErrDuplicateUsername = errors.New("duplicate username")

// UserRepository define el contrato de persistencia para usuarios.
// List devuelve un slice vacío, nunca nil, cuando no hay registros.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, username string, user domain.User) (domain.User, error)
	Delete(ctx context.Context, username string) error
	AddFavorite(ctx context.Context, username, movieID string) (domain.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (domain.User, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, username, email, birthday, password_hash, favorite_movies, created_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, username, email, birthday, password_hash, favorite_movies, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Birthday,
		user.PasswordHash,
		user.FavoriteMovies,
		user.CreatedAt,
	)
	return mapUniqueViolation(err)
}

func (r *PgUserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY username
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Nunca nil: una tabla vacía serializa como [].
	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) Update(ctx context.Context, username string, user domain.User) (domain.User, error) {
	const query = `
		UPDATE users
		SET username = $1, email = $2, birthday = $3, password_hash = $4
		WHERE username = $5
		RETURNING ` + userColumns
	u, err := r.scanUser(r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.Birthday,
		user.PasswordHash,
		username,
	))
	if err != nil {
		return domain.User{}, mapUniqueViolation(err)
	}
	return u, nil
}

func (r *PgUserRepository) Delete(ctx context.Context, username string) error {
	const query = `DELETE FROM users WHERE username = $1`
	tag, err := r.pool.Exec(ctx, query, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) AddFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	// array_remove antes de array_append hace la operación idempotente:
	// la lista se comporta como conjunto.
	const query = `
		UPDATE users
		SET favorite_movies = array_append(array_remove(favorite_movies, $2), $2)
		WHERE username = $1
		RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, query, username, movieID))
}

func (r *PgUserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (domain.User, error) {
	const query = `
		UPDATE users
		SET favorite_movies = array_remove(favorite_movies, $2)
		WHERE username = $1
		RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, query, username, movieID))
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Birthday,
		&u.PasswordHash,
		&u.FavoriteMovies,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateUsername
	}
	return err
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"movieflix/internal/domain"
)

// MovieRepository define el contrato de lectura del catálogo.
// List devuelve un slice vacío, nunca nil, cuando el catálogo está vacío.
type MovieRepository interface {
	List(ctx context.Context) ([]domain.Movie, error)
	GetByTitle(ctx context.Context, title string) (domain.Movie, error)
	GetGenre(ctx context.Context, name string) (domain.Genre, error)
	GetDirector(ctx context.Context, name string) (domain.Director, error)
}

// PgMovieRepository implementa MovieRepository usando pgxpool.
type PgMovieRepository struct {
	pool *pgxpool.Pool
}

func NewPgMovieRepository(pool *pgxpool.Pool) *PgMovieRepository {
	return &PgMovieRepository{pool: pool}
}

const movieColumns = `id, title, description, genre_name, genre_description,
		director_name, director_bio, director_birth_year, director_death_year,
		release_year, image_path, featured`

func (r *PgMovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM movies
		ORDER BY title
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Nunca nil: un catálogo vacío serializa como [].
	movies := make([]domain.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *PgMovieRepository) GetByTitle(ctx context.Context, title string) (domain.Movie, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE title = $1
	`
	return scanMovie(r.pool.QueryRow(ctx, query, title))
}

func (r *PgMovieRepository) GetGenre(ctx context.Context, name string) (domain.Genre, error) {
	const query = `
		SELECT genre_name, genre_description
		FROM movies
		WHERE genre_name = $1
		LIMIT 1
	`
	var g domain.Genre
	err := r.pool.QueryRow(ctx, query, name).Scan(&g.Name, &g.Description)
	if err != nil {
		return domain.Genre{}, err
	}
	return g, nil
}

func (r *PgMovieRepository) GetDirector(ctx context.Context, name string) (domain.Director, error) {
	const query = `
		SELECT director_name, director_bio, director_birth_year, director_death_year
		FROM movies
		WHERE director_name = $1
		LIMIT 1
	`
	var d domain.Director
	err := r.pool.QueryRow(ctx, query, name).Scan(&d.Name, &d.Bio, &d.BirthYear, &d.DeathYear)
	if err != nil {
		return domain.Director{}, err
	}
	return d, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var m domain.Movie
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Genre.Name,
		&m.Genre.Description,
		&m.Director.Name,
		&m.Director.Bio,
		&m.Director.BirthYear,
		&m.Director.DeathYear,
		&m.ReleaseYear,
		&m.ImagePath,
		&m.Featured,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return m, nil
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"movieflix/internal/repository"
)

// MovieHandler expone el catálogo de solo lectura.
type MovieHandler struct {
	logger *zap.Logger
	movies repository.MovieRepository
}

func NewMovieHandler(logger *zap.Logger, movies repository.MovieRepository) *MovieHandler {
	return &MovieHandler{
		logger: logger,
		movies: movies,
	}
}

// ListMovies maneja GET /movies.
func (h *MovieHandler) ListMovies(c *gin.Context) {
	movies, err := h.movies.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list movies failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list movies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movies": movies})
}

// GetMovie maneja GET /movies/:title.
func (h *MovieHandler) GetMovie(c *gin.Context) {
	movie, err := h.movies.GetByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		h.logger.Error("get movie failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get movie"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movie": movie})
}

// GetGenre maneja GET /movies/genres/:name.
func (h *MovieHandler) GetGenre(c *gin.Context) {
	genre, err := h.movies.GetGenre(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "genre not found"})
			return
		}
		h.logger.Error("get genre failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get genre"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"genre": genre})
}

// GetDirector maneja GET /movies/directors/:name.
func (h *MovieHandler) GetDirector(c *gin.Context) {
	director, err := h.movies.GetDirector(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "director not found"})
			return
		}
		h.logger.Error("get director failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get director"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"director": director})
}

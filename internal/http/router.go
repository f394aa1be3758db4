package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"movieflix/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	userH *UserHandler,
	movieH *MovieHandler,
	jwtSvc *service.JWTService,
	userSvc *service.UserService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, CORS y JSON content-type.
	// El API es público: se acepta cualquier origen.
	corsCfg := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), cors.New(corsCfg), jsonContentTypeMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the movieflix API"})
	})

	// Rutas públicas: registro y login.
	r.POST("/users", userH.CreateUser)
	r.POST("/login", userH.Login)

	// Todo lo demás pasa por el auth gate, incluidas las lecturas del catálogo.
	authed := r.Group("/", JWTAuthMiddleware(jwtSvc, userSvc))
	authed.POST("/logout", userH.Logout)

	authed.GET("/users", userH.ListUsers)
	authed.GET("/users/:username", userH.GetUser)
	authed.PUT("/users/:username", userH.UpdateUser)
	authed.DELETE("/users/:username", userH.DeleteUser)
	authed.POST("/users/:username/movies/:movieID", userH.AddFavorite)
	authed.DELETE("/users/:username/movies/:movieID", userH.RemoveFavorite)

	authed.GET("/movies", movieH.ListMovies)
	authed.GET("/movies/:title", movieH.GetMovie)
	authed.GET("/movies/genres/:name", movieH.GetGenre)
	authed.GET("/movies/directors/:name", movieH.GetDirector)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTService emite y valida bearer tokens JWT firmados con HS256.
type JWTService struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	denylist TokenDenylist
}

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTService{
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   "movieflix",
		denylist: NewMemoryTokenDenylist(),
	}
}

func NewJWTServiceWithDenylist(secret string, ttl time.Duration, denylist TokenDenylist) *JWTService {
	svc := NewJWTService(secret, ttl)
	if denylist != nil {
		svc.denylist = denylist
	}
	return svc
}

// Issue firma un token para el usuario autenticado. No persiste nada:
// el token es la única evidencia de la sesión.
func (s *JWTService) Issue(username string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrJWTInvalid
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrJWTInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse valida firma, expiración, emisor y revocación, y devuelve los claims.
func (s *JWTService) Parse(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrJWTInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrJWTInvalid
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return Claims{}, err
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrJWTInvalid
	}
	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.Revoked(claims.ID)
		if err != nil || revoked {
			return Claims{}, ErrJWTInvalid
		}
	}
	return claims, nil
}

// Revoke agrega el jti del token a la denylist hasta su expiración natural.
func (s *JWTService) Revoke(tokenString string) error {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return err
	}
	if claims.ID == "" || claims.ExpiresAt == nil || s.denylist == nil {
		return ErrJWTInvalid
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.denylist.Revoke(claims.ID, ttl)
}

func (s *JWTService) parseToken(tokenString string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.Username) == "" {
		return false
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return false
	}
	if claims.Subject != claims.Username {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}

package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hackmap/internal/config"
)

const (
	Issuer = "hackmap"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenWrongType = errors.New("token has the wrong type")
)

type Claims struct {
	UserID    uuid.UUID `json:"uid"`
	Email     string    `json:"email,omitempty"`
	TokenType string    `json:"typ"`

	jwtlib.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Service issues and verifies session tokens. Access and refresh tokens are
// signed with different secrets, so one can never be accepted as the other.
type Service interface {
	IssuePair(userID uuid.UUID, email string) (Pair, error)
	ParseAccess(token string) (Claims, error)
	ParseRefresh(token string) (Claims, error)
}

type HMACService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewHMACService(cfg config.JWTConfig) *HMACService {
	return &HMACService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessExpiresIn,
		refreshTTL:    cfg.RefreshExpiresIn,
		now:           time.Now,
	}
}

func (s *HMACService) IssuePair(userID uuid.UUID, email string) (Pair, error) {
	access, err := s.sign(TokenTypeAccess, userID, email, s.accessSecret, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(TokenTypeRefresh, userID, "", s.refreshSecret, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *HMACService) ParseAccess(token string) (Claims, error) {
	return s.parse(token, TokenTypeAccess, s.accessSecret)
}

func (s *HMACService) ParseRefresh(token string) (Claims, error) {
	return s.parse(token, TokenTypeRefresh, s.refreshSecret)
}

func (s *HMACService) sign(tokenType string, userID uuid.UUID, email string, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 || ttl <= 0 {
		return "", ErrTokenInvalid
	}
	now := s.now().UTC()

	c := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(secret)
}

func (s *HMACService) parse(token, wantType string, secret []byte) (Claims, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || c.UserID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}
	if c.TokenType != wantType {
		return Claims{}, ErrTokenWrongType
	}
	return c, nil
}

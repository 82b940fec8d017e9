package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/campus-labs/lms-api/internal/models"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken indicates an access token whose signature, structure
	// or signing algorithm is not acceptable.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidRefreshRequest rejects a refresh exchange. It deliberately
	// covers unknown user, token mismatch and expired token as one
	// undifferentiated failure.
	ErrInvalidRefreshRequest = errors.New("invalid refresh request")
)

// refreshTokenTTL is the validity window granted on an extending issuance.
const refreshTokenTTL = 48 * time.Hour

// refreshTokenBytes is the amount of randomness behind each opaque token.
const refreshTokenBytes = 32

// AccessClaims is the claim set carried by every access token: subject
// name, subject id, audience, issuer and one role entry per membership.
type AccessClaims struct {
	Username string   `json:"name"`
	Roles    []string `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair is an access token plus the opaque refresh token that can
// later exchange it for a fresh pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenService issues signed access tokens, rotates refresh tokens and
// exchanges expired pairs for new ones.
type TokenService interface {
	// CreateTokenPair issues tokens for an authenticated user. The refresh
	// token value is always rotated; its stored deadline is only extended
	// when extendExpiry is set, so a non-extending issuance keeps counting
	// down on the old deadline.
	CreateTokenPair(ctx context.Context, user *models.User, extendExpiry bool) (*TokenPair, error)
	// Refresh exchanges a possibly-expired access token and its refresh
	// token for a new pair.
	Refresh(ctx context.Context, pair *TokenPair) (*TokenPair, error)
	// ParseAccessToken fully validates a live access token.
	ParseAccessToken(tokenString string) (*AccessClaims, error)
}

type tokenService struct {
	users        repository.UserRepository
	secret       []byte
	issuer       string
	audience     string
	accessExpiry time.Duration
	now          func() time.Time
}

// NewTokenService creates a new TokenService instance. It panics when the
// signing secret is empty: that is a configuration fault, not a request
// error.
func NewTokenService(users repository.UserRepository, secret, issuer, audience string, accessExpiry time.Duration) TokenService {
	if secret == "" {
		panic("token service: signing secret is not configured")
	}
	return &tokenService{
		users:        users,
		secret:       []byte(secret),
		issuer:       issuer,
		audience:     audience,
		accessExpiry: accessExpiry,
		now:          time.Now,
	}
}

func (s *tokenService) CreateTokenPair(ctx context.Context, user *models.User, extendExpiry bool) (*TokenPair, error) {
	if user == nil {
		panic("token service: nil user, credentials must be validated first")
	}

	roles, err := s.users.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles for user %s: %w", user.ID, err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	var expireTime *time.Time
	if extendExpiry {
		t := s.now().UTC().Add(refreshTokenTTL)
		expireTime = &t
	}

	// Rotation is not returned to the caller until the store accepted it;
	// a pair the store does not know about is worthless.
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshToken, expireTime); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	accessToken, err := s.signAccessToken(user, roles)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *tokenService) Refresh(ctx context.Context, pair *TokenPair) (*TokenPair, error) {
	claims, err := s.parseExpiredToken(pair.AccessToken)
	if err != nil {
		return nil, err
	}

	now := s.now()

	// One combined precondition: unknown user, mismatched token and expired
	// token are indistinguishable to the caller.
	user, err := s.users.FindByUsername(ctx, claims.Username)
	if err != nil ||
		user.RefreshToken == nil || *user.RefreshToken != pair.RefreshToken ||
		user.RefreshTokenExpireTime == nil || !user.RefreshTokenExpireTime.After(now) {
		return nil, ErrInvalidRefreshRequest
	}

	rotated, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	// Conditional rotation keyed on the supplied value: of two concurrent
	// exchanges with the same token, only the first matches the stored row.
	expireTime := now.UTC().Add(refreshTokenTTL)
	err = s.users.RotateRefreshToken(ctx, user.ID, pair.RefreshToken, rotated, expireTime)
	if errors.Is(err, repository.ErrTokenConflict) {
		return nil, ErrInvalidRefreshRequest
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	user.RefreshToken = &rotated
	user.RefreshTokenExpireTime = &expireTime

	// The deadline was just extended above, so issue without extending
	// again. The issuance still rotates the token value once more.
	return s.CreateTokenPair(ctx, user, false)
}

func (s *tokenService) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, s.keyFunc,
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// parseExpiredToken validates signature, structure, issuer and audience
// while tolerating an expired lifetime.
func (s *tokenService) parseExpiredToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, s.keyFunc,
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// WithoutClaimsValidation skips issuer/audience checks too; enforce
	// them by hand, only the lifetime check is meant to be disabled.
	if claims.Issuer != s.issuer || !containsAudience(claims.Audience, s.audience) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *tokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return s.secret, nil
}

func (s *tokenService) signAccessToken(user *models.User, roles []models.RoleName) (string, error) {
	now := s.now()

	roleClaims := make([]string, 0, len(roles))
	for _, role := range roles {
		roleClaims = append(roleClaims, string(role))
	}

	claims := AccessClaims{
		Username: user.Username,
		Roles:    roleClaims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func containsAudience(audience jwt.ClaimStrings, want string) bool {
	for _, aud := range audience {
		if aud == want {
			return true
		}
	}
	return false
}

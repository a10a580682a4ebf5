package devapi

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTokenTTL  = 5 * time.Minute
	RefreshTokenTTL = 24 * time.Hour
	Issuer          = "yoladmin-devapi"

	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
)

type UserClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	// Generation pins an access token to the issuer's current generation;
	// bumping it invalidates every outstanding access token at once.
	Generation int64 `json:"gen,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 access/refresh pairs and keeps an allow-list of
// live refresh tokens.
type TokenIssuer struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	mu         sync.Mutex
	generation int64
	refresh    map[string]struct{}
}

func NewTokenIssuer(key []byte, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = AccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = RefreshTokenTTL
	}
	return &TokenIssuer{
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		refresh:    make(map[string]struct{}),
	}
}

// Pair issues a fresh access and refresh token for userID.
func (t *TokenIssuer) Pair(userID int64) (access, refresh string, err error) {
	access, err = t.Access(userID)
	if err != nil {
		return "", "", err
	}

	jti := uuid.NewString()
	refresh, err = t.sign(UserClaims{UserID: userID, TokenType: tokenRefresh}, t.refreshTTL, jti)
	if err != nil {
		return "", "", err
	}
	t.mu.Lock()
	t.refresh[jti] = struct{}{}
	t.mu.Unlock()
	return access, refresh, nil
}

func (t *TokenIssuer) Access(userID int64) (string, error) {
	t.mu.Lock()
	gen := t.generation
	t.mu.Unlock()
	return t.sign(UserClaims{UserID: userID, TokenType: tokenAccess, Generation: gen}, t.accessTTL, uuid.NewString())
}

func (t *TokenIssuer) sign(claims UserClaims, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(claims.UserID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    Issuer,
		ID:        jti,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

func (t *TokenIssuer) parse(raw, kind string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &UserClaims{}, func(*jwt.Token) (any, error) {
		return t.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(Issuer))
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok || claims.TokenType != kind {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyAccess validates signature, expiry and generation of an access token.
func (t *TokenIssuer) VerifyAccess(raw string) (*UserClaims, error) {
	claims, err := t.parse(raw, tokenAccess)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if claims.Generation != t.generation {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Refresh trades a live refresh token for a new access token. The refresh
// token itself is not rotated.
func (t *TokenIssuer) Refresh(raw string) (string, error) {
	claims, err := t.parse(raw, tokenRefresh)
	if err != nil {
		return "", err
	}
	t.mu.Lock()
	_, live := t.refresh[claims.ID]
	t.mu.Unlock()
	if !live {
		return "", ErrTokenInvalid
	}
	return t.Access(claims.UserID)
}

// InvalidateAccessTokens makes every access token issued so far answer 401.
func (t *TokenIssuer) InvalidateAccessTokens() {
	t.mu.Lock()
	t.generation++
	t.mu.Unlock()
}

// RevokeRefreshTokens empties the allow-list.
func (t *TokenIssuer) RevokeRefreshTokens() {
	t.mu.Lock()
	t.refresh = make(map[string]struct{})
	t.mu.Unlock()
}

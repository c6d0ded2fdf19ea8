package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultIssuer   = "pacer"
	DefaultTokenTTL = 12 * time.Hour

	minSecretLength = 32
)

var (
	ErrSecretTooShort = errors.New("auth: secret must be at least 32 bytes")
	ErrTokenMissing   = errors.New("auth: bearer token missing")
	ErrTokenInvalid   = errors.New("auth: token invalid")
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrForbidden      = errors.New("auth: role not allowed")
	ErrSubjectEmpty   = errors.New("auth: subject is required")
)

// Config controls token issuance and verification.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// Claims are the validated contents of an admin token.
type Claims struct {
	Subject   string
	Role      string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Tokens issues and verifies HS256 tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens validates cfg and returns a token service.
func NewTokens(cfg Config) (*Tokens, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Tokens{
		secret: []byte(cfg.Secret),
		issuer: strings.TrimSpace(cfg.Issuer),
		ttl:    cfg.TTL,
		now:    cfg.Now,
	}, nil
}

// Issue signs a token for subject with role.
func (t *Tokens) Issue(subject, role string) (string, Claims, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", Claims{}, ErrSubjectEmpty
	}
	now := t.now().UTC().Truncate(time.Second)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
		Role: strings.ToLower(strings.TrimSpace(role)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, toClaims(claims), nil
}

// Verify checks signature, algorithm, issuer and expiry.
func (t *Tokens) Verify(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrTokenMissing
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if parsed.Issuer != t.issuer {
		return Claims{}, fmt.Errorf("%w: issuer mismatch", ErrTokenInvalid)
	}
	if parsed.Subject == "" {
		return Claims{}, fmt.Errorf("%w: subject missing", ErrTokenInvalid)
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: exp missing", ErrTokenInvalid)
	}
	now := t.now().UTC()
	if !parsed.ExpiresAt.Time.After(now) {
		return Claims{}, ErrTokenExpired
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time) {
		return Claims{}, fmt.Errorf("%w: not active yet", ErrTokenInvalid)
	}
	return toClaims(parsed), nil
}

func toClaims(c tokenClaims) Claims {
	out := Claims{
		Subject: c.Subject,
		Role:    c.Role,
		Issuer:  c.Issuer,
		TokenID: c.ID,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return out
}

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(Claims)
	return claims, ok
}

// ContextWithClaims stores claims on ctx.
func ContextWithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// Middleware requires a valid bearer token whose role is one of roles.
// onError writes the failure response.
func (t *Tokens) Middleware(roles []string, onError func(http.ResponseWriter, *http.Request, int, error)) func(http.Handler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, status int, err error) {
			http.Error(w, err.Error(), status)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := t.Verify(BearerToken(r))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="pacer"`)
				onError(w, r, http.StatusUnauthorized, err)
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
				onError(w, r, http.StatusForbidden, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

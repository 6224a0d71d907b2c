package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"commandcentre/internal/domain"
	gw "commandcentre/internal/gateway"
	"commandcentre/internal/platform/telemetry"
)

const maxClockSkew = 30 * time.Second

const msgInvalidToken = "Invalid or expired token"

// Authenticate returns a middleware that validates HS256 Bearer tokens and
// attaches the resulting principal to the request context.
// Requests without an Authorization header pass through unauthenticated; the
// enforcement gate decides whether that is acceptable.
// An empty issuer disables the issuer check. Pass nil metrics to skip recording.
func Authenticate(secret []byte, issuer string, m *telemetry.Metrics) Middleware {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(maxClockSkew),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr, ok := extractBearerToken(r)
			if !ok {
				m.RecordAuthValidation(r.Context(), "failure")
				writeError(w, http.StatusUnauthorized, domain.ErrorResponse{Message: msgInvalidToken})
				return
			}

			// SECURITY: HS256 only, which rules out "none" and RS/HS confusion.
			token, err := parser.Parse(tokenStr, keyFunc)
			if err != nil || !token.Valid {
				result := "failure"
				if errors.Is(err, jwt.ErrTokenExpired) {
					result, err = "expired", fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
				}
				slog.Debug("auth validation failed", "error", err)
				m.RecordAuthValidation(r.Context(), result)
				writeError(w, http.StatusUnauthorized, domain.ErrorResponse{Message: msgInvalidToken})
				return
			}

			principal, err := extractPrincipal(token.Claims)
			if err != nil {
				slog.Debug("extracting principal", "error", err)
				m.RecordAuthValidation(r.Context(), "failure")
				writeError(w, http.StatusUnauthorized, domain.ErrorResponse{Message: msgInvalidToken})
				return
			}

			m.RecordAuthValidation(r.Context(), "success")
			next.ServeHTTP(w, attachPrincipal(r, principal, gw.AuthBearer))
		})
	}
}

func extractBearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func extractPrincipal(claims jwt.Claims) (domain.Principal, error) {
	mc, ok := claims.(jwt.MapClaims)
	if !ok {
		return domain.Principal{}, domain.ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	email, _ := mc["email"].(string)

	// Unknown role or department names are dropped rather than rejected so
	// that a token minted by a newer identity service still authenticates.
	var roles []domain.Role
	for _, s := range stringList(mc["roles"]) {
		if r := domain.Role(s); r.Valid() {
			roles = append(roles, r)
		}
	}
	var depts []domain.Department
	for _, s := range stringList(mc["departments"]) {
		if d := domain.Department(s); d.Valid() {
			depts = append(depts, d)
		}
	}

	return domain.Principal{
		ID:          sub,
		Email:       email,
		Roles:       roles,
		Departments: depts,
	}, nil
}

// stringList accepts either a JSON array of strings or a space-separated string.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return strings.Fields(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	default:
		return nil
	}
}

// SignToken issues an HS256 token carrying the claims Authenticate reads.
// An empty issuer omits the iss claim.
func SignToken(secret []byte, issuer string, p domain.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	roles := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		roles[i] = string(r)
	}
	depts := make([]string, len(p.Departments))
	for i, d := range p.Departments {
		depts[i] = string(d)
	}

	claims := jwt.MapClaims{
		"sub":         p.ID,
		"email":       p.Email,
		"roles":       roles,
		"departments": depts,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}
	if issuer != "" {
		claims["iss"] = issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

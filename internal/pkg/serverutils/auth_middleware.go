package serverutils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/supabase-community/supabase-go"
)

const sessionKey = "session"

// TokenVerifier turns a bearer access token into the signed-in user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*entity.Session, error)
}

// JWTVerifier checks HS256 tokens signed with the project's JWT secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenStr string) (*entity.Session, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("jwt secret not configured: %w", contract.ErrAuthRequired)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", contract.ErrAuthRequired)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token has no subject: %w", contract.ErrAuthRequired)
	}
	email, _ := claims["email"].(string)

	return &entity.Session{UserId: sub, Email: email, AccessToken: tokenStr}, nil
}

// SupabaseVerifier asks the auth server who owns the token.
type SupabaseVerifier struct {
	client *supabase.Client
}

func NewSupabaseVerifier(url, key string) (*SupabaseVerifier, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseVerifier{client: client}, nil
}

func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (*entity.Session, error) {
	// GetUser takes no context; the call is bounded by the client's own timeout.
	user, err := v.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w: %v", contract.ErrAuthRequired, err)
	}
	return &entity.Session{UserId: user.ID.String(), Email: user.Email, AccessToken: token}, nil
}

// AuthMiddleware attaches the session of a bearer token. Requests without a
// token pass through unless required is set; a bad token is always rejected.
func AuthMiddleware(verifier TokenVerifier, required bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			if required {
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
			}
			return ctx.Next()
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		session, err := verifier.Verify(ctx.UserContext(), strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			message := "Invalid token"
			if !errors.Is(err, contract.ErrAuthRequired) {
				message = "Token verification failed"
			}
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, message))
		}

		ctx.Locals(sessionKey, session)
		return ctx.Next()
	}
}

// SessionFrom returns the session attached by AuthMiddleware, or nil.
func SessionFrom(ctx *fiber.Ctx) *entity.Session {
	session, _ := ctx.Locals(sessionKey).(*entity.Session)
	return session
}

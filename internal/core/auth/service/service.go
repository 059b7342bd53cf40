package authapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"postsapi/internal/core/apperror"
	userapp "postsapi/internal/core/user/service"
	tokenPort "postsapi/internal/ports/token"
	userPort "postsapi/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	issuer    = "posts-api"
	tokenType = "bearer"
)

// AuthService issues and verifies access tokens.
type AuthService struct {
	UserRepository userPort.UserRepository
	Denylist       tokenPort.Denylist

	jwtKey []byte
	ttl    time.Duration
	logger *zap.Logger

	now func() time.Time
}

func NewAuthService(repo userPort.UserRepository, denylist tokenPort.Denylist, jwtKey []byte, ttl time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		UserRepository: repo,
		Denylist:       denylist,
		jwtKey:         jwtKey,
		ttl:            ttl,
		logger:         logger,
		now:            time.Now,
	}
}

// LoginUser checks the credentials and returns a signed access token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*tokenPort.Token, error) {
	u, err := s.UserRepository.FindByEmail(ctx, userapp.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("login for unknown email")
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Info("invalid password", zap.Uint("userID", u.ID))
		return nil, invalidCredentials()
	}

	signed, err := s.generateJWT(u.ID)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	return &tokenPort.Token{AccessToken: signed, TokenType: tokenType}, nil
}

// Authenticate resolves the user behind a bearer token. Every failure is
// reported as Unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*userPort.UserDTO, *tokenPort.Claims, error) {
	claims, err := s.parseJWT(raw)
	if err != nil {
		s.logger.Debug("rejected token", zap.Error(err))
		return nil, nil, unauthenticated()
	}

	revoked, err := s.Denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.Error("could not check token revocation", zap.Error(err))
		return nil, nil, unauthenticated()
	}
	if revoked {
		return nil, nil, unauthenticated()
	}

	u, err := s.UserRepository.FindByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("could not load token owner", zap.Uint("userID", claims.UserID), zap.Error(err))
		}
		return nil, nil, unauthenticated()
	}
	return userPort.ToDTO(u), claims, nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *tokenPort.Claims) error {
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.Denylist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("token revoked", zap.Uint("userID", claims.UserID))
	return nil
}

func (s *AuthService) generateJWT(userID uint) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	now := s.now()
	claims := &jwt.StandardClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Id:        jti.String(),
		Issuer:    issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

func (s *AuthService) parseJWT(raw string) (*tokenPort.Claims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Issuer != issuer {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("bad subject %q", claims.Subject)
	}
	if claims.Id == "" || claims.ExpiresAt == 0 {
		return nil, errors.New("token has no id or expiry")
	}
	return &tokenPort.Claims{
		UserID:    uint(id),
		TokenID:   claims.Id,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

func invalidCredentials() error {
	return apperror.Forbiddenf("Invalid Credentials")
}

func unauthenticated() error {
	return apperror.New(apperror.Unauthorized, "Could not validate credentials")
}

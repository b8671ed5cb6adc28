package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/Skotchmaster/vitrine/internal/models"
	"github.com/Skotchmaster/vitrine/internal/repo"
	"github.com/Skotchmaster/vitrine/pkg/events"
	pkg_hash "github.com/Skotchmaster/vitrine/pkg/hash"
	"github.com/Skotchmaster/vitrine/pkg/logging"
	"github.com/Skotchmaster/vitrine/pkg/tokens"
)

const MinPasswordLen = 6

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        events.Publisher
}

type LoginResult struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return "", validation("invalid email")
	}
	return email, nil
}

func checkPasswordPair(password, confirm string) error {
	if password != confirm {
		return validation("passwords do not match")
	}
	if len(password) < MinPasswordLen {
		return validation("password must have at least 6 characters")
	}
	return nil
}

// newUser validates the credentials and hashes the password. Nothing is stored.
func newUser(ctx context.Context, email, password string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLen {
		return nil, validation("password must have at least 6 characters")
	}
	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		logging.FromContext(ctx).Error("sign_up_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	return &models.User{Email: email, PasswordHash: pwHash}, nil
}

func (s *AuthService) signedUp(ctx context.Context, l *slog.Logger, u *models.User) {
	publish(ctx, l, s.Events, events.TopicAuth, u.ID.String(), map[string]any{
		"type":   "signed_up",
		"userID": u.ID.String(),
	})
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_up")
	u, err := newUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.FindUserByEmail(ctx, u.Email); err == nil {
		return nil, fmt.Errorf("user %s: %w", u.Email, ErrConflict)
	} else if err = translate("find user", err); !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, translate("create user", err)
	}
	s.signedUp(ctx, l, u)
	return u, nil
}

func (s *AuthService) issue(ctx context.Context, u *models.User) (*LoginResult, models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	access, err := tokens.SignAccess(u.ID.String(), u.Email, accessExp, s.JWTSecret)
	if err != nil {
		return nil, models.RefreshToken{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, jti, err := tokens.SignRefresh(u.ID.String(), refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, models.RefreshToken{}, fmt.Errorf("sign refresh token: %w", err)
	}

	row := models.RefreshToken{
		JTI:       jti,
		TokenHash: tokens.Sha256Hex(refresh),
		UserID:    u.ID,
		ExpiresAt: refreshExp.UTC(),
	}
	return &LoginResult{
		UserID:       u.ID.String(),
		Email:        u.Email,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, row, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_in")
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if err = translate("find user", err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(u.PasswordHash, password) {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	res, row, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateRefreshToken(ctx, &row); err != nil {
		return nil, translate("store refresh token", err)
	}

	publish(ctx, l, s.Events, events.TopicAuth, res.UserID, map[string]any{
		"type":   "signed_in",
		"userID": res.UserID,
	})
	return res, nil
}

// SignOut revokes the refresh token. Tokens that do not parse, are unknown or
// were already revoked have nothing to revoke.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.sign_out")
	if refreshToken == "" {
		return nil
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil
	}
	row, err := s.Repo.FindRefreshByJTI(ctx, claims.ID)
	if err != nil {
		if err = translate("find refresh token", err); errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if row.Revoked || row.TokenHash != tokens.Sha256Hex(refreshToken) {
		return nil
	}
	if err := s.Repo.RevokeRefresh(ctx, claims.ID); err != nil {
		return translate("revoke refresh token", err)
	}
	publish(ctx, l, s.Events, events.TopicAuth, claims.Subject, map[string]any{
		"type":   "signed_out",
		"userID": claims.Subject,
	})
	return nil
}

// Refresh rotates a refresh token: the old one is revoked and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w: %w", ErrUnauthorized, err)
	}
	u, err := s.Repo.GetUser(ctx, claims.Subject)
	if err != nil {
		if err = translate("get user", err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("refresh token user: %w", ErrUnauthorized)
		}
		return nil, err
	}

	res, row, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, tokens.Sha256Hex(refreshToken), &row); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) {
			return nil, fmt.Errorf("refresh token: %w: %w", ErrUnauthorized, err)
		}
		return nil, translate("rotate refresh token", err)
	}
	return res, nil
}

// Identity resolves an access token. Expired tokens return an error that
// also matches jwt.ErrTokenExpired.
func (s *AuthService) Identity(_ context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("missing access token: %w", ErrUnauthorized)
	}
	claims, err := tokens.AccessClaimsFromToken(accessToken, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("access token: %w: %w", ErrUnauthorized, err)
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// ChangePassword stores the new password and revokes every refresh token of
// the user, signing out other sessions. The caller gets a fresh session back.
func (s *AuthService) ChangePassword(ctx context.Context, userID, password, confirm string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.change_password")
	if err := checkPasswordPair(password, confirm); err != nil {
		return nil, err
	}
	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdatePassword(ctx, userID, pwHash); err != nil {
		return nil, translate("update password", err)
	}
	if err := s.Repo.RevokeUserTokens(ctx, userID); err != nil {
		return nil, translate("revoke user tokens", err)
	}
	publish(ctx, l, s.Events, events.TopicAuth, userID, map[string]any{
		"type":   "password_changed",
		"userID": userID,
	})

	u, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, translate("get user", err)
	}
	res, row, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateRefreshToken(ctx, &row); err != nil {
		return nil, translate("store refresh token", err)
	}
	return res, nil
}

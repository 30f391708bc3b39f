// Package services contains server-side business logic. This file implements
// AuthService: signup, password login, remember-me issuance, cookie-based
// session restoration, and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dkoval/companyportal/internal/common"
	"github.com/dkoval/companyportal/internal/server/auth"
	"github.com/dkoval/companyportal/internal/server/config"
	"github.com/dkoval/companyportal/internal/server/models"
	"github.com/dkoval/companyportal/internal/server/repositories/users"
	"github.com/dkoval/companyportal/internal/server/session"
)

const minPasswordLength = 6

// AuthService orchestrates the credential store, the remember-token codec,
// and the session manager.
type AuthService struct {
	repo             users.Repository
	rememberValidity time.Duration
}

func NewAuthService(repo users.Repository, cfg *config.Config) *AuthService {
	return &AuthService{
		repo:             repo,
		rememberValidity: cfg.RememberTokenValidityDuration,
	}
}

// SignupRequest carries the signup form fields.
type SignupRequest struct {
	Username             string
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Signup validates the request, hashes the password, and creates the user.
// Field problems come back as common.ValidationErrors; duplicate email or
// username surface as the corresponding sentinel errors.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	var errs common.ValidationErrors

	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" {
		errs = append(errs, "Username is required.")
	}
	if name == "" {
		errs = append(errs, "Full name is required.")
	}
	if email == "" {
		errs = append(errs, "Email is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, "Please enter a valid email address.")
	}
	if req.Password == "" {
		errs = append(errs, "Password is required.")
	} else if len(req.Password) < minPasswordLength {
		errs = append(errs, "Password must be at least 6 characters long.")
	}
	if req.PasswordConfirmation == "" {
		errs = append(errs, "Please confirm your password.")
	} else if req.Password != "" && req.Password != req.PasswordConfirmation {
		errs = append(errs, "Passwords do not match.")
	}

	if errs.HasErrors() {
		return nil, errs
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) || errors.Is(err, common.ErrorDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// LoginResult tells the HTTP layer what to do after a successful login.
type LoginResult struct {
	Identity   models.Identity
	RedirectTo string
	// Remember holds a freshly issued token when the caller opted in;
	// nil means any previously issued remember cookie must be cleared.
	Remember *auth.IssuedToken
}

// Login verifies the password for the given login (email or username) and
// establishes the session. Unknown accounts and wrong passwords both map to
// the same generic common.ErrorInvalidCredentials so responses do not leak
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, sess *session.Manager, login, password string, remember bool) (*LoginResult, error) {
	var errs common.ValidationErrors
	login = strings.TrimSpace(login)
	if login == "" {
		errs = append(errs, "Email or username is required.")
	}
	if password == "" {
		errs = append(errs, "Password is required.")
	}
	if errs.HasErrors() {
		return nil, errs
	}

	user, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	identity := models.Identity{ID: user.ID, Name: user.Name, Email: user.Email}
	sess.Login(identity)

	result := &LoginResult{Identity: identity, RedirectTo: "/"}
	if target := sess.PopRedirectTo(); target != "" {
		result.RedirectTo = target
	}

	if remember {
		issued, err := s.issueRememberToken(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		result.Remember = issued
	} else {
		// opting out proactively revokes any earlier token
		if err := s.repo.UpdateRememberToken(ctx, user.ID, nil, nil); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *AuthService) issueRememberToken(ctx context.Context, userID int64) (*auth.IssuedToken, error) {
	issued, err := auth.IssueRememberToken(userID, s.rememberValidity)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashRememberSecret(issued.Secret)
	if err != nil {
		return nil, fmt.Errorf("error hashing remember token: %w", err)
	}

	if err := s.repo.UpdateRememberToken(ctx, userID, &hash, &issued.ExpiresAt); err != nil {
		return nil, err
	}

	return issued, nil
}

// RestoreResult tells the HTTP layer the outcome of a cookie restoration.
type RestoreResult struct {
	// Restored is the identity recovered from the cookie, nil when the
	// session stays anonymous.
	Restored *models.Identity
	// ClearCookie instructs the caller to expire the remember cookie.
	ClearCookie bool
}

// RestoreFromCookie attempts to re-authenticate a client from its remember
// cookie. It is idempotent and never fails the request: every invalid-token
// condition falls back to an anonymous session, clearing both the cookie and
// the stored hash. A missing user is tolerated, since the cookie may
// reference a deleted account.
func (s *AuthService) RestoreFromCookie(ctx context.Context, sess *session.Manager, cookieValue string) (*RestoreResult, error) {
	if sess.Current() != nil || cookieValue == "" {
		return &RestoreResult{}, nil
	}

	userID, secret, err := auth.ParseRememberCookie(cookieValue)
	if err != nil {
		// malformed cookie, nothing server-side to clean up
		return &RestoreResult{}, nil
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &RestoreResult{ClearCookie: true}, nil
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if user.RememberTokenHash == nil || user.RememberTokenExpires == nil ||
		user.RememberTokenExpires.Before(time.Now()) ||
		!auth.VerifyRememberSecret(secret, *user.RememberTokenHash) {
		if err := s.repo.UpdateRememberToken(ctx, userID, nil, nil); err != nil {
			return nil, err
		}
		return &RestoreResult{ClearCookie: true}, nil
	}

	identity := models.Identity{ID: user.ID, Name: user.Name, Email: user.Email}
	sess.Login(identity)

	return &RestoreResult{Restored: &identity}, nil
}

// Logout revokes the current identity's remember token and destroys the
// session. It is idempotent: logging out an anonymous session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sess *session.Manager) error {
	identity := sess.Current()
	sess.Logout()

	if identity == nil {
		return nil
	}

	if err := s.repo.UpdateRememberToken(ctx, identity.ID, nil, nil); err != nil {
		return err
	}

	return nil
}

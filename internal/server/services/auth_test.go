package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/companyportal/internal/common"
	"github.com/dkoval/companyportal/internal/server/auth"
	"github.com/dkoval/companyportal/internal/server/config"
	"github.com/dkoval/companyportal/internal/server/models"
	"github.com/dkoval/companyportal/internal/server/session"
)

// --- helpers ---

type fakeUsersRepo struct {
	nextID int64
	users  map[int64]*models.User

	createErr error
	getErr    error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{nextID: 1, users: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, common.ErrorDuplicateEmail
		}
		if u.Username == user.Username {
			return nil, common.ErrorDuplicateUsername
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == strings.ToLower(login) || u.Username == login {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateRememberToken(ctx context.Context, id int64, hash *string, expires *time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if u, ok := f.users[id]; ok {
		u.RememberTokenHash = hash
		u.RememberTokenExpires = expires
	}
	return nil
}

func newAuthService(repo *fakeUsersRepo) *AuthService {
	cfg := &config.Config{RememberTokenValidityDuration: 30 * 24 * time.Hour}
	return NewAuthService(repo, cfg)
}

func signupAlice(t *testing.T, s *AuthService) *models.User {
	t.Helper()
	u, err := s.Signup(context.Background(), SignupRequest{
		Username:             "alice",
		Name:                 "Alice",
		Email:                "alice@x.com",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	})
	require.NoError(t, err)
	return u
}

// --- signup ---

func TestSignup_Success(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)

	u := signupAlice(t, s)

	assert.Equal(t, "alice@x.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, auth.VerifyPassword("secret1", u.PasswordHash),
		"stored hash must verify against the original password")
}

func TestSignup_LowercasesEmail(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)

	u, err := s.Signup(context.Background(), SignupRequest{
		Username: "bob", Name: "Bob", Email: "Bob@X.Com",
		Password: "secret1", PasswordConfirmation: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", u.Email)
}

func TestSignup_CollectsValidationErrors(t *testing.T) {
	s := newAuthService(newFakeUsersRepo())

	_, err := s.Signup(context.Background(), SignupRequest{
		Password: "abc", PasswordConfirmation: "xyz",
	})

	var errs common.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "Username is required.")
	assert.Contains(t, errs, "Full name is required.")
	assert.Contains(t, errs, "Email is required.")
	assert.Contains(t, errs, "Password must be at least 6 characters long.")
}

func TestSignup_PasswordMismatch(t *testing.T) {
	s := newAuthService(newFakeUsersRepo())

	_, err := s.Signup(context.Background(), SignupRequest{
		Username: "bob", Name: "Bob", Email: "bob@x.com",
		Password: "secret1", PasswordConfirmation: "secret2",
	})

	var errs common.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "Passwords do not match.")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	signupAlice(t, s)

	_, err := s.Signup(context.Background(), SignupRequest{
		Username: "alice2", Name: "Alice Again", Email: "alice@x.com",
		Password: "secret1", PasswordConfirmation: "secret1",
	})
	assert.ErrorIs(t, err, common.ErrorDuplicateEmail)
}

// --- login ---

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	signupAlice(t, s)

	sess := session.NewManager(session.NewMemoryStore())
	_, err := s.Login(context.Background(), sess, "alice@x.com", "wrong", false)

	assert.ErrorIs(t, err, common.ErrorInvalidCredentials)
	assert.Nil(t, sess.Current(), "no session must be created on failed login")
}

func TestLogin_UnknownAccountSameError(t *testing.T) {
	s := newAuthService(newFakeUsersRepo())

	sess := session.NewManager(session.NewMemoryStore())
	_, err := s.Login(context.Background(), sess, "nobody@x.com", "whatever", false)

	assert.ErrorIs(t, err, common.ErrorInvalidCredentials,
		"unknown account and wrong password must be indistinguishable")
}

func TestLogin_ByUsername(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	signupAlice(t, s)

	sess := session.NewManager(session.NewMemoryStore())
	res, err := s.Login(context.Background(), sess, "alice", "secret1", false)
	require.NoError(t, err)

	assert.Equal(t, "alice@x.com", res.Identity.Email)
	require.NotNil(t, sess.Current())
	assert.Equal(t, res.Identity.ID, sess.Current().ID)
}

func TestLogin_EmptyFieldsValidation(t *testing.T) {
	s := newAuthService(newFakeUsersRepo())

	sess := session.NewManager(session.NewMemoryStore())
	_, err := s.Login(context.Background(), sess, "", "", false)

	var errs common.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "Email or username is required.")
	assert.Contains(t, errs, "Password is required.")
}

func TestLogin_PopsRedirectTarget(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	signupAlice(t, s)

	sess := session.NewManager(session.NewMemoryStore())
	sess.SetRedirectTo("/employees")

	res, err := s.Login(context.Background(), sess, "alice@x.com", "secret1", false)
	require.NoError(t, err)
	assert.Equal(t, "/employees", res.RedirectTo)

	// popped: a second login falls back to the default
	res2, err := s.Login(context.Background(), sess, "alice@x.com", "secret1", false)
	require.NoError(t, err)
	assert.Equal(t, "/", res2.RedirectTo)
}

func TestLogin_RememberOptIn_IssuesToken(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	u := signupAlice(t, s)

	sess := session.NewManager(session.NewMemoryStore())
	res, err := s.Login(context.Background(), sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)

	require.NotNil(t, res.Remember)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), res.Remember.ExpiresAt, 5*time.Second)

	stored := repo.users[u.ID]
	require.NotNil(t, stored.RememberTokenHash)
	require.NotNil(t, stored.RememberTokenExpires)
	assert.True(t, auth.VerifyRememberSecret(res.Remember.Secret, *stored.RememberTokenHash))
	assert.NotContains(t, *stored.RememberTokenHash, res.Remember.Secret,
		"secret must only be stored hashed")
}

func TestLogin_RememberOptIn_RotatesToken(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	u := signupAlice(t, s)
	ctx := context.Background()

	sess := session.NewManager(session.NewMemoryStore())
	first, err := s.Login(ctx, sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)
	second, err := s.Login(ctx, sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)

	stored := repo.users[u.ID]
	assert.False(t, auth.VerifyRememberSecret(first.Remember.Secret, *stored.RememberTokenHash),
		"old secret must stop verifying after rotation")
	assert.True(t, auth.VerifyRememberSecret(second.Remember.Secret, *stored.RememberTokenHash))
}

func TestLogin_RememberOptOut_ClearsStoredToken(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	u := signupAlice(t, s)
	ctx := context.Background()

	sess := session.NewManager(session.NewMemoryStore())
	_, err := s.Login(ctx, sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)

	res, err := s.Login(ctx, sess, "alice@x.com", "secret1", false)
	require.NoError(t, err)
	assert.Nil(t, res.Remember)

	stored := repo.users[u.ID]
	assert.Nil(t, stored.RememberTokenHash)
	assert.Nil(t, stored.RememberTokenExpires)
}

// --- cookie restoration ---

func TestRestoreFromCookie_FreshSessionSameIdentity(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	signupAlice(t, s)
	ctx := context.Background()

	sess := session.NewManager(session.NewMemoryStore())
	login, err := s.Login(ctx, sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)

	// a brand-new session, as if the browser only kept the remember cookie
	fresh := session.NewManager(session.NewMemoryStore())
	res, err := s.RestoreFromCookie(ctx, fresh, login.Remember.CookieValue)
	require.NoError(t, err)

	require.NotNil(t, res.Restored)
	assert.False(t, res.ClearCookie)
	assert.Equal(t, login.Identity, *res.Restored)
	require.NotNil(t, fresh.Current())
	assert.Equal(t, login.Identity.ID, fresh.Current().ID)
}

func TestRestoreFromCookie_AlreadyAuthenticatedNoop(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	signupAlice(t, s)
	ctx := context.Background()

	sess := session.NewManager(session.NewMemoryStore())
	login, err := s.Login(ctx, sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)

	res, err := s.RestoreFromCookie(ctx, sess, login.Remember.CookieValue)
	require.NoError(t, err)
	assert.Nil(t, res.Restored)
	assert.False(t, res.ClearCookie)
}

func TestRestoreFromCookie_MalformedStaysAnonymous(t *testing.T) {
	s := newAuthService(newFakeUsersRepo())
	sess := session.NewManager(session.NewMemoryStore())

	for _, value := range []string{"garbage", ":", "abc:def", "-1:secret"} {
		res, err := s.RestoreFromCookie(context.Background(), sess, value)
		require.NoError(t, err)
		assert.Nil(t, res.Restored)
		assert.False(t, res.ClearCookie, "malformed cookie needs no server-side cleanup")
		assert.Nil(t, sess.Current())
	}
}

func TestRestoreFromCookie_DeletedUserClearsCookie(t *testing.T) {
	s := newAuthService(newFakeUsersRepo())
	sess := session.NewManager(session.NewMemoryStore())

	res, err := s.RestoreFromCookie(context.Background(), sess, "42:deadbeef")
	require.NoError(t, err)
	assert.True(t, res.ClearCookie)
	assert.Nil(t, sess.Current())
}

func TestRestoreFromCookie_ExpiredTokenClearsStoredHash(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	u := signupAlice(t, s)
	ctx := context.Background()

	sess := session.NewManager(session.NewMemoryStore())
	login, err := s.Login(ctx, sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)

	// manually expire the stored token; the secret itself still matches
	past := time.Now().Add(-time.Hour)
	repo.users[u.ID].RememberTokenExpires = &past

	fresh := session.NewManager(session.NewMemoryStore())
	res, err := s.RestoreFromCookie(ctx, fresh, login.Remember.CookieValue)
	require.NoError(t, err)

	assert.Nil(t, res.Restored)
	assert.True(t, res.ClearCookie)
	assert.Nil(t, fresh.Current())
	assert.Nil(t, repo.users[u.ID].RememberTokenHash, "stored hash must be cleared as a side effect")
	assert.Nil(t, repo.users[u.ID].RememberTokenExpires)
}

func TestRestoreFromCookie_WrongSecretClearsStoredHash(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	u := signupAlice(t, s)
	ctx := context.Background()

	sess := session.NewManager(session.NewMemoryStore())
	_, err := s.Login(ctx, sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)

	fresh := session.NewManager(session.NewMemoryStore())
	res, err := s.RestoreFromCookie(ctx, fresh, "1:0000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)

	assert.True(t, res.ClearCookie)
	assert.Nil(t, fresh.Current())
	assert.Nil(t, repo.users[u.ID].RememberTokenHash)
}

// --- logout ---

func TestLogout_RevokesRememberToken(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	u := signupAlice(t, s)
	ctx := context.Background()

	sess := session.NewManager(session.NewMemoryStore())
	login, err := s.Login(ctx, sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, sess))
	assert.Nil(t, sess.Current())
	assert.Nil(t, repo.users[u.ID].RememberTokenHash)

	// the previously valid cookie must now fail restoration
	fresh := session.NewManager(session.NewMemoryStore())
	res, err := s.RestoreFromCookie(ctx, fresh, login.Remember.CookieValue)
	require.NoError(t, err)
	assert.Nil(t, res.Restored)
	assert.Nil(t, fresh.Current())
}

func TestLogout_Idempotent(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	signupAlice(t, s)
	ctx := context.Background()

	sess := session.NewManager(session.NewMemoryStore())
	_, err := s.Login(ctx, sess, "alice@x.com", "secret1", true)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, sess))
	require.NoError(t, s.Logout(ctx, sess), "second logout must not error")
	assert.Nil(t, sess.Current())
}

func TestLogout_StoreErrorStillClearsSession(t *testing.T) {
	repo := newFakeUsersRepo()
	s := newAuthService(repo)
	signupAlice(t, s)
	ctx := context.Background()

	sess := session.NewManager(session.NewMemoryStore())
	_, err := s.Login(ctx, sess, "alice@x.com", "secret1", false)
	require.NoError(t, err)

	repo.updateErr = errors.New("db down")
	err = s.Logout(ctx, sess)
	assert.Error(t, err)
	assert.Nil(t, sess.Current(), "the session must be destroyed even when revocation fails")
}

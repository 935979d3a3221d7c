package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinebook/cinebook/internal/domain"
	"github.com/cinebook/cinebook/internal/repository/memory"
	"github.com/cinebook/cinebook/internal/service/auth"
)

func newService(t *testing.T) (*auth.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := auth.New(store, nil, auth.Config{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		BcryptCost: 4, // keep the hash cheap in tests
	})
	return svc, store
}

func TestRegister_IssuesWorkingToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.NotEmpty(t, token)
	require.False(t, u.IsStaff)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.False(t, claims.IsStaff)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "short")
	require.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegister_RejectsTakenUsernameAndEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice", "other@example.com", "s3cret-pass")
	require.ErrorIs(t, err, auth.ErrUsernameTaken)

	_, _, err = svc.Register(ctx, "bob", "alice@example.com", "s3cret-pass")
	require.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "alice", "wrong-pass")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "s3cret-pass")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestParseToken_RejectsExpired(t *testing.T) {
	store := memory.NewStore()

	past := time.Now().Add(-48 * time.Hour)
	issuer := auth.New(store, nil, auth.Config{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		BcryptCost: 4,
		Clock:      func() time.Time { return past },
	})

	_, token, err := issuer.Register(context.Background(), "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	verifier := auth.New(store, nil, auth.Config{Secret: "test-secret"})
	_, err = verifier.ParseToken(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	svc, _ := newService(t)

	_, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	other := auth.New(memory.NewStore(), nil, auth.Config{Secret: "other-secret"})
	_, err = other.ParseToken(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_CarriesStaffFlag(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	_, err = store.Users().Create(ctx, domain.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		IsStaff:      true,
	})
	require.NoError(t, err)

	_, token, err := svc.Login(ctx, "admin", "s3cret-pass")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.True(t, claims.IsStaff)
}

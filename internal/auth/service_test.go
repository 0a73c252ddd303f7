package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskloop/todo-api/internal/logging"
	"github.com/taskloop/todo-api/internal/user"
)

// fakeUserRepo is an in-memory UserRepository with the same uniqueness
// semantics as the Postgres implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, email, passwordHash string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, user.ErrDuplicateEmail
		}
	}
	u := &user.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type serviceFixture struct {
	service  *Service
	userRepo *fakeUserRepo
	codec    *Codec
	redis    *miniredis.Miniredis
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	userRepo := newFakeUserRepo()
	service := NewService(userRepo, NewRedisSessionRepository(client), codec, logging.NewLogger(true))

	return &serviceFixture{
		service:  service,
		userRepo: userRepo,
		codec:    codec,
		redis:    mr,
	}
}

func TestService_RegisterValidation(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "secret123", ErrEmailRequired},
		{"bad email", "not-an-email", "secret123", ErrInvalidEmailFormat},
		{"empty password", "alex@example.com", "", ErrPasswordRequired},
		{"password below minimum", "alex@example.com", "12345", ErrPasswordTooShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := fx.service.Register(ctx, tc.email, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// Six characters is the boundary
	_, _, err := fx.service.Register(ctx, "alex@example.com", "123456")
	require.NoError(t, err)
}

func TestService_RegisterHashesPassword(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	newUser, token, err := fx.service.Register(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored, err := fx.userRepo.GetByID(ctx, newUser.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "userOnePass", stored.PasswordHash)
	assert.True(t, VerifyPassword(stored.PasswordHash, "userOnePass"))

	// The registration token is immediately usable
	resolved, err := fx.service.FindByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, newUser.ID, resolved.ID)
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	_, _, err := fx.service.Register(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)

	_, _, err = fx.service.Register(ctx, "alex@example.com", "anotherPass")
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
	assert.Len(t, fx.userRepo.users, 1)
}

func TestService_LoginMultiDevice(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	registered, first, err := fx.service.Register(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)

	_, second, err := fx.service.Login(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Both sessions are active at once
	for _, token := range []string{first, second} {
		resolved, err := fx.service.FindByToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, resolved.ID)
	}

	// Revoking one leaves the other intact
	require.NoError(t, fx.service.Logout(ctx, registered, first))

	_, err = fx.service.FindByToken(ctx, first)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = fx.service.FindByToken(ctx, second)
	require.NoError(t, err)
}

func TestService_LoginDoesNotLeakEmailExistence(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	_, _, err := fx.service.Register(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)

	keysBefore := len(fx.redis.Keys())

	_, _, wrongPassword := fx.service.Login(ctx, "alex@example.com", "wrongPass")
	_, _, unknownEmail := fx.service.Login(ctx, "nobody@example.com", "userOnePass")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail, "both failures must be indistinguishable")

	// A failed login must not append a session
	assert.Equal(t, keysBefore, len(fx.redis.Keys()))
}

func TestService_FindByTokenRejectsUnregisteredToken(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	newUser, _, err := fx.service.Register(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)

	// Correctly signed, never issued through the service: the signature
	// verifies but the registry has no entry
	forged, err := fx.codec.Issue(newUser.ID, PurposeAuth)
	require.NoError(t, err)

	_, err = fx.service.FindByToken(ctx, forged)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_FindByTokenRejectsTamperedToken(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	_, token, err := fx.service.Register(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)

	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, err = fx.service.FindByToken(ctx, string(tampered))
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_FindByTokenRejectsWrongKey(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	newUser, _, err := fx.service.Register(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)

	otherCodec, err := NewCodec([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)
	forged, err := otherCodec.Issue(newUser.ID, PurposeAuth)
	require.NoError(t, err)

	_, err = fx.service.FindByToken(ctx, forged)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_DeleteAccount(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	registered, first, err := fx.service.Register(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)
	_, second, err := fx.service.Login(ctx, "alex@example.com", "userOnePass")
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteAccount(ctx, registered))

	_, err = fx.userRepo.GetByID(ctx, registered.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)

	for _, token := range []string{first, second} {
		_, err = fx.service.FindByToken(ctx, token)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
}

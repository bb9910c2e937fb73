package account

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "unit-test-secret"

// fakeUserRepo is an in-memory UserStore keyed by email.
type fakeUserRepo struct {
	byEmail map[string]*User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, name, email, passwordHash string) (*User, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, ErrAlreadyExists
	}
	f.nextID++
	u := &User{
		ID:           fmt.Sprintf("user-%d", f.nextID),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testJWTSecret)

	u, err := svc.Register(context.Background(), "Ana", "ana@example.com", "hunter2hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash, "password must never be stored in the clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2hunter2")))
}

func TestLogin_IssuesTokenWithTwelveHourExpiry(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testJWTSecret)

	u, err := svc.Register(context.Background(), "Ana", "ana@example.com", "hunter2hunter2")
	require.NoError(t, err)

	tokenStr, err := svc.Login(context.Background(), "ana@example.com", "hunter2hunter2")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, u.ID, claims["sub"])
	assert.Equal(t, "ana@example.com", claims["email"])

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), exp, time.Minute)
}

func TestLogin_WrongPasswordReturnsInvalidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testJWTSecret)

	_, err := svc.Register(context.Background(), "Ana", "ana@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testJWTSecret)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email and wrong password must be indistinguishable")
}

package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LMS-backend/internal/library"
	"LMS-backend/internal/platform/state"
)

var testSecret = []byte("test-secret")

func newTestService(t *testing.T) (*Service, *state.Store) {
	store, err := state.Open(filepath.Join(t.TempDir(), "lib.json"))
	require.NoError(t, err)
	return NewService(store, testSecret, time.Hour), store
}

func TestSeedDefaultAdmin(t *testing.T) {
	svc, store := newTestService(t)

	seeded, err := svc.SeedDefaultAdmin()
	require.NoError(t, err)
	assert.True(t, seeded)

	_ = store.View(func(st *state.State) error {
		assert.True(t, st.Auth.Authenticate("admin", "admin"))
		return nil
	})

	// 既にアカウントがあれば何もしない
	seeded, err = svc.SeedDefaultAdmin()
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestSeedSkippedWhenAccountsExist(t *testing.T) {
	svc, store := newTestService(t)
	err := store.Update(func(st *state.State) error {
		return st.Auth.Register("librarian", "pw")
	})
	require.NoError(t, err)

	seeded, err := svc.SeedDefaultAdmin()
	require.NoError(t, err)
	assert.False(t, seeded)

	_ = store.View(func(st *state.State) error {
		assert.False(t, st.Auth.Exists("admin"))
		return nil
	})
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SeedDefaultAdmin()
	require.NoError(t, err)

	tokenStr, err := svc.Login("admin", "admin")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return testSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["sub"])
	assert.NotEmpty(t, claims["jti"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SeedDefaultAdmin()
	require.NoError(t, err)

	_, err = svc.Login("admin", "wrong")
	require.Error(t, err)
	_, err = svc.Login("admin", "Admin") // 大文字小文字も区別する
	require.Error(t, err)
	_, err = svc.Login("ghost", "admin")
	require.Error(t, err)
}

func TestRegister(t *testing.T) {
	svc, store := newTestService(t)

	token, err := svc.Register("librarian", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Register("librarian", "other")
	require.Error(t, err)
	assert.Equal(t, library.CodeDuplicateUsername, library.CodeOf(err))

	_, err = svc.Register("", "pw")
	require.Error(t, err)
	assert.Equal(t, library.CodeInvalidArgument, library.CodeOf(err))

	// 最初のパスワードのまま
	_ = store.View(func(st *state.State) error {
		assert.True(t, st.Auth.Authenticate("librarian", "pw123"))
		return nil
	})
}

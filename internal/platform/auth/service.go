package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"LMS-backend/internal/library"
	"LMS-backend/internal/platform/state"
)

const (
	DefaultAdminUser     = "admin"
	DefaultAdminPassword = "admin"
)

// Service は司書アカウントの登録・認証と、Web用セッショントークンの
// 発行を担う。資格情報本体は state.Store 内の library.Credentials。
type Service struct {
	store  *state.Store
	secret []byte
	ttl    time.Duration
}

func NewService(store *state.Store, secret []byte, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl}
}

func (s *Service) Secret() []byte { return s.secret }

// SeedDefaultAdmin はアカウントが1件も無いときだけ admin/admin を作る。
// 初回起動でロックアウトしないための既定アカウント。
func (s *Service) SeedDefaultAdmin() (bool, error) {
	seeded := false
	err := s.store.Update(func(st *state.State) error {
		if !st.Auth.Empty() {
			return nil
		}
		seeded = true
		return st.Auth.Register(DefaultAdminUser, DefaultAdminPassword)
	})
	return seeded, err
}

// Login は完全一致認証に成功したらHS256トークンを返す。
func (s *Service) Login(username, password string) (string, error) {
	ok := false
	_ = s.store.View(func(st *state.State) error {
		ok = st.Auth.Authenticate(username, password)
		return nil
	})
	if !ok {
		return "", library.ErrInvalid("authentication failed")
	}
	return s.issueToken(username)
}

// Register は新規アカウントを登録し、そのままログイン扱いで
// トークンも返す。username重複はDUPLICATE_USERNAME。
func (s *Service) Register(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", library.ErrInvalid("username and password are required")
	}
	err := s.store.Update(func(st *state.State) error {
		return st.Auth.Register(username, password)
	})
	if err != nil {
		return "", err
	}
	return s.issueToken(username)
}

func (s *Service) issueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", library.ErrInternal("sign token: " + err.Error())
	}
	return signed, nil
}

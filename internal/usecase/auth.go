package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"resume-builder/internal/adapter/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const LoginFailedMessage = "Invalid email or password too short (min 6 chars)."

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginForm struct {
	Email    string `json:"email" validate:"contains=@"`
	Password string `json:"password" validate:"min=6"`
}

// AuthService is a mock session holder. Credentials are only shape-checked.
type AuthService struct {
	kv       repository.KV
	validate *validator.Validate
	logger   *zap.Logger

	mu   sync.RWMutex
	user *User
}

func NewAuthService(ctx context.Context, kv repository.KV, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &AuthService{kv: kv, validate: validator.New(), logger: logger}
	a.user = a.restore(ctx)
	return a
}

func (a *AuthService) restore(ctx context.Context) *User {
	raw, err := a.kv.Get(ctx, repository.KeyUser)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			a.logger.Warn("unable to read session", zap.Error(err))
		}
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.Email == "" {
		a.logger.Warn("stored session is malformed, treating as logged out", zap.Error(err))
		return nil
	}
	return &u
}

func (a *AuthService) Login(ctx context.Context, email, password string) (User, error) {
	form := LoginForm{Email: email, Password: password}
	if err := a.validate.Struct(form); err != nil {
		return User{}, &ValidationError{Message: LoginFailedMessage, Cause: err}
	}
	u := User{Email: email, Name: strings.SplitN(email, "@", 2)[0]}

	a.mu.Lock()
	a.user = &u
	a.mu.Unlock()

	b, err := json.Marshal(u)
	if err == nil {
		err = a.kv.Set(ctx, repository.KeyUser, string(b))
	}
	if err != nil {
		a.logger.Error("unable to persist session", zap.Error(err))
		return u, &PersistError{Key: repository.KeyUser, Cause: err}
	}
	a.logger.Info("user logged in", zap.String("name", u.Name))
	return u, nil
}

func (a *AuthService) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.user = nil
	a.mu.Unlock()
	if err := a.kv.Delete(ctx, repository.KeyUser); err != nil {
		a.logger.Error("unable to clear session", zap.Error(err))
		return &PersistError{Key: repository.KeyUser, Cause: err}
	}
	return nil
}

func (a *AuthService) Current() (User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return User{}, false
	}
	return *a.user, true
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/domain/persist"
	"github.com/example/delicias-storefront/internal/infrastructure/backend"
	"github.com/example/delicias-storefront/internal/infrastructure/store"
)

const (
	PathLogin    = "/usuarios/login/"
	PathRegister = "/usuarios/registro/"
	PathLogout   = "/usuarios/logout/"
)

// User-facing messages, in the language the storefront is served in.
const (
	MsgLoginFailed         = "Error en el login"
	MsgLoginUnreachable    = "Error de conexión con el servidor"
	MsgRegisterFailed      = "Error en el registro"
	MsgRegisterUnreachable = "No se puede conectar al servidor. Verifica que esté ejecutándose."
)

// registerErrorFields is the order in which field errors are reported.
var registerErrorFields = []string{"password_confirm", "username", "email", "password", "non_field_errors"}

// API is the subset of the backend client the session needs.
type API interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error)
}

var _ API = (*backend.Client)(nil)

// Listener is called with the new state after login, register or logout.
type Listener func(State)

// Store owns the current user session and mirrors it under store.KeyUser.
type Store struct {
	mu        sync.Mutex
	state     State
	api       API
	storage   store.KeyValueStore
	logger    *zap.Logger
	now       func() time.Time
	listeners map[int]Listener
	nextID    int
}

// NewStore creates the session and adopts a previously saved user without
// asking the server. Unreadable saved data is discarded.
func NewStore(ctx context.Context, api API, storage store.KeyValueStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		api:       api,
		storage:   storage,
		logger:    logger.Named("session"),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	var saved User
	found, err := persist.Load(ctx, s.storage, store.KeyUser, &saved)
	if err != nil {
		if errors.Is(err, apperrors.ErrStorageParse) {
			s.logger.Warn("discarding unreadable saved user", zap.Error(err))
		} else {
			s.logger.Warn("failed to read saved user", zap.Error(err))
		}
		return
	}
	if !found {
		return
	}
	s.state = Reduce(s.state, Action{Type: ActionSessionStarted, User: saved})
	s.logger.Debug("session restored", zap.String("username", saved.Username))
}

// Login authenticates with email as the username. On failure the current
// session, if any, is left as it was.
func (s *Store) Login(ctx context.Context, email, password string) apperrors.Result {
	resp, err := s.api.Do(ctx, http.MethodPost, PathLogin, nil, map[string]string{
		"username": email,
		"password": password,
	})
	if err != nil {
		s.logger.Error("login request failed", zap.Error(err))
		return apperrors.Fail(MsgLoginUnreachable)
	}

	var data loginResponse
	decodeErr := backend.DecodeBody(resp, &data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && data.Error != "" {
			return apperrors.Fail(data.Error)
		}
		return apperrors.Fail(MsgLoginFailed)
	}
	if decodeErr != nil {
		s.logger.Error("malformed login response", zap.Error(decodeErr))
		return apperrors.Fail(MsgLoginUnreachable)
	}

	user := data.normalize()
	s.start(ctx, user)
	s.logger.Info("user logged in", zap.String("username", user.Username))
	return apperrors.OK()
}

// Register creates an account and logs it in. Only 201 Created counts as success.
func (s *Store) Register(ctx context.Context, in Registration) apperrors.Result {
	first, last := SplitName(in.Nombre)
	resp, err := s.api.Do(ctx, http.MethodPost, PathRegister, nil, map[string]string{
		"username":         in.Email,
		"email":            in.Email,
		"password":         in.Password,
		"password_confirm": in.ConfirmPassword,
		"first_name":       first,
		"last_name":        last,
	})
	if err != nil {
		s.logger.Error("register request failed", zap.Error(err))
		return apperrors.Fail(MsgRegisterUnreachable)
	}

	if resp.StatusCode != http.StatusCreated {
		var fields map[string]json.RawMessage
		if err := backend.DecodeBody(resp, &fields); err != nil {
			return apperrors.Fail(MsgRegisterFailed)
		}
		return apperrors.Fail(registerErrorMessage(fields))
	}

	var data userPayload
	if err := backend.DecodeBody(resp, &data); err != nil {
		s.logger.Warn("malformed register response", zap.Error(err))
	}

	user := User{
		Username:  data.Username,
		Email:     data.Email,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Nombre:    DisplayName(data.FirstName, data.LastName),
	}
	if data.ID != nil {
		user.ID = *data.ID
	} else {
		user.ID = s.now().UnixMilli()
	}
	if user.Nombre == "" {
		user.Nombre = user.Username
	}

	s.start(ctx, user)
	s.logger.Info("user registered", zap.String("username", user.Username))
	return apperrors.OK()
}

// Logout tells the server, ignoring any failure, then clears the local session.
func (s *Store) Logout(ctx context.Context) {
	resp, err := s.api.Do(ctx, http.MethodPost, PathLogout, nil, nil)
	if err != nil {
		s.logger.Warn("logout request failed", zap.Error(err))
	} else {
		_ = resp.Body.Close()
	}

	s.mu.Lock()
	s.state = Reduce(s.state, Action{Type: ActionSessionEnded})
	if err := s.storage.Delete(ctx, store.KeyUser); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("failed to clear saved user", zap.Error(err))
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, State{})
}

// CurrentUser returns the logged-in user, if any.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return User{}, false
	}
	return *s.state.User, true
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

// Subscribe registers fn for session changes and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) start(ctx context.Context, user User) {
	s.mu.Lock()
	s.state = Reduce(s.state, Action{Type: ActionSessionStarted, User: user})
	if err := persist.Save(ctx, s.storage, store.KeyUser, user); err != nil {
		s.logger.Warn("failed to persist user", zap.Error(err))
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, State{User: &user})
}

func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, state State) {
	for _, l := range listeners {
		if state.User != nil {
			u := *state.User
			l(State{User: &u})
			continue
		}
		l(state)
	}
}

// registerErrorMessage returns the first message of the first failing field,
// in registerErrorFields order. Each field may be a list of strings or a string.
func registerErrorMessage(fields map[string]json.RawMessage) string {
	for _, name := range registerErrorFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 && list[0] != "" {
			return list[0]
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil && single != "" {
			return single
		}
	}
	return MsgRegisterFailed
}

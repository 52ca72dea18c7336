package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/delicias-storefront/internal/infrastructure/backend"
	"github.com/example/delicias-storefront/internal/infrastructure/store"
	"github.com/example/delicias-storefront/internal/infrastructure/store/mocks"
)

// fakeBackend records request bodies per path and answers with the
// configured status and body.
type fakeBackend struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	bodies    map[string]map[string]string
	calls     []string
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *backend.Client) {
	t.Helper()
	fb := &fakeBackend{
		responses: make(map[string]fakeResponse),
		bodies:    make(map[string]map[string]string),
	}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return fb, backend.NewClient(srv.URL+"/api", 5*time.Second)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path[len("/api"):]
	f.calls = append(f.calls, path)
	body := map[string]string{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.bodies[path] = body

	resp, ok := f.responses[path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (f *fakeBackend) respond(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = fakeResponse{status: status, body: body}
}

func (f *fakeBackend) body(path string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func savedUser(t *testing.T, kv *mocks.MockStore) User {
	t.Helper()
	raw, ok := kv.Value(store.KeyUser)
	require.True(t, ok, "user was never persisted")
	var u User
	require.NoError(t, json.Unmarshal(raw, &u))
	return u
}

// ============================================
// Startup
// ============================================

func TestNewStore_AdoptsSavedUser(t *testing.T) {
	_, api := newFakeBackend(t)
	kv := mocks.NewMockStore()
	kv.Seed(store.KeyUser, []byte(`{"id":7,"username":"ana@x.co","email":"ana@x.co","first_name":"Ana","last_name":"Ruiz","nombre":"Ana Ruiz"}`))

	s := NewStore(context.Background(), api, kv, nil)

	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "Ana Ruiz", u.Nombre)
}

func TestNewStore_MalformedSavedUserIsDiscarded(t *testing.T) {
	_, api := newFakeBackend(t)
	kv := mocks.NewMockStore()
	kv.Seed(store.KeyUser, []byte(`{"id":`))

	s := NewStore(context.Background(), api, kv, nil)

	assert.False(t, s.IsAuthenticated())
}

// ============================================
// Login
// ============================================

func TestStore_Login_NestedUser(t *testing.T) {
	fb, api := newFakeBackend(t)
	fb.respond(PathLogin, http.StatusOK, `{"message":"ok","user":{"id":3,"username":"ana@x.co","email":"ana@x.co","first_name":"Ana","last_name":"Ruiz"}}`)
	kv := mocks.NewMockStore()
	s := NewStore(context.Background(), api, kv, nil)

	result := s.Login(context.Background(), "ana@x.co", "secreto123")

	require.True(t, result.Success, result.Error)
	assert.Equal(t, map[string]string{"username": "ana@x.co", "password": "secreto123"}, fb.body(PathLogin))

	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "Ana Ruiz", u.Nombre)
	assert.Equal(t, u, savedUser(t, kv))
}

func TestStore_Login_TopLevelUser(t *testing.T) {
	fb, api := newFakeBackend(t)
	fb.respond(PathLogin, http.StatusOK, `{"id":9,"username":"luis@x.co","email":"luis@x.co","first_name":"Luis","last_name":""}`)
	s := NewStore(context.Background(), api, mocks.NewMockStore(), nil)

	result := s.Login(context.Background(), "luis@x.co", "pw")

	require.True(t, result.Success)
	u, _ := s.CurrentUser()
	assert.Equal(t, int64(9), u.ID)
	assert.Equal(t, "Luis", u.Nombre)
}

func TestStore_Login_InvalidCredentialsKeepsSession(t *testing.T) {
	fb, api := newFakeBackend(t)
	fb.respond(PathLogin, http.StatusBadRequest, `{"error":"Invalid credentials"}`)
	kv := mocks.NewMockStore()
	kv.Seed(store.KeyUser, []byte(`{"id":1,"username":"prev@x.co","nombre":"Prev"}`))
	s := NewStore(context.Background(), api, kv, nil)

	result := s.Login(context.Background(), "ana@x.co", "wrong")

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid credentials", result.Error)
	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "prev@x.co", u.Username)
	assert.Empty(t, kv.SetCalls)
}

func TestStore_Login_FailureWithoutMessage(t *testing.T) {
	fb, api := newFakeBackend(t)
	fb.respond(PathLogin, http.StatusInternalServerError, `<html>oops</html>`)
	s := NewStore(context.Background(), api, mocks.NewMockStore(), nil)

	result := s.Login(context.Background(), "ana@x.co", "pw")

	assert.False(t, result.Success)
	assert.Equal(t, MsgLoginFailed, result.Error)
}

func TestStore_Login_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	s := NewStore(context.Background(), backend.NewClient(srv.URL, time.Second), mocks.NewMockStore(), nil)

	result := s.Login(context.Background(), "ana@x.co", "pw")

	assert.False(t, result.Success)
	assert.Equal(t, MsgLoginUnreachable, result.Error)
	assert.False(t, s.IsAuthenticated())
}

// ============================================
// Register
// ============================================

func TestStore_Register_Created(t *testing.T) {
	fb, api := newFakeBackend(t)
	fb.respond(PathRegister, http.StatusCreated, `{"id":12,"username":"ana@x.co","email":"ana@x.co","first_name":"Ana","last_name":"Ruiz"}`)
	kv := mocks.NewMockStore()
	s := NewStore(context.Background(), api, kv, nil)

	result := s.Register(context.Background(), Registration{
		Nombre:          "Ana Ruiz",
		Email:           "ana@x.co",
		Password:        "secreto123",
		ConfirmPassword: "secreto123",
	})

	require.True(t, result.Success, result.Error)
	sent := fb.body(PathRegister)
	assert.Equal(t, "ana@x.co", sent["username"])
	assert.Equal(t, "ana@x.co", sent["email"])
	assert.Equal(t, "secreto123", sent["password_confirm"])
	assert.Equal(t, "Ana", sent["first_name"])
	assert.Equal(t, "Ruiz", sent["last_name"])

	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Ana Ruiz", u.Nombre)
	assert.Equal(t, int64(12), u.ID)
	assert.Equal(t, u, savedUser(t, kv))
}

func TestStore_Register_MissingIDAndNameFallBack(t *testing.T) {
	fb, api := newFakeBackend(t)
	fb.respond(PathRegister, http.StatusCreated, `{"username":"solo@x.co","email":"solo@x.co"}`)
	s := NewStore(context.Background(), api, mocks.NewMockStore(), nil)
	fixed := time.UnixMilli(1700000000000)
	s.now = func() time.Time { return fixed }

	result := s.Register(context.Background(), Registration{Nombre: "", Email: "solo@x.co", Password: "p", ConfirmPassword: "p"})

	require.True(t, result.Success)
	u, _ := s.CurrentUser()
	assert.Equal(t, int64(1700000000000), u.ID)
	assert.Equal(t, "solo@x.co", u.Nombre)
}

func TestStore_Register_OKIsNotCreated(t *testing.T) {
	fb, api := newFakeBackend(t)
	fb.respond(PathRegister, http.StatusOK, `{}`)
	s := NewStore(context.Background(), api, mocks.NewMockStore(), nil)

	result := s.Register(context.Background(), Registration{Nombre: "Ana", Email: "a@x.co"})

	assert.False(t, result.Success)
	assert.Equal(t, MsgRegisterFailed, result.Error)
	assert.False(t, s.IsAuthenticated())
}

func TestStore_Register_ErrorPrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "password confirm first",
			body: `{"email":["Correo inválido"],"password_confirm":["Las contraseñas no coinciden"]}`,
			want: "Las contraseñas no coinciden",
		},
		{
			name: "username before email",
			body: `{"email":["Correo inválido"],"username":["Ya existe un usuario con ese nombre."]}`,
			want: "Ya existe un usuario con ese nombre.",
		},
		{
			name: "plain string field",
			body: `{"password":"Muy corta"}`,
			want: "Muy corta",
		},
		{
			name: "non field errors",
			body: `{"non_field_errors":["Las contraseñas no coinciden"]}`,
			want: "Las contraseñas no coinciden",
		},
		{
			name: "unknown shape",
			body: `{"detail":"nope"}`,
			want: MsgRegisterFailed,
		},
		{
			name: "not json",
			body: `Bad Gateway`,
			want: MsgRegisterFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, api := newFakeBackend(t)
			fb.respond(PathRegister, http.StatusBadRequest, tt.body)
			s := NewStore(context.Background(), api, mocks.NewMockStore(), nil)

			result := s.Register(context.Background(), Registration{Nombre: "Ana Ruiz", Email: "ana@x.co"})

			assert.False(t, result.Success)
			assert.Equal(t, tt.want, result.Error)
		})
	}
}

func TestStore_Register_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	s := NewStore(context.Background(), backend.NewClient(srv.URL, time.Second), mocks.NewMockStore(), nil)

	result := s.Register(context.Background(), Registration{Nombre: "Ana", Email: "a@x.co"})

	assert.Equal(t, MsgRegisterUnreachable, result.Error)
}

// ============================================
// Logout
// ============================================

func TestStore_Logout_ClearsSessionEvenWhenServerFails(t *testing.T) {
	fb, api := newFakeBackend(t)
	fb.respond(PathLogout, http.StatusForbidden, `{"detail":"no autenticado"}`)
	kv := mocks.NewMockStore()
	kv.Seed(store.KeyUser, []byte(`{"id":1,"username":"ana@x.co"}`))
	s := NewStore(context.Background(), api, kv, nil)
	require.True(t, s.IsAuthenticated())

	s.Logout(context.Background())

	assert.False(t, s.IsAuthenticated())
	_, stored := kv.Value(store.KeyUser)
	assert.False(t, stored)
	assert.Equal(t, []string{store.KeyUser}, kv.DeleteCalls)
}

func TestStore_Logout_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	kv := mocks.NewMockStore()
	kv.Seed(store.KeyUser, []byte(`{"id":1,"username":"ana@x.co"}`))
	s := NewStore(context.Background(), backend.NewClient(srv.URL, time.Second), kv, nil)

	s.Logout(context.Background())

	assert.False(t, s.IsAuthenticated())
}

func TestStore_Subscribe(t *testing.T) {
	fb, api := newFakeBackend(t)
	fb.respond(PathLogin, http.StatusOK, `{"user":{"id":3,"username":"ana@x.co"}}`)
	fb.respond(PathLogout, http.StatusOK, `{}`)
	s := NewStore(context.Background(), api, mocks.NewMockStore(), nil)

	var seen []bool
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st.User != nil) })

	s.Login(context.Background(), "ana@x.co", "pw")
	s.Logout(context.Background())
	unsubscribe()
	s.Login(context.Background(), "ana@x.co", "pw")

	assert.Equal(t, []bool{true, false}, seen)
}

// ============================================
// Helpers
// ============================================

func TestSplitName(t *testing.T) {
	first, last := SplitName("  María  José   Pérez ")
	assert.Equal(t, "María", first)
	assert.Equal(t, "José Pérez", last)

	first, last = SplitName("Ana")
	assert.Equal(t, "Ana", first)
	assert.Empty(t, last)
}

func TestReduce(t *testing.T) {
	st := Reduce(State{}, Action{Type: ActionSessionStarted, User: User{ID: 1}})
	require.NotNil(t, st.User)

	assert.Nil(t, Reduce(st, Action{Type: ActionSessionEnded}).User)
	assert.Equal(t, st, Reduce(st, Action{Type: "UNKNOWN"}))
}

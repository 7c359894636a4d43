package out_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authout "rehab/internal/modules/auth/adapter/out"
	"rehab/internal/modules/auth/domain"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/httpapi"
	"rehab/internal/platform/kv"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("username") != "p@clinic.org" || r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Incorrect email or password"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"tok-1","token_type":"bearer"}`)
	})
	r.Post("/auth/login/google", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"token_type":"bearer"}`)
	})
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"id":3,"email":"p@clinic.org","username":"pat","first_name":null,"is_verified":true,"role":"patient"}`)
	})
	r.Put("/auth/me/profile", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "left", body["affected_side"])
		assert.NotContains(t, body, "allergies")
		body["stroke_date"] = "2025-03-01T00:00:00"
		_ = json.NewEncoder(w).Encode(body)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type fixedToken string

func (f fixedToken) Token() string { return string(f) }

func TestHTTPGatewayLoginAndMe(t *testing.T) {
	t.Parallel()
	srv := newBackend(t)
	client := httpapi.New(srv.URL)
	gw := authout.NewHTTPGateway(client)

	token, err := gw.Login(context.Background(), "p@clinic.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	_, err = gw.Login(context.Background(), "p@clinic.org", "nope")
	assert.Equal(t, "Incorrect email or password", apperrors.Message(err))

	_, err = gw.LoginGoogle(context.Background(), "id-token")
	assert.ErrorIs(t, err, apperrors.ErrMalformedResponse)

	client.Bind(fixedToken("tok-1"), nil)
	user, err := gw.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.User{ID: 3, Email: "p@clinic.org", Username: "pat", Role: "patient", IsVerified: true}, user)
}

func TestHTTPGatewayProfileRoundTrip(t *testing.T) {
	t.Parallel()
	srv := newBackend(t)
	gw := authout.NewHTTPGateway(httpapi.New(srv.URL))

	out, err := gw.UpdateProfile(context.Background(), domain.Profile{AffectedSide: "left", Height: 170})
	require.NoError(t, err)
	assert.Equal(t, "left", out.AffectedSide)
	assert.Equal(t, 170, out.Height)
	require.NotNil(t, out.StrokeDate)
	assert.Equal(t, 2025, out.StrokeDate.Year())
}

func TestKVTokenStore(t *testing.T) {
	t.Parallel()
	store := authout.NewKVTokenStore(kv.NewFileStore(filepath.Join(t.TempDir(), "state.json")))
	ctx := context.Background()

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "tok"))
	token, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Clear(ctx))
	_, ok, _ = store.Load(ctx)
	assert.False(t, ok)
}

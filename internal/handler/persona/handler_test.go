package persona

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatModel "github.com/zhouzirui/persona-chat/backend/internal/model/chat"
	"github.com/zhouzirui/persona-chat/backend/internal/model/persona"
	chatService "github.com/zhouzirui/persona-chat/backend/internal/service/chat"
)

func setupRouter(items []persona.Persona) (*chi.Mux, *chatService.Service) {
	chatSvc := chatService.NewService()
	r := chi.NewRouter()
	New(persona.NewMemoryStore(items), chatSvc).RegisterRoutes(r)
	return r, chatSvc
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestListPersonas(t *testing.T) {
	r, _ := setupRouter(persona.Seed())

	first := get(t, r, "/personas")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "application/json", first.Header().Get("Content-Type"))

	var personas []persona.Persona
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &personas))
	require.Len(t, personas, 3)
	for _, p := range personas {
		assert.True(t, p.IsActive, p.ID)
		assert.NotEmpty(t, p.SystemPrompt, p.ID)
	}

	second := get(t, r, "/personas")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestListPersonasSkipsInactive(t *testing.T) {
	items := persona.Seed()
	items[1].IsActive = false
	r, _ := setupRouter(items)

	var personas []persona.Persona
	require.NoError(t, json.Unmarshal(get(t, r, "/personas").Body.Bytes(), &personas))
	require.Len(t, personas, 2)
	for _, p := range personas {
		assert.NotEqual(t, items[1].ID, p.ID)
	}
}

func TestListPersonasEmpty(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := get(t, r, "/personas")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestGetPersonaMatchesListing(t *testing.T) {
	r, _ := setupRouter(persona.Seed())

	var listed []persona.Persona
	require.NoError(t, json.Unmarshal(get(t, r, "/personas").Body.Bytes(), &listed))

	for _, want := range listed {
		resp := get(t, r, "/personas/"+want.ID)
		require.Equal(t, http.StatusOK, resp.Code)

		var got persona.Persona
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("persona %s mismatch (-list +get):\n%s", want.ID, diff)
		}
	}
}

func TestGetPersonaNotFound(t *testing.T) {
	r, _ := setupRouter(persona.Seed())

	resp := get(t, r, "/personas/nobody")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"message":"Persona not found"}`, resp.Body.String())
}

func TestListPersonaSessions(t *testing.T) {
	r, chatSvc := setupRouter(persona.Seed())
	ctx := context.Background()

	first, err := chatSvc.CreateSession(ctx, "hitesh", nil)
	require.NoError(t, err)
	_, err = chatSvc.CreateSession(ctx, "piyush", nil)
	require.NoError(t, err)
	second, err := chatSvc.CreateSession(ctx, "hitesh", nil)
	require.NoError(t, err)

	resp := get(t, r, "/personas/hitesh/sessions")
	require.Equal(t, http.StatusOK, resp.Code)

	var sessions []chatModel.Session
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID)
	assert.Equal(t, second.ID, sessions[1].ID)

	resp = get(t, r, "/personas/lakshya/sessions")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())

	resp = get(t, r, "/personas/nobody/sessions")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

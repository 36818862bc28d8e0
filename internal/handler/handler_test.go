package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/technotes/server/internal/models"
	"github.com/technotes/server/internal/repository"
	"github.com/technotes/server/internal/service"
)

func newTestRouter(t *testing.T) (*mux.Router, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.NewService(repo, log, bcrypt.MinCost)
	h := NewHandler(svc, log)

	r := mux.NewRouter()
	h.Register(r)
	return r, repo
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func createAlice(t *testing.T, r http.Handler) {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/users", map[string]interface{}{
		"username": "alice",
		"password": "pw1",
		"roles":    []string{"Employee"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func aliceID(t *testing.T, repo *repository.MemoryRepository) string {
	t.Helper()
	user, err := repo.FindUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	return user.ID.Hex()
}

func TestListUsers_Empty(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No users found", message(t, rec))
}

func TestCreateAndListUsers(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/users", map[string]interface{}{
		"username": "alice",
		"password": "pw1",
		"roles":    []string{"Employee"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User alice created", message(t, rec))

	rec = doJSON(t, r, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0]["username"])
	assert.Equal(t, true, users[0]["active"])
	assert.Contains(t, users[0], "_id")
	assert.Contains(t, users[0]["roles"], "Employee")
	assert.NotContains(t, users[0], "password")
}

func TestCreateUser_Duplicate(t *testing.T) {
	r, _ := newTestRouter(t)
	createAlice(t, r)

	rec := doJSON(t, r, http.MethodPost, "/users", map[string]interface{}{
		"username": "alice",
		"password": "other",
		"roles":    []string{"Manager"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists", message(t, rec))
}

func TestCreateUser_BadRequest(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing username", map[string]interface{}{"password": "pw", "roles": []string{"Employee"}}},
		{"missing password", map[string]interface{}{"username": "alice", "roles": []string{"Employee"}}},
		{"empty roles", map[string]interface{}{"username": "alice", "password": "pw", "roles": []string{}}},
		{"roles not an array", map[string]interface{}{"username": "alice", "password": "pw", "roles": "Employee"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/users", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "All fields are required", message(t, rec))
		})
	}

	// nothing was persisted
	rec := doJSON(t, r, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUser_Success(t *testing.T) {
	r, repo := newTestRouter(t)
	createAlice(t, r)
	id := aliceID(t, repo)

	rec := doJSON(t, r, http.MethodPatch, "/users/"+id, map[string]interface{}{
		"username": "alice2",
		"password": "pw2",
		"roles":    []string{"Manager"},
		"active":   false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User alice2 updated", message(t, rec))

	stored, err := repo.FindUserByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice2", stored.Username)
	assert.False(t, stored.Active)
}

func TestUpdateUser_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPatch, "/users/66f0aa00bb11cc22dd33ee44", map[string]interface{}{
		"username": "ghost",
		"password": "pw",
		"roles":    []string{"Employee"},
		"active":   true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found", message(t, rec))
}

func TestUpdateUser_BadRequest(t *testing.T) {
	r, repo := newTestRouter(t)
	createAlice(t, r)
	id := aliceID(t, repo)

	cases := []struct {
		name string
		path string
		body map[string]interface{}
	}{
		{"missing id", "/users", map[string]interface{}{
			"username": "alice", "password": "pw", "roles": []string{"Employee"}, "active": true,
		}},
		{"missing active", "/users/" + id, map[string]interface{}{
			"username": "alice", "password": "pw", "roles": []string{"Employee"},
		}},
		{"active not a boolean", "/users/" + id, map[string]interface{}{
			"username": "alice", "password": "pw", "roles": []string{"Employee"}, "active": "yes",
		}},
		{"empty roles", "/users/" + id, map[string]interface{}{
			"username": "alice", "password": "pw", "roles": []string{}, "active": true,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPatch, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "All fields are required", message(t, rec))
		})
	}
}

func TestUpdateUser_Duplicate(t *testing.T) {
	r, repo := newTestRouter(t)
	createAlice(t, r)

	rec := doJSON(t, r, http.MethodPost, "/users", map[string]interface{}{
		"username": "bob",
		"password": "pw",
		"roles":    []string{"Employee"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	bob, err := repo.FindUserByUsername(context.Background(), "bob")
	require.NoError(t, err)

	rec = doJSON(t, r, http.MethodPatch, "/users/"+bob.ID.Hex(), map[string]interface{}{
		"username": "alice",
		"password": "",
		"roles":    []string{"Employee"},
		"active":   true,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists", message(t, rec))
}

func TestDeleteUser_Success(t *testing.T) {
	r, repo := newTestRouter(t)
	createAlice(t, r)
	id := aliceID(t, repo)

	rec := doJSON(t, r, http.MethodDelete, "/users/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fmt.Sprintf("Username alice with ID %s deleted", id), message(t, rec))

	// delete of an already deleted id stays 404
	rec = doJSON(t, r, http.MethodDelete, "/users/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", message(t, rec))
}

func TestDeleteUser_MissingID(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodDelete, "/users", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID is required", message(t, rec))
}

func TestDeleteUser_WithNotes(t *testing.T) {
	r, repo := newTestRouter(t)
	createAlice(t, r)
	id := aliceID(t, repo)

	user, err := repo.FindUserByID(context.Background(), id)
	require.NoError(t, err)
	repo.AddNote(models.Note{User: user.ID, Title: "pending", Text: "todo"})

	rec := doJSON(t, r, http.MethodDelete, "/users/"+id, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User has notes, cannot delete", message(t, rec))

	// the record must survive the attempt
	_, err = repo.FindUserByID(context.Background(), id)
	assert.NoError(t, err)
}

package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bridgex_waitlist/internal/waitlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	*httptest.Server
	joins   []waitlist.CreateRequest
	deletes int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	records := []waitlist.Record{
		{ID: "c-1", Email: "ada@example.com", Phone: waitlist.BlankPhone, Location: "Lagos", ServiceType: waitlist.ServiceUser, CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "c-2", Email: waitlist.BlankEmail, Phone: "08012345678", Location: "Abuja", ServiceType: waitlist.ServiceProvider, CreatedAt: time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/contacts", func(w http.ResponseWriter, r *http.Request) {
		var req waitlist.CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		api.joins = append(api.joins, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": waitlist.Record{
			ID: "c-3", Email: req.Email, Phone: req.Phone, Location: req.Location, ServiceType: req.ServiceType,
		}})
	})
	mux.HandleFunc("GET /api/get-contacts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(records)
	})
	mux.HandleFunc("POST /api/admin/signin", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "access-1", "refreshToken": "refresh-1",
			"user": map[string]string{"email": "admin@bridgex.ng", "role": "admin"},
		})
	})
	mux.HandleFunc("DELETE /api/contacts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		atomic.AddInt32(&api.deletes, 1)
		w.WriteHeader(http.StatusNoContent)
	})

	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

func runCLI(t *testing.T, api *fakeAPI, sessionFile string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--api", api.URL + "/api", "--session-file", sessionFile}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestJoin(t *testing.T) {
	api := newFakeAPI(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	out, _, err := runCLI(t, api, sessionFile, "join", "--phone", "0801 234 5679", "--type", "provider")
	require.NoError(t, err)
	assert.Contains(t, out, "08012345679")

	require.Len(t, api.joins, 1)
	assert.Equal(t, waitlist.CreateRequest{
		Email:       waitlist.BlankEmail,
		Phone:       "08012345679",
		Location:    waitlist.DefaultLocation,
		ServiceType: waitlist.ServiceProvider,
	}, api.joins[0])
}

func TestJoin_InvalidInputNeverReachesServer(t *testing.T) {
	api := newFakeAPI(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	_, errOut, err := runCLI(t, api, sessionFile, "join", "--phone", "123", "--type", "user")
	require.Error(t, err)
	assert.Contains(t, errOut, "at least 11 digits")
	assert.Empty(t, api.joins)
}

func TestList_ShowsPlaceholdersAsNotAvailable(t *testing.T) {
	api := newFakeAPI(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	out, _, err := runCLI(t, api, sessionFile, "list", "--type", "provider")
	require.NoError(t, err)
	assert.Contains(t, out, "c-2")
	assert.NotContains(t, out, "c-1")
	assert.Contains(t, out, waitlist.NotAvailable)
	assert.NotContains(t, out, waitlist.BlankEmail)
	assert.Contains(t, out, "Page 1 of 1 (1 total)")
}

func TestStats_Local(t *testing.T) {
	api := newFakeAPI(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	out, _, err := runCLI(t, api, sessionFile, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Waitlist statistics")
	assert.Contains(t, out, "lagos")
	assert.Contains(t, out, "abuja")
}

func TestLoginThenDelete(t *testing.T) {
	api := newFakeAPI(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	_, errOut, err := runCLI(t, api, sessionFile, "delete", "c-1", "--yes")
	require.ErrorIs(t, err, errNotSignedIn)
	assert.Contains(t, errOut, "not signed in")

	_, _, err = runCLI(t, api, sessionFile, "delete", "c-1")
	require.Error(t, err)

	out, _, err := runCLI(t, api, sessionFile, "login", "--email", "admin@bridgex.ng", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@bridgex.ng")

	out, _, err = runCLI(t, api, sessionFile, "delete", "c-1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "c-1 deleted")
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.deletes))
}

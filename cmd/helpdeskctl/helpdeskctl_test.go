package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/seed"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	for _, arg := range []string{"0", "-2", "many"} {
		_, err := parseSteps([]string{arg})
		assert.Error(t, err, arg)
	}
}

func TestRunMigrations_RequiresURL(t *testing.T) {
	assert.ErrorContains(t, runMigrations(""), "DATABASE_URL")
	assert.ErrorContains(t, runMigrationsDown("", 1), "DATABASE_URL")
	assert.ErrorContains(t, showMigrationStatus(""), "DATABASE_URL")
}

func TestMigrationsPath(t *testing.T) {
	t.Setenv("HELPDESK_MIGRATIONS_PATH", "")
	assert.Equal(t, "db/migrations", migrationsPath())

	t.Setenv("HELPDESK_MIGRATIONS_PATH", "/opt/helpdesk/migrations")
	assert.Equal(t, "/opt/helpdesk/migrations", migrationsPath())
}

func TestWaitForServer(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, waitForServer(srv.URL+"/api/health", 5, time.Millisecond))
	assert.Equal(t, 3, calls)
}

func TestWaitForServer_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := waitForServer(srv.URL, 2, time.Millisecond)
	assert.ErrorContains(t, err, "after 2 attempts")
}

func TestShowSeed(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, showSeed(&buf, "", now))

	data, err := seed.Decode(&buf)
	require.NoError(t, err)
	assert.Len(t, data["tickets"], 3)
	assert.Len(t, data["users"], 5)
	assert.Equal(t, seed.Ticket1ID, data["tickets"][0]["id"])
}

func TestShowSeed_FileOverridesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - id: 9\n    name: Legal\n"), 0o600))

	var buf bytes.Buffer
	require.NoError(t, showSeed(&buf, path, time.Now()))

	data, err := seed.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, data["categories"], 1)
	assert.Equal(t, "Legal", data["categories"][0]["name"])
	assert.Len(t, data["priorities"], 4)
}

func TestShowSeed_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	err := showSeed(&buf, filepath.Join(t.TempDir(), "missing.yml"), time.Now())
	assert.Error(t, err)
}

func TestShowConfiguration(t *testing.T) {
	t.Setenv("HELPDESK_CONFIG_PATH", t.TempDir())
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("PORT", "")

	var text bytes.Buffer
	require.NoError(t, showConfiguration(&text, "text"))
	assert.Contains(t, text.String(), "jwt_secret")
	assert.NotContains(t, text.String(), "super-secret")

	var out bytes.Buffer
	require.NoError(t, showConfiguration(&out, "json"))
	var parsed struct {
		Attributes []struct {
			Name   string `json:"name"`
			Value  string `json:"value"`
			Source string `json:"source"`
		} `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))

	sources := map[string]string{}
	for _, attr := range parsed.Attributes {
		sources[attr.Name] = attr.Source
	}
	assert.Equal(t, "environment", sources["jwt_secret"])
	assert.Equal(t, "default", sources["port"])

	assert.Error(t, showConfiguration(&out, "xml"))
}

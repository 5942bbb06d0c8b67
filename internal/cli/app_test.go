package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ktmcp/klarnacompayments/internal/klarna"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, configPath string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config", configPath}, args...)
	code := Run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_NoArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestRun_UnknownGroup(t *testing.T) {
	code, _, stderr := runCLI(t, filepath.Join(t.TempDir(), "config.json"), "payments")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"help"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "sessions")
}

func TestRun_ConfigSetAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	code, stdout, _ := runCLI(t, path, "config", "set", "--username", "PK12345_abc", "--password", "sharedsecret", "--region", "na")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Username set")
	assert.Contains(t, stdout, "Region set to: na")

	code, stdout, _ = runCLI(t, path, "config", "show")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "PK12345_abc")
	assert.Contains(t, stdout, "********")
	assert.NotContains(t, stdout, "sharedsecret")
}

func TestRun_ConfigSetWithoutOptions(t *testing.T) {
	code, _, stderr := runCLI(t, filepath.Join(t.TempDir(), "config.json"), "config", "set")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no options provided")
}

func TestRun_SessionsCreateEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/v1/sessions", r.URL.Path)
		w.Write([]byte(`{"session_id":"sess-123","client_token":"tok"}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "config.json")
	code, _, _ := runCLI(t, path, "config", "set", "--api-key", "test-key", "--base-url", server.URL)
	require.Equal(t, 0, code)

	code, stdout, _ := runCLI(t, path,
		"sessions", "create",
		"--amount", "1000",
		"--lines", `[{"quantity":1,"unit_price":1000,"total_amount":1000}]`,
		"--json",
	)
	require.Equal(t, 0, code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "sess-123", payload["session_id"])
}

func TestRun_MissingCredentialsExitsOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	code, _, stderr := runCLI(t, path,
		"sessions", "create",
		"--amount", "1000",
		"--lines", `[]`,
		"--json",
	)
	require.Equal(t, 1, code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal([]byte(stderr), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, string(klarna.KindPrecondition), resp.Error.Code)
}

func TestRun_InvalidLinesJSONExitsBeforeNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "config.json")
	code, _, _ := runCLI(t, path, "config", "set", "--api-key", "test-key", "--base-url", server.URL)
	require.Equal(t, 0, code)

	code, _, stderr := runCLI(t, path, "sessions", "create", "--amount", "1000", "--lines", "{not json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid JSON for --lines")
	assert.Equal(t, 0, calls)
}

func TestRun_RemoteErrorPropagatesVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error_message":"Order is in state CAPTURED"}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "config.json")
	code, _, _ := runCLI(t, path, "config", "set", "--api-key", "test-key", "--base-url", server.URL)
	require.Equal(t, 0, code)

	code, _, stderr := runCLI(t, path, "authorizations", "cancel", "tok-abc", "--json")
	require.Equal(t, 1, code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal([]byte(stderr), &resp))
	assert.Equal(t, string(klarna.KindRemoteRejected), resp.Error.Code)
	assert.Equal(t, 409, resp.Error.Status)
	assert.Contains(t, resp.Error.Message, "Order is in state CAPTURED")
}

func TestRun_RefundsListEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id":"order-99"}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "config.json")
	code, _, _ := runCLI(t, path, "config", "set", "--api-key", "test-key", "--base-url", server.URL)
	require.Equal(t, 0, code)

	code, stdout, _ := runCLI(t, path, "refunds", "list", "order-99", "--json")
	require.Equal(t, 0, code)
	assert.JSONEq(t, `[]`, stdout)
}

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("1000")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), amount)

	_, err = parseAmount("ten")
	require.Error(t, err)
	assert.Equal(t, klarna.KindInvalidInput, klarna.KindOf(err))

	_, err = parseAmount("10.00")
	require.Error(t, err)
}

func TestParseLines(t *testing.T) {
	lines, err := parseLines(`[{"quantity":2,"unit_price":500,"total_amount":1000}]`)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)

	_, err = parseLines("")
	require.Error(t, err)
	assert.Equal(t, klarna.KindInvalidInput, klarna.KindOf(err))
}

func TestTakeID(t *testing.T) {
	id, rest, ok := takeID([]string{"order-99", "--json"})
	require.True(t, ok)
	assert.Equal(t, "order-99", id)
	assert.Equal(t, []string{"--json"}, rest)

	_, _, ok = takeID([]string{"--json"})
	assert.False(t, ok)

	_, _, ok = takeID(nil)
	assert.False(t, ok)
}

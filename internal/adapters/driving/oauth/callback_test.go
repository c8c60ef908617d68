//nolint:noctx // Test file uses http.Get for convenience
package oauth

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func callbackURL(server *CallbackServer, params url.Values) string {
	return fmt.Sprintf("http://127.0.0.1:%d/callback?%s", server.Port(), params.Encode())
}

func TestCallbackServer_StartPicksPort(t *testing.T) {
	server := startServer(t, "s")

	assert.NotZero(t, server.Port())
	assert.Equal(t, fmt.Sprintf("http://localhost:%d/callback", server.Port()), server.RedirectURI())
}

func TestCallbackServer_StartTwice(t *testing.T) {
	server := startServer(t, "s")
	assert.Error(t, server.Start())
}

func TestCallbackServer_Start_PortInUse(t *testing.T) {
	first := startServer(t, "s")

	second := NewCallbackServer(first.Port(), "s")
	assert.Error(t, second.Start())
}

func TestCallbackServer_Success(t *testing.T) {
	server := startServer(t, "state-1")

	resp, err := http.Get(callbackURL(server, url.Values{"state": {"state-1"}, "code": {"abc"}}))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Signed in")

	code, err := server.WaitForCode(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "abc", code)
}

func TestCallbackServer_Failures(t *testing.T) {
	tests := []struct {
		name       string
		params     url.Values
		wantStatus int
		wantErr    string
	}{
		{
			name:       "State mismatch",
			params:     url.Values{"state": {"other"}, "code": {"abc"}},
			wantStatus: http.StatusBadRequest,
			wantErr:    "state mismatch",
		},
		{
			name:       "State is case sensitive",
			params:     url.Values{"state": {"STATE-1"}, "code": {"abc"}},
			wantStatus: http.StatusBadRequest,
			wantErr:    "state mismatch",
		},
		{
			name:       "Missing code",
			params:     url.Values{"state": {"state-1"}},
			wantStatus: http.StatusBadRequest,
			wantErr:    "no authorization code",
		},
		{
			name:       "Provider error",
			params:     url.Values{"error": {"access_denied"}, "error_description": {"user said no"}},
			wantStatus: http.StatusOK,
			wantErr:    "access_denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := startServer(t, "state-1")

			resp, err := http.Get(callbackURL(server, tt.params))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			_, err = server.WaitForCode(time.Second)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCallbackServer_RepeatedFailuresDoNotBlock(t *testing.T) {
	server := startServer(t, "state-1")

	for i := 0; i < 3; i++ {
		resp, err := http.Get(callbackURL(server, url.Values{"state": {"wrong"}}))
		require.NoError(t, err)
		resp.Body.Close()
	}

	_, err := server.WaitForCode(time.Second)
	assert.Error(t, err)
}

func TestCallbackServer_MethodNotAllowed(t *testing.T) {
	server := startServer(t, "state-1")

	resp, err := http.Post(callbackURL(server, url.Values{"state": {"state-1"}, "code": {"c"}}), "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCallbackServer_EscapesProviderText(t *testing.T) {
	server := startServer(t, "state-1")

	resp, err := http.Get(callbackURL(server, url.Values{
		"error":             {"access_denied"},
		"error_description": {"<script>alert(1)</script>"},
	}))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.NotContains(t, string(body), "<script>")
	assert.Contains(t, string(body), "&lt;script&gt;")
}

func TestCallbackServer_WaitForCode_Timeout(t *testing.T) {
	server := startServer(t, "s")

	_, err := server.WaitForCode(20 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestCallbackServer_StopIsIdempotent(t *testing.T) {
	server := NewCallbackServer(0, "s")
	require.NoError(t, server.Stop(), "stop before start")
	require.NoError(t, server.Start())
	require.NoError(t, server.Stop())
	require.NoError(t, server.Stop())
}

func TestCallbackFactory(t *testing.T) {
	factory := NewCallbackFactory(DefaultPortStart, DefaultPortEnd)

	receiver := factory("state-1")
	require.NoError(t, receiver.Start())
	defer receiver.Stop()

	assert.True(t, strings.HasPrefix(receiver.RedirectURI(), "http://localhost:"))
}

func TestFindAvailablePort(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	busy := listener.Addr().(*net.TCPAddr).Port

	_, err = FindAvailablePort(busy, busy)
	assert.Error(t, err)

	_, err = FindAvailablePort(10, 5)
	assert.Error(t, err, "empty range")
}

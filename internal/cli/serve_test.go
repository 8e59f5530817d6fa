package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/usertable/internal/config"
)

func TestServe(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"name":"Leanne Graham","email":"Sincere@april.biz",`+
			`"address":{"city":"Gwenborough"},"company":{"name":"Romaguera-Crona"},"phone":"1-770-736-8031"}]`)
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Defaults()
	cfg.Source.URL = upstream.URL
	cfg.Server.ShutdownTimeout = 2 * time.Second

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cmd, cfg, ln) }()

	base := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, getErr := http.Get(base + "/healthz")
		if getErr != nil {
			return false
		}
		defer resp.Body.Close()
		var health map[string]string
		return json.NewDecoder(resp.Body).Decode(&health) == nil && health["source"] == "success"
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "Leanne Graham")
	assert.Contains(t, string(body), "Page 1 of 1")

	cancel()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Contains(t, out.String(), "Serving users on http://"+ln.Addr().String())
}

func TestServe_UpstreamFailureKeepsServing(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Defaults()
	cfg.Source.URL = upstream.URL

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	cmd := &cobra.Command{}
	cmd.SetOut(io.Discard)
	go func() { done <- serve(ctx, cmd, cfg, ln) }()

	base := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, getErr := http.Get(base + "/")
		if getErr != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return bytes.Contains(body, []byte("Error fetching data"))
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

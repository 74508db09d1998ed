package http

import (
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayClientConfig(t *testing.T) {
	cfg := GatewayClientConfig()

	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinTLSVersion)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.True(t, cfg.DisableCompression)
	assert.Equal(t, cfg.MaxIdleConns, cfg.MaxIdleConnsPerHost)
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(GatewayClientConfig(), 15*time.Second)

	assert.Equal(t, 15*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 50, transport.MaxIdleConnsPerHost)
	assert.Equal(t, uint16(tls.VersionTLS12), transport.TLSClientConfig.MinVersion)
}

func TestNewHTTPClient_DoesNotFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/moved" {
			w.Write([]byte("should not be reached"))
			return
		}
		http.Redirect(w, r, "/moved", http.StatusFound)
	}))
	defer server.Close()

	client := NewHTTPClient(GatewayClientConfig(), 5*time.Second)

	resp, err := client.Post(server.URL, "application/x-www-form-urlencoded", nil)
	if resp != nil {
		resp.Body.Close()
	}

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRedirect))
}

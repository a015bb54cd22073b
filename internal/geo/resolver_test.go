package geo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) *IPAPIResolver {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewIPAPIResolver(server.URL, 2*time.Second, slog.Default())
}

func TestIPAPIResolver_ResolveCountry_Success(t *testing.T) {
	resolver := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/103.21.58.12", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","countryCode":"IN","country":"India","city":"Mumbai"}`))
	})

	code, err := resolver.ResolveCountry(context.Background(), "103.21.58.12")
	require.NoError(t, err)
	assert.Equal(t, "IN", code)
}

func TestIPAPIResolver_ResolveLocation_Success(t *testing.T) {
	resolver := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","countryCode":"IN","country":"India","city":"Mumbai"}`))
	})

	location, err := resolver.ResolveLocation(context.Background(), "103.21.58.12")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai, India", location)
}

func TestIPAPIResolver_ResolveLocation_CountryOnly(t *testing.T) {
	resolver := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","countryCode":"IN","country":"India"}`))
	})

	location, err := resolver.ResolveLocation(context.Background(), "103.21.58.12")
	require.NoError(t, err)
	assert.Equal(t, "India", location)
}

func TestIPAPIResolver_InBandFailure(t *testing.T) {
	// ip-api reports private-range and bogus addresses with a 200 status
	resolver := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	})

	_, err := resolver.ResolveCountry(context.Background(), "192.168.1.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
}

func TestIPAPIResolver_ServerError(t *testing.T) {
	resolver := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := resolver.ResolveCountry(context.Background(), "103.21.58.12")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
}

func TestIPAPIResolver_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"status":"success","countryCode":"IN"}`))
	}))
	defer server.Close()

	resolver := NewIPAPIResolver(server.URL, 20*time.Millisecond, slog.Default())

	_, err := resolver.ResolveCountry(context.Background(), "103.21.58.12")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
}

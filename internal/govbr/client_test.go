package govbr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadastro-saude/patient-registry/internal/config"
	"github.com/cadastro-saude/patient-registry/pkg/metrics"
)

func newProvider(t *testing.T, tokenStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "authorization_code" ||
			r.Form.Get("code") != "good-code" ||
			r.Form.Get("redirect_uri") != "http://localhost:3000/login" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(tokenStatus)
		json.NewEncoder(w).Encode(map[string]string{"access_token": "at-123", "token_type": "Bearer"})
	})
	mux.HandleFunc("/userinfo/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"sub":   "52998224725",
			"email": "cidadao@gov.br",
			"name":  "Cidadão Teste",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server, m *metrics.Metrics) *Client {
	return NewClient(config.GovBRConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:3000/login",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo/",
		Timeout:      2 * time.Second,
	}, m)
}

func TestExchange(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	client := newTestClient(newProvider(t, http.StatusOK), m)

	profile, err := client.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "52998224725", profile.Subject)
	assert.Equal(t, "cidadao@gov.br", profile.Email)
	assert.Equal(t, "Cidadão Teste", profile.Name)
	assert.Equal(t, 2, testutil.CollectAndCount(m.ProviderLatency))
}

func TestExchangeRejectedCode(t *testing.T) {
	client := newTestClient(newProvider(t, http.StatusOK), nil)

	_, err := client.Exchange(context.Background(), "bad-code")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExchange)
	assert.Contains(t, err.Error(), "unexpected status 400")
}

func TestExchangeTimesOut(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	client := NewClient(config.GovBRConfig{
		TokenURL:    slow.URL,
		UserInfoURL: slow.URL,
		Timeout:     50 * time.Millisecond,
	}, nil)

	start := time.Now()
	_, err := client.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, ErrTokenExchange)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	client := NewClient(config.GovBRConfig{TokenURL: failing.URL, UserInfoURL: failing.URL, Timeout: time.Second}, nil)

	for i := 0; i < 5; i++ {
		_, err := client.Exchange(context.Background(), "code")
		require.ErrorIs(t, err, ErrTokenExchange)
	}

	_, err := client.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

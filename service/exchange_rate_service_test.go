package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"webnova-cotizador/models"
)

func TestNewExchangeRateServiceSeed(t *testing.T) {
	s := NewExchangeRateService(nil, nil, 0, time.Hour)
	assert.Equal(t, 60.50, s.Rate())

	snap := s.Snapshot()
	assert.Equal(t, DefaultRateSource, snap.Source)
	assert.Equal(t, models.RateUninitialized, snap.State)

	s = NewExchangeRateService(nil, nil, 58.25, time.Hour)
	assert.Equal(t, 58.25, s.Rate())
}

func TestRefreshAcceptsLiveRate(t *testing.T) {
	repo := &fakeRateRepo{}
	fetcher := &fakeFetcher{rate: models.ExchangeRate{Rate: 62.1, Source: "live"}}
	s := NewExchangeRateService(repo, fetcher, 60.5, time.Hour)

	assert.Equal(t, 62.1, s.Refresh(context.Background()))
	assert.Equal(t, models.RateReady, s.Snapshot().State)
	assert.Equal(t, "live", s.Snapshot().Source)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, 62.1, repo.inserted[0].Rate)
}

func TestRefreshRejectsInvalidRates(t *testing.T) {
	for name, bad := range map[string]float64{
		"zero":     0,
		"negative": -3,
		"nan":      math.NaN(),
		"inf":      math.Inf(1),
	} {
		t.Run(name, func(t *testing.T) {
			repo := &fakeRateRepo{}
			fetcher := &fakeFetcher{rate: models.ExchangeRate{Rate: bad, Source: "live"}}
			s := NewExchangeRateService(repo, fetcher, 58, time.Hour)

			assert.Equal(t, 58.0, s.Refresh(context.Background()))
			assert.Equal(t, models.RateStale, s.Snapshot().State)
			assert.Empty(t, repo.inserted)
		})
	}
}

func TestRefreshFallsBackToStoredRate(t *testing.T) {
	repo := &fakeRateRepo{latest: &models.ExchangeRate{Rate: 59.75, Source: "open.er-api.com"}}
	fetcher := &fakeFetcher{err: errors.New("offline")}
	s := NewExchangeRateService(repo, fetcher, 60.5, time.Hour)

	assert.Equal(t, 59.75, s.Refresh(context.Background()))
	assert.Equal(t, models.RateReady, s.Snapshot().State)
	assert.Empty(t, repo.inserted)
}

func TestRefreshKeepsLastGoodRateAfterFailure(t *testing.T) {
	fetcher := &fakeFetcher{rate: models.ExchangeRate{Rate: 61, Source: "live"}}
	s := NewExchangeRateService(nil, fetcher, 60.5, time.Hour)
	s.Refresh(context.Background())

	fetcher.mu.Lock()
	fetcher.err = errors.New("offline")
	fetcher.mu.Unlock()

	assert.Equal(t, 61.0, s.Refresh(context.Background()))
	assert.Equal(t, models.RateReady, s.Snapshot().State)
}

func TestStartRefreshesUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fetcher := &fakeFetcher{rate: models.ExchangeRate{Rate: 61.4, Source: "live"}}
	s := NewExchangeRateService(nil, fetcher, 60.5, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return fetcher.calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 61.4, s.Rate())
	assert.Equal(t, models.RateReady, s.Snapshot().State)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStartWithoutFetcherWaitsForCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	repo := &fakeRateRepo{latest: &models.ExchangeRate{Rate: 59, Source: "db"}}
	s := NewExchangeRateService(repo, nil, 60.5, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return s.Rate() == 59 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestLiveRateFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v4/latest/USD":
			_, _ = w.Write([]byte(`{"base": "USD", "rates": {"EUR": 0.92, "DOP": 60.9}}`))
		case "/flat":
			_, _ = w.Write([]byte(`{"tasa": 61.2}`))
		case "/nodop":
			_, _ = w.Write([]byte(`{"rates": {"EUR": 0.92}}`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()
	host, err := url.Parse(srv.URL)
	require.NoError(t, err)
	fixed := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("first valid source wins", func(t *testing.T) {
		f := NewLiveRateFetcher([]string{srv.URL + "/down", srv.URL + "/nodop", srv.URL + "/v4/latest/USD", srv.URL + "/flat"}, time.Second)
		f.now = func() time.Time { return fixed }

		rate, err := f.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 60.9, rate.Rate)
		assert.Equal(t, host.Host, rate.Source)
		assert.Equal(t, fixed, rate.FetchedAt)
	})

	t.Run("flat body", func(t *testing.T) {
		f := NewLiveRateFetcher([]string{srv.URL + "/flat"}, time.Second)
		rate, err := f.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 61.2, rate.Rate)
	})

	t.Run("every source fails", func(t *testing.T) {
		f := NewLiveRateFetcher([]string{srv.URL + "/down", srv.URL + "/nodop"}, time.Second)
		_, err := f.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrNoRate)
	})
}

func TestParseRateBody(t *testing.T) {
	tests := []struct {
		body    string
		want    float64
		wantErr bool
	}{
		{body: `{"rates": {"DOP": 60.5}}`, want: 60.5},
		{body: `{"rate": 59.1}`, want: 59.1},
		{body: `{"valor": 58}`, want: 58},
		{body: `{"rates": {"DOP": 0}, "rate": 61}`, want: 61},
		{body: `{"rate": -1}`, wantErr: true},
		{body: `{}`, wantErr: true},
		{body: `<html>`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got, err := parseRateBody([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

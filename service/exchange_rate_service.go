package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"webnova-cotizador/models"
	"webnova-cotizador/repository"
)

// DefaultRateSource labels the seeded rate
const DefaultRateSource = "default"

// ExchangeRateService keeps the USD→DOP rate used for every conversion.
// It always holds a positive rate: it starts from a seed value and only
// replaces it with valid candidates.
type ExchangeRateService struct {
	repo     repository.ExchangeRateRepositoryInterface // optional
	fetcher  RateFetcherInterface                       // optional
	interval time.Duration

	mu        sync.RWMutex
	current   models.ExchangeRate
	state     models.RateState
	fetchedOK bool
}

// Ensure ExchangeRateService implements RateSource
var _ RateSource = (*ExchangeRateService)(nil)

// NewExchangeRateService creates the provider seeded with seed (RD$ per USD)
func NewExchangeRateService(
	repo repository.ExchangeRateRepositoryInterface,
	fetcher RateFetcherInterface,
	seed float64,
	interval time.Duration,
) *ExchangeRateService {
	if !validRate(seed) {
		seed = 60.50
	}
	return &ExchangeRateService{
		repo:     repo,
		fetcher:  fetcher,
		interval: interval,
		current:  models.ExchangeRate{Rate: seed, Source: DefaultRateSource},
		state:    models.RateUninitialized,
	}
}

// Rate returns the rate in use; never <= 0 or NaN
func (s *ExchangeRateService) Rate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Rate
}

// Snapshot returns the rate in use with its provenance and provider state
func (s *ExchangeRateService) Snapshot() models.ExchangeRateResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.ExchangeRateResponse{ExchangeRate: s.current, State: s.state}
}

// Start loads the stored rate, then refreshes from the live source immediately
// and on every tick until ctx is done. It blocks and returns nil on cancellation.
func (s *ExchangeRateService) Start(ctx context.Context) error {
	s.begin()
	s.finish(s.loadStored(ctx))
	s.Refresh(ctx)

	if s.interval <= 0 || s.fetcher == nil {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("💱 ExchangeRate: refresh loop stopped")
			return nil
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh tries the live source (write-through to the repository) and falls back
// to the stored rate. Failures are only logged; the rate in use is returned.
func (s *ExchangeRateService) Refresh(ctx context.Context) float64 {
	s.begin()
	ok := s.refreshLive(ctx)
	if !ok {
		ok = s.loadStored(ctx)
	}
	s.finish(ok)
	return s.Rate()
}

func (s *ExchangeRateService) refreshLive(ctx context.Context) bool {
	if s.fetcher == nil {
		return false
	}
	rate, err := s.fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("⚠️  ExchangeRate: live refresh failed, keeping %.4f: %v", s.Rate(), err)
		return false
	}
	if !s.accept(rate) {
		return false
	}
	if s.repo != nil {
		if err := s.repo.Insert(ctx, rate); err != nil {
			log.Printf("⚠️  ExchangeRate: failed to store fetched rate: %v", err)
		}
	}
	return true
}

func (s *ExchangeRateService) loadStored(ctx context.Context) bool {
	if s.repo == nil {
		return false
	}
	rate, err := s.repo.Latest(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("⚠️  ExchangeRate: failed to read stored rate: %v", err)
		}
		return false
	}
	return s.accept(*rate)
}

// accept replaces the current rate with candidate when it is usable
func (s *ExchangeRateService) accept(candidate models.ExchangeRate) bool {
	if !validRate(candidate.Rate) {
		log.Printf("⚠️  ExchangeRate: rejecting invalid rate %v from %s", candidate.Rate, candidate.Source)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = candidate
	s.fetchedOK = true
	log.Printf("💱 ExchangeRate: 1 USD = RD$%.4f (%s)", candidate.Rate, candidate.Source)
	return true
}

func (s *ExchangeRateService) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.RateFetching
}

func (s *ExchangeRateService) finish(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok || s.fetchedOK {
		s.state = models.RateReady
		return
	}
	s.state = models.RateStale
}

func validRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}

// LiveRateFetcher reads the USD→DOP rate from public JSON feeds, in order
type LiveRateFetcher struct {
	http *resty.Client
	urls []string
	now  func() time.Time
}

// Ensure LiveRateFetcher implements RateFetcherInterface
var _ RateFetcherInterface = (*LiveRateFetcher)(nil)

// NewLiveRateFetcher creates a fetcher trying urls in order
func NewLiveRateFetcher(urls []string, timeout time.Duration) *LiveRateFetcher {
	return &LiveRateFetcher{
		http: resty.New().SetTimeout(timeout),
		urls: append([]string(nil), urls...),
		now:  time.Now,
	}
}

// Fetch returns the first valid rate; ErrNoRate when every source failed
func (f *LiveRateFetcher) Fetch(ctx context.Context) (models.ExchangeRate, error) {
	var errs []error
	for _, u := range f.urls {
		rate, err := f.fetchOne(ctx, u)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u, err))
			continue
		}
		return models.ExchangeRate{Rate: rate, FetchedAt: f.now().UTC(), Source: sourceName(u)}, nil
	}
	return models.ExchangeRate{}, fmt.Errorf("%w: %w", ErrNoRate, errors.Join(errs...))
}

func (f *LiveRateFetcher) fetchOne(ctx context.Context, u string) (float64, error) {
	rr, err := f.http.R().SetContext(ctx).SetHeader("Accept", "application/json").Get(u)
	if err != nil {
		return 0, err
	}
	if rr.IsError() {
		return 0, fmt.Errorf("status %s", rr.Status())
	}
	return parseRateBody(rr.Body())
}

// parseRateBody accepts {"rates":{"DOP":n}} or a flat {"rate"|"tasa"|"valor":n}
func parseRateBody(body []byte) (float64, error) {
	var payload struct {
		Rates map[string]float64 `json:"rates"`
		Rate  *float64           `json:"rate"`
		Tasa  *float64           `json:"tasa"`
		Valor *float64           `json:"valor"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("malformed body: %w", err)
	}
	candidates := []*float64{payload.Rate, payload.Tasa, payload.Valor}
	if dop, ok := payload.Rates["DOP"]; ok {
		candidates = append([]*float64{&dop}, candidates...)
	}
	for _, c := range candidates {
		if c != nil && validRate(*c) {
			return *c, nil
		}
	}
	return 0, errors.New("no DOP rate in body")
}

func sourceName(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return u
	}
	return parsed.Host
}

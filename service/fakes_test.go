package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"webnova-cotizador/advisory"
	"webnova-cotizador/models"
	"webnova-cotizador/repository"
)

type fixedRate float64

func (r fixedRate) Rate() float64 { return float64(r) }

type fakeQuotationRepo struct {
	mu      sync.Mutex
	records map[string]models.QuotationRecord
	calls   int
	inserts int
	updates int
	err     error
}

func newFakeQuotationRepo(records ...models.QuotationRecord) *fakeQuotationRepo {
	f := &fakeQuotationRepo{records: map[string]models.QuotationRecord{}}
	for _, r := range records {
		f.records[r.ID] = r
	}
	return f
}

func (f *fakeQuotationRepo) Insert(_ context.Context, record *models.QuotationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.inserts++
	record.CreatedAt = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	record.UpdatedAt = record.CreatedAt
	f.records[record.ID] = *record
	return nil
}

func (f *fakeQuotationRepo) List(_ context.Context) ([]models.QuotationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.QuotationRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeQuotationRepo) GetByID(_ context.Context, id string) (*models.QuotationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	r, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeQuotationRepo) UpdateStatus(_ context.Context, id string, status string) (*models.QuotationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	r, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f.updates++
	r.Status = status
	f.records[id] = r
	return &r, nil
}

func (f *fakeQuotationRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeRateRepo struct {
	mu       sync.Mutex
	latest   *models.ExchangeRate
	inserted []models.ExchangeRate
}

func (f *fakeRateRepo) Latest(_ context.Context) (*models.ExchangeRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest == nil {
		return nil, repository.ErrNotFound
	}
	r := *f.latest
	return &r, nil
}

func (f *fakeRateRepo) Insert(_ context.Context, rate models.ExchangeRate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, rate)
	return nil
}

type fakeFetcher struct {
	mu    sync.Mutex
	rate  models.ExchangeRate
	err   error
	count int
}

func (f *fakeFetcher) Fetch(_ context.Context) (models.ExchangeRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return f.rate, f.err
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

type fakeCompletion struct {
	result   *CompletionResult
	err      error
	messages []advisory.Message
	onCall   func()
}

func (f *fakeCompletion) Complete(_ context.Context, messages []advisory.Message) (*CompletionResult, error) {
	f.messages = messages
	if f.onCall != nil {
		f.onCall()
	}
	return f.result, f.err
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []models.InferenceLog
}

func (f *fakeLogRepo) Insert(_ context.Context, entry models.InferenceLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

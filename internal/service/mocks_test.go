package service

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/google/uuid"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/orderclient"
	"github.com/borcelle/storefront/internal/repository"
	"github.com/borcelle/storefront/pkg/errors"
)

// fakeSubmitter records submissions and returns a scripted result
type fakeSubmitter struct {
	mu      sync.Mutex
	calls   []submission
	orderID string
	err     error
	// block, when set, is waited on before returning
	block chan struct{}
}

type submission struct {
	key string
	req domain.OrderRequest
}

func (f *fakeSubmitter) Submit(ctx context.Context, key string, req domain.OrderRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, submission{key: key, req: req})
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return "", f.err
	}
	return f.orderID, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeOrderCreator struct {
	gotKey   string
	gotInput orderclient.CreateOrderInput
	resp     *orderclient.CreateOrderResponse
	err      error
}

func (f *fakeOrderCreator) CreateOrder(ctx context.Context, key string, input orderclient.CreateOrderInput) (*orderclient.CreateOrderResponse, error) {
	f.gotKey = key
	f.gotInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// missingKeys hides the first n key lookups, as if a concurrent request
// had not committed yet
type missingKeys struct {
	repository.IdempotencyKeyRepository
	n int
}

func (m *missingKeys) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	if m.n > 0 {
		m.n--
		return nil, &errors.ErrNotFound{Resource: "idempotency key", ID: key}
	}
	return m.IdempotencyKeyRepository.GetByKey(ctx, key)
}

// flakySessions fails session writes numbered failFrom through failTo,
// counting from one
type flakySessions struct {
	repository.SessionStore
	failFrom int
	failTo   int

	mu      sync.Mutex
	updates int
}

func (f *flakySessions) Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	f.mu.Lock()
	f.updates++
	n := f.updates
	f.mu.Unlock()

	if n >= f.failFrom && n <= f.failTo {
		return nil, stderrors.New("redis: connection reset")
	}
	return f.SessionStore.Update(ctx, id, fn)
}

// staleOrders serves a fixed snapshot on reads, as a request that loaded
// the order just before another request changed it would see it
type staleOrders struct {
	repository.OrderRepository
	snapshot domain.Order
}

func (s *staleOrders) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order := s.snapshot
	return &order, nil
}

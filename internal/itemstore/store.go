// Package itemstore holds the session's authoritative in-memory collection of
// items. Every view reads from one Store and routes every mutation through it.
package itemstore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vbonduro/stockroom/internal/domain"
)

// ItemAPI is the subset of the item service the store depends on.
type ItemAPI interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	CreateItem(ctx context.Context, draft domain.ItemDraft) (*domain.Item, error)
	UpdateItem(ctx context.Context, id int64, patch domain.ItemPatch) (*domain.Item, error)
}

// Store operations are serialized: at most one network call is in flight,
// so a Refresh can never drop an item created by a concurrent Create. Reads
// only take the state lock and never wait on the network.
type Store struct {
	api    ItemAPI
	logger *slog.Logger

	// op is the single operation slot. A caller waiting for it gives up when
	// its context is done.
	op chan struct{}

	mu         sync.RWMutex
	collection map[int64]domain.Item
	order      []int64
	loading    bool
	lastErr    error

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func([]domain.Item)
}

func New(api ItemAPI, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:        api,
		logger:     logger,
		op:         make(chan struct{}, 1),
		collection: make(map[int64]domain.Item),
		subs:       make(map[int]func([]domain.Item)),
	}
}

// Refresh replaces the collection with the service's list. Items held
// locally but missing from the response are dropped. On failure the
// collection is left as it was.
func (s *Store) Refresh(ctx context.Context) error {
	return s.run(ctx, "refresh", func() error {
		items, err := s.api.ListItems(ctx)
		if err != nil {
			return err
		}

		collection := make(map[int64]domain.Item, len(items))
		order := make([]int64, 0, len(items))
		for _, it := range items {
			if _, seen := collection[it.ID]; !seen {
				order = append(order, it.ID)
			}
			collection[it.ID] = it.Clone()
		}

		s.mu.Lock()
		s.collection = collection
		s.order = order
		s.mu.Unlock()

		s.logger.Debug("items refreshed", "count", len(order))
		return nil
	})
}

// Create rejects a blank name without calling the service. On success the
// new item is added under its service-assigned id.
func (s *Store) Create(ctx context.Context, draft domain.ItemDraft) (*domain.Item, error) {
	var item *domain.Item
	err := s.run(ctx, "create", func() error {
		if err := domain.ValidateName(draft.Name); err != nil {
			return err
		}

		created, err := s.api.CreateItem(ctx, draft)
		if err != nil {
			return err
		}

		s.put(*created)
		s.logger.Info("item created", "id", created.ID, "name", created.Name)
		item = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update checks the name only when the patch sets one. On success the held
// entry is replaced by the service's full representation.
func (s *Store) Update(ctx context.Context, id int64, patch domain.ItemPatch) (*domain.Item, error) {
	var item *domain.Item
	err := s.run(ctx, "update", func() error {
		if patch.Name != nil {
			if err := domain.ValidateName(*patch.Name); err != nil {
				return err
			}
		}

		updated, err := s.api.UpdateItem(ctx, id, patch)
		if err != nil {
			return err
		}

		s.put(*updated)
		s.logger.Info("item updated", "id", updated.ID)
		item = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID looks in the held collection only. Callers that need a missing
// item fetch it from the service themselves.
func (s *Store) GetByID(id int64) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.collection[id]
	if !ok {
		return domain.Item{}, false
	}
	return it.Clone(), true
}

// Items returns a snapshot in list order. Mutating it does not affect the
// store.
func (s *Store) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Filtered(f domain.Filter) []domain.Item {
	return domain.FilterItems(s.Items(), f)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the failure of the most recent operation, or nil.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Subscribe registers fn to receive a snapshot after every successful
// mutation. The returned func removes it.
func (s *Store) Subscribe(fn func([]domain.Item)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// run executes fn in the operation slot. Subscribers are notified after the
// slot is released, so a subscriber may start another operation.
func (s *Store) run(ctx context.Context, op string, fn func() error) error {
	if err := s.begin(ctx); err != nil {
		return s.fail(op, err)
	}
	err := fn()
	if err != nil {
		s.fail(op, err)
	}
	s.end()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Store) begin(ctx context.Context) error {
	select {
	case s.op <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.mu.Lock()
	s.lastErr = nil
	s.loading = true
	s.mu.Unlock()
	return nil
}

func (s *Store) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	<-s.op
}

func (s *Store) fail(op string, err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.logger.Warn("item operation failed", "op", op, "err", err)
	return err
}

func (s *Store) put(it domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collection[it.ID]; !ok {
		s.order = append(s.order, it.ID)
	}
	s.collection[it.ID] = it.Clone()
}

func (s *Store) snapshotLocked() []domain.Item {
	out := make([]domain.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.collection[id].Clone())
	}
	return out
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func([]domain.Item), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	if len(fns) == 0 {
		return
	}

	for _, fn := range fns {
		fn(s.Items())
	}
}

package fulfillment_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional: el mutex serializa cada
// transacción (como los bloqueos de fila) y el snapshot permite rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	requests  map[string]*entity.StockRequest
	levels    map[string]*entity.StockLevel // clave item|location
	movements []*entity.StockMovement
	users     map[string]*entity.User
	items     map[string]*entity.Item
}

func newMemStore() *memStore {
	return &memStore{
		requests: make(map[string]*entity.StockRequest),
		levels:   make(map[string]*entity.StockLevel),
		users:    make(map[string]*entity.User),
		items:    make(map[string]*entity.Item),
	}
}

func levelKey(itemID, locationID string) string { return itemID + "|" + locationID }

func copyRequest(r *entity.StockRequest) *entity.StockRequest {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Items = make([]*entity.StockRequestItem, len(r.Items))
	for i, it := range r.Items {
		itCp := *it
		cp.Items[i] = &itCp
	}
	return &cp
}

func copyLevel(l *entity.StockLevel) *entity.StockLevel {
	cp := *l
	return &cp
}

// snapshot copia el estado mutable para restaurarlo si la transacción falla.
func (s *memStore) snapshot() func() {
	requests := make(map[string]*entity.StockRequest, len(s.requests))
	for k, v := range s.requests {
		requests[k] = copyRequest(v)
	}
	levels := make(map[string]*entity.StockLevel, len(s.levels))
	for k, v := range s.levels {
		levels[k] = copyLevel(v)
	}
	movements := make([]*entity.StockMovement, len(s.movements))
	copy(movements, s.movements)
	return func() {
		s.requests = requests
		s.levels = levels
		s.movements = movements
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake sobre el almacén
// ──────────────────────────────────────────────────────────────────────────────

type fakeRequestRepo struct{ s *memStore }

var _ repository.StockRequestRepository = (*fakeRequestRepo)(nil)

func (r *fakeRequestRepo) Create(req *entity.StockRequest) error {
	for _, existing := range r.s.requests {
		if existing.RequestNumber == req.RequestNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.requests[req.ID] = copyRequest(req)
	return nil
}

func (r *fakeRequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	return copyRequest(r.s.requests[id]), nil
}

func (r *fakeRequestRepo) GetByNumber(number string) (*entity.StockRequest, error) {
	for _, req := range r.s.requests {
		if req.RequestNumber == number {
			return copyRequest(req), nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) GetForUpdate(id string) (*entity.StockRequest, error) {
	return r.GetByID(id)
}

func (r *fakeRequestRepo) UpdateStatus(req *entity.StockRequest) error {
	stored, ok := r.s.requests[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != req.Version {
		return domain.ErrConcurrentModification
	}
	cp := copyRequest(req)
	cp.Items = stored.Items // UpdateStatus no toca líneas
	cp.Version++
	r.s.requests[req.ID] = cp
	req.Version++
	return nil
}

func (r *fakeRequestRepo) UpdateItems(items []*entity.StockRequestItem) error {
	for _, it := range items {
		req, ok := r.s.requests[it.RequestID]
		if !ok {
			return domain.ErrNotFound
		}
		found := false
		for i, stored := range req.Items {
			if stored.ID == it.ID {
				itCp := *it
				req.Items[i] = &itCp
				found = true
				break
			}
		}
		if !found {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *fakeRequestRepo) ListByFacility(facilityID, status string, limit, offset int) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for _, req := range r.s.requests {
		if req.RequestingFacility == facilityID && (status == "" || req.Status == status) {
			out = append(out, copyRequest(req))
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByStatus(status string, limit, offset int) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for _, req := range r.s.requests {
		if status == "" || req.Status == status {
			out = append(out, copyRequest(req))
		}
	}
	return out, nil
}

type fakeLevelRepo struct{ s *memStore }

var _ repository.StockLevelRepository = (*fakeLevelRepo)(nil)

func (r *fakeLevelRepo) Get(itemID, locationID string) (*entity.StockLevel, error) {
	if l, ok := r.s.levels[levelKey(itemID, locationID)]; ok {
		return copyLevel(l), nil
	}
	return &entity.StockLevel{ItemID: itemID, LocationID: locationID}, nil
}

func (r *fakeLevelRepo) GetForUpdate(itemID, locationID string) (*entity.StockLevel, error) {
	return r.Get(itemID, locationID)
}

func (r *fakeLevelRepo) GetMany(locationID string, itemIDs []string) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, id := range itemIDs {
		if l, ok := r.s.levels[levelKey(id, locationID)]; ok {
			out = append(out, copyLevel(l))
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) Upsert(level *entity.StockLevel) error {
	r.s.levels[levelKey(level.ItemID, level.LocationID)] = copyLevel(level)
	return nil
}

func (r *fakeLevelRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, l := range r.s.levels {
		if l.LocationID == locationID {
			out = append(out, copyLevel(l))
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) ListLowStock(locationID string) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, l := range r.s.levels {
		item := r.s.items[l.ItemID]
		if l.LocationID == locationID && item != nil && l.Available() <= item.ReorderLevel {
			out = append(out, copyLevel(l))
		}
	}
	return out, nil
}

type fakeMovementRepo struct{ s *memStore }

var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByItemLocation(itemID, locationID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ItemID == itemID && m.LocationID == locationID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByReference(reference string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.Reference == reference {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeUserRepo struct{ s *memStore }

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.s.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return r.s.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeItemRepo struct{ s *memStore }

var _ repository.ItemRepository = (*fakeItemRepo)(nil)

func (r *fakeItemRepo) Create(it *entity.Item) error {
	r.s.items[it.ID] = it
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.s.items[id], nil
}

func (r *fakeItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	for _, it := range r.s.items {
		if it.SKU == sku {
			return it, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) GetByIDs(ids []string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, id := range ids {
		if it, ok := r.s.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.s.items {
		out = append(out, it)
	}
	return out, nil
}

type fakeFacilityRepo struct {
	facilities map[string]*entity.Facility
}

var _ repository.FacilityRepository = (*fakeFacilityRepo)(nil)

func (r *fakeFacilityRepo) Create(f *entity.Facility) error {
	r.facilities[f.ID] = f
	return nil
}

func (r *fakeFacilityRepo) GetByID(id string) (*entity.Facility, error) {
	return r.facilities[id], nil
}

func (r *fakeFacilityRepo) List(limit, offset int) ([]*entity.Facility, error) {
	var out []*entity.Facility
	for _, f := range r.facilities {
		out = append(out, f)
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner fake: serializa con el mutex y restaura el snapshot si fn falla.
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	s *memStore
	// afterCommit se ejecuta una sola vez tras el siguiente commit exitoso,
	// con el mutex aún tomado. Permite simular que el estado cambió entre
	// dos transacciones consecutivas.
	afterCommit func()
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	reqRepo repository.StockRequestRepository,
	levelRepo repository.StockLevelRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	restore := t.s.snapshot()
	if err := fn(&fakeRequestRepo{s: t.s}, &fakeLevelRepo{s: t.s}, &fakeMovementRepo{s: t.s}); err != nil {
		restore()
		return err
	}
	if t.afterCommit != nil {
		hook := t.afterCommit
		t.afterCommit = nil
		hook()
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificador y caché fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) RequestTransitioned(_ context.Context, event string, _ *entity.StockRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}

type fakeCache struct {
	mu          sync.Mutex
	values      map[string]int64
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]int64)}
}

func (c *fakeCache) GetAvailable(_ context.Context, locationID, itemID string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[levelKey(itemID, locationID)]
	return v, ok
}

func (c *fakeCache) SetAvailable(_ context.Context, locationID, itemID string, qty int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[levelKey(itemID, locationID)] = qty
}

func (c *fakeCache) Invalidate(_ context.Context, locationID string, itemIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range itemIDs {
		delete(c.values, levelKey(id, locationID))
		c.invalidated = append(c.invalidated, levelKey(id, locationID))
	}
}

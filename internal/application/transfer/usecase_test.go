package transfer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptransfer "github.com/jhoicas/Suministros-api/internal/application/transfer"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

const (
	fromLoc = "loc-central"
	toLoc   = "loc-fac-norte"
	actorID = "usr-despachador"

	itemA = "item-aaa"
	itemB = "item-bbb"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (mismo contrato que los repos de postgres: copia al leer,
// snapshot para rollback, nivel en cero cuando no hay fila)
// ──────────────────────────────────────────────────────────────────────────────

type transferStore struct {
	transfers map[string]*entity.StockTransfer
	levels    map[string]*entity.StockLevel
	movements []*entity.StockMovement
}

func newTransferStore() *transferStore {
	return &transferStore{
		transfers: make(map[string]*entity.StockTransfer),
		levels:    make(map[string]*entity.StockLevel),
	}
}

func levelKey(itemID, locationID string) string { return itemID + "|" + locationID }

func copyTransfer(tr *entity.StockTransfer) *entity.StockTransfer {
	if tr == nil {
		return nil
	}
	cp := *tr
	cp.Items = make([]*entity.StockTransferItem, len(tr.Items))
	for i, it := range tr.Items {
		itCp := *it
		cp.Items[i] = &itCp
	}
	return &cp
}

func (s *transferStore) snapshot() func() {
	transfers := make(map[string]*entity.StockTransfer, len(s.transfers))
	for k, v := range s.transfers {
		transfers[k] = copyTransfer(v)
	}
	levels := make(map[string]*entity.StockLevel, len(s.levels))
	for k, v := range s.levels {
		cp := *v
		levels[k] = &cp
	}
	movements := make([]*entity.StockMovement, len(s.movements))
	copy(movements, s.movements)
	return func() {
		s.transfers = transfers
		s.levels = levels
		s.movements = movements
	}
}

type fakeTransferRepo struct{ s *transferStore }

func (r *fakeTransferRepo) Create(tr *entity.StockTransfer) error {
	r.s.transfers[tr.ID] = copyTransfer(tr)
	return nil
}

func (r *fakeTransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	return copyTransfer(r.s.transfers[id]), nil
}

func (r *fakeTransferRepo) GetForUpdate(id string) (*entity.StockTransfer, error) {
	return r.GetByID(id)
}

func (r *fakeTransferRepo) UpdateItems(items []*entity.StockTransferItem) error {
	for _, it := range items {
		tr, ok := r.s.transfers[it.TransferID]
		if !ok {
			return domain.ErrNotFound
		}
		for i, stored := range tr.Items {
			if stored.ID == it.ID {
				itCp := *it
				tr.Items[i] = &itCp
			}
		}
	}
	return nil
}

func (r *fakeTransferRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	for _, tr := range r.s.transfers {
		if tr.FromLocationID == locationID || tr.ToLocationID == locationID {
			out = append(out, copyTransfer(tr))
		}
	}
	return out, nil
}

type fakeLevelRepo struct{ s *transferStore }

func (r *fakeLevelRepo) Get(itemID, locationID string) (*entity.StockLevel, error) {
	if l, ok := r.s.levels[levelKey(itemID, locationID)]; ok {
		cp := *l
		return &cp, nil
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
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) Upsert(level *entity.StockLevel) error {
	cp := *level
	r.s.levels[levelKey(level.ItemID, level.LocationID)] = &cp
	return nil
}

func (r *fakeLevelRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, l := range r.s.levels {
		if l.LocationID == locationID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLevelRepo) ListLowStock(locationID string) ([]*entity.StockLevel, error) {
	return nil, nil
}

type fakeMovementRepo struct{ s *transferStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByItemLocation(itemID, locationID string, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListByReference(reference string) ([]*entity.StockMovement, error) {
	return nil, nil
}

type fakeFacilityRepo struct{ facilities map[string]*entity.Facility }

func (r *fakeFacilityRepo) Create(f *entity.Facility) error { return nil }

func (r *fakeFacilityRepo) GetByID(id string) (*entity.Facility, error) {
	return r.facilities[id], nil
}

func (r *fakeFacilityRepo) List(limit, offset int) ([]*entity.Facility, error) { return nil, nil }

type fakeTxRunner struct{ s *transferStore }

func (t *fakeTxRunner) RunTransfer(ctx context.Context, fn func(
	transferRepo repository.StockTransferRepository,
	levelRepo repository.StockLevelRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	restore := t.s.snapshot()
	if err := fn(&fakeTransferRepo{s: t.s}, &fakeLevelRepo{s: t.s}, &fakeMovementRepo{s: t.s}); err != nil {
		restore()
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	store *transferStore
	uc    *apptransfer.UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := newTransferStore()
	facilities := &fakeFacilityRepo{facilities: map[string]*entity.Facility{
		fromLoc: {ID: fromLoc, Name: "Almacén Central", LocationType: entity.LocationTypeMainStore},
		toLoc:   {ID: toLoc, Name: "Sede Norte", LocationType: entity.LocationTypeFacility},
	}}
	uc := apptransfer.NewUseCase(&fakeTxRunner{s: s}, &fakeTransferRepo{s: s}, facilities)
	return &env{store: s, uc: uc}
}

func (e *env) seedLevel(itemID, locationID string, onHand int64) {
	e.store.levels[levelKey(itemID, locationID)] = &entity.StockLevel{
		ItemID: itemID, LocationID: locationID, OnHand: onHand,
	}
}

func (e *env) onHand(itemID, locationID string) int64 {
	if l, ok := e.store.levels[levelKey(itemID, locationID)]; ok {
		return l.OnHand
	}
	return 0
}

func validInput() apptransfer.CreateTransferInput {
	return apptransfer.CreateTransferInput{
		FromLocationID: fromLoc,
		FromType:       entity.LocationTypeMainStore,
		ToLocationID:   toLoc,
		ToType:         entity.LocationTypeFacility,
		ActorID:        actorID,
		Lines: []apptransfer.LineInput{
			{ItemID: itemA, Quantity: 10},
			{ItemID: itemB, Quantity: 4},
		},
	}
}

func TestCreate_DescuentaOrigenYRegistraSalidas(t *testing.T) {
	e := newEnv(t)
	e.seedLevel(itemA, fromLoc, 50)
	e.seedLevel(itemB, fromLoc, 20)

	tr, err := e.uc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, tr.TransferNumber)
	assert.Equal(t, int64(40), e.onHand(itemA, fromLoc))
	assert.Equal(t, int64(16), e.onHand(itemB, fromLoc))
	// El destino no se toca hasta la recepción.
	assert.Equal(t, int64(0), e.onHand(itemA, toLoc))

	require.Len(t, e.store.movements, 2)
	for _, m := range e.store.movements {
		assert.Equal(t, entity.MovementTypeTRANSFER, m.Type)
		assert.Equal(t, fromLoc, m.LocationID)
		assert.Equal(t, tr.TransferNumber, m.Reference)
		assert.Negative(t, m.Quantity)
	}
}

func TestCreate_StockInsuficienteNoDescuentaNada(t *testing.T) {
	e := newEnv(t)
	e.seedLevel(itemA, fromLoc, 50)
	e.seedLevel(itemB, fromLoc, 3) // no alcanza para 4

	_, err := e.uc.Create(context.Background(), validInput())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(50), e.onHand(itemA, fromLoc))
	assert.Equal(t, int64(3), e.onHand(itemB, fromLoc))
	assert.Empty(t, e.store.movements)
	assert.Empty(t, e.store.transfers)
}

func TestCreate_EntradaInvalida(t *testing.T) {
	e := newEnv(t)

	in := validInput()
	in.ToLocationID = in.FromLocationID
	_, err := e.uc.Create(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validInput()
	in.Lines = nil
	_, err = e.uc.Create(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validInput()
	in.Lines = []apptransfer.LineInput{{ItemID: itemA, Quantity: -1}}
	_, err = e.uc.Create(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validInput()
	in.ToLocationID = "loc-fantasma"
	_, err = e.uc.Create(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBulkReceive_AcumulaRecepcionesEIncrementaDestino(t *testing.T) {
	e := newEnv(t)
	e.seedLevel(itemA, fromLoc, 50)
	e.seedLevel(itemB, fromLoc, 20)

	tr, err := e.uc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// Primera recepción parcial.
	_, err = e.uc.BulkReceive(context.Background(), tr.ID, actorID, map[string]int64{itemA: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(6), e.onHand(itemA, toLoc))

	// Segunda recepción completa el resto y trae itemB.
	got, err := e.uc.BulkReceive(context.Background(), tr.ID, actorID, map[string]int64{itemA: 4, itemB: 4})
	require.NoError(t, err)

	assert.Equal(t, int64(10), e.onHand(itemA, toLoc))
	assert.Equal(t, int64(4), e.onHand(itemB, toLoc))
	for _, it := range got.Items {
		assert.Equal(t, it.Quantity, it.QuantityReceived)
	}
}

func TestBulkReceive_ArticuloAjenoAlTraslado(t *testing.T) {
	e := newEnv(t)
	e.seedLevel(itemA, fromLoc, 50)
	e.seedLevel(itemB, fromLoc, 20)

	tr, err := e.uc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = e.uc.BulkReceive(context.Background(), tr.ID, actorID, map[string]int64{"item-fantasma": 1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(0), e.onHand(itemA, toLoc))
}

func TestReconcile_DerivaEstadoPorLineaYGlobal(t *testing.T) {
	e := newEnv(t)
	e.seedLevel(itemA, fromLoc, 50)
	e.seedLevel(itemB, fromLoc, 20)

	tr, err := e.uc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// Sin recepciones: todo pendiente.
	report, err := e.uc.Reconcile(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, report.Status)

	// itemA parcial: el traslado queda partially_received.
	_, err = e.uc.BulkReceive(context.Background(), tr.ID, actorID, map[string]int64{itemA: 6})
	require.NoError(t, err)
	report, err = e.uc.Reconcile(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPartiallyReceived, report.Status)

	var lineA apptransfer.LineReport
	for _, l := range report.Lines {
		if l.ItemID == itemA {
			lineA = l
		}
	}
	assert.Equal(t, int64(4), lineA.QuantityPending)
	assert.Equal(t, "Recibido parcial", lineA.StatusLabel)
	assert.Equal(t, "warning", lineA.StatusColor)

	// Sobre-recepción en itemA y cierre de itemB: recibido completo con varianza.
	_, err = e.uc.BulkReceive(context.Background(), tr.ID, actorID, map[string]int64{itemA: 6, itemB: 4})
	require.NoError(t, err)
	report, err = e.uc.Reconcile(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, report.Status)

	for _, l := range report.Lines {
		if l.ItemID == itemA {
			assert.Equal(t, int64(2), l.VarianceQuantity)
			assert.True(t, l.IsFullyReceived)
		}
	}
}

func TestReconcile_TrasladoInexistente(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Reconcile(context.Background(), "tr-fantasma")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

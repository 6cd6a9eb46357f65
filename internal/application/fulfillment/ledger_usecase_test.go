package fulfillment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/application/fulfillment"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

func newLedgerEnv(t *testing.T) (*procEnv, *fulfillment.LedgerUseCase) {
	t.Helper()
	e := newProcEnv(t)
	uc := fulfillment.NewLedgerUseCase(e.runner, &fakeLevelRepo{s: e.store}, &fakeMovementRepo{s: e.store}, e.cache)
	return e, uc
}

func adjustInput(delta int64) fulfillment.AdjustStockInput {
	return fulfillment.AdjustStockInput{
		ItemID:     itemA,
		LocationID: centralStoreID,
		Delta:      delta,
		Reason:     "conteo físico",
		ActorID:    adminID,
	}
}

func TestAdjust_IncrementaYDejaTraza(t *testing.T) {
	e, uc := newLedgerEnv(t)
	e.seedLevel(itemA, centralStoreID, 10)
	e.cache.SetAvailable(context.Background(), centralStoreID, itemA, 10)

	level, err := uc.Adjust(context.Background(), adjustInput(5))
	require.NoError(t, err)

	assert.Equal(t, int64(15), level.OnHand)
	require.Len(t, e.store.movements, 1)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, e.store.movements[0].Type)
	assert.Equal(t, int64(5), e.store.movements[0].Quantity)
	assert.Equal(t, "conteo físico", e.store.movements[0].Reason)

	// El ajuste invalida la disponibilidad cacheada.
	_, ok := e.cache.GetAvailable(context.Background(), centralStoreID, itemA)
	assert.False(t, ok)
}

func TestAdjust_PrimeraFilaSeCreaDesdeCero(t *testing.T) {
	e, uc := newLedgerEnv(t)

	level, err := uc.Adjust(context.Background(), adjustInput(7))
	require.NoError(t, err)

	assert.Equal(t, int64(7), level.OnHand)
	assert.Equal(t, int64(7), e.level(itemA, centralStoreID).OnHand)
}

func TestAdjust_DecrementoBajoCeroFalla(t *testing.T) {
	e, uc := newLedgerEnv(t)
	e.seedLevel(itemA, centralStoreID, 3)

	_, err := uc.Adjust(context.Background(), adjustInput(-5))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), e.level(itemA, centralStoreID).OnHand)
	assert.Empty(t, e.store.movements)
}

func TestAdjust_DecrementoBajoLoReservadoFalla(t *testing.T) {
	e, uc := newLedgerEnv(t)
	e.store.levels[levelKey(itemA, centralStoreID)] = &entity.StockLevel{
		ItemID: itemA, LocationID: centralStoreID, OnHand: 10, Reserved: 5,
	}

	// 10 - 8 = 2 < 5 reservado: el disponible quedaría negativo.
	_, err := uc.Adjust(context.Background(), adjustInput(-8))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), e.level(itemA, centralStoreID).OnHand)
	assert.Empty(t, e.store.movements)

	// Con override la corrección manual sí puede dejar on_hand bajo lo reservado.
	in := adjustInput(-8)
	in.Override = true
	level, err := uc.Adjust(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(2), level.OnHand)
	assert.Equal(t, int64(5), level.Reserved)
}

func TestAdjust_OverrideTampocoPermiteNegativo(t *testing.T) {
	e, uc := newLedgerEnv(t)
	e.seedLevel(itemA, centralStoreID, 3)

	in := adjustInput(-5)
	in.Override = true
	_, err := uc.Adjust(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_EntradaInvalida(t *testing.T) {
	_, uc := newLedgerEnv(t)

	in := adjustInput(5)
	in.Reason = ""
	_, err := uc.Adjust(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = adjustInput(0)
	_, err = uc.Adjust(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustReserved_RespetaLosLimites(t *testing.T) {
	e, uc := newLedgerEnv(t)
	e.seedLevel(itemA, centralStoreID, 10)

	level, err := uc.AdjustReserved(context.Background(), adjustInput(4))
	require.NoError(t, err)
	assert.Equal(t, int64(4), level.Reserved)
	assert.Equal(t, int64(6), level.Available())

	// La reserva no puede superar lo existente.
	_, err = uc.AdjustReserved(context.Background(), adjustInput(7))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni quedar negativa.
	_, err = uc.AdjustReserved(context.Background(), adjustInput(-5))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Liberar lo reservado vuelve al estado original.
	level, err = uc.AdjustReserved(context.Background(), adjustInput(-4))
	require.NoError(t, err)
	assert.Equal(t, int64(0), level.Reserved)
	assert.Equal(t, int64(10), level.Available())
}

func TestAdjustReserved_DejaMovimientoRESERVE(t *testing.T) {
	e, uc := newLedgerEnv(t)
	e.seedLevel(itemA, centralStoreID, 10)

	_, err := uc.AdjustReserved(context.Background(), adjustInput(4))
	require.NoError(t, err)

	require.Len(t, e.store.movements, 1)
	assert.Equal(t, entity.MovementTypeRESERVE, e.store.movements[0].Type)
	assert.Equal(t, int64(4), e.store.movements[0].Quantity)
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

func TestAllocator_ReturnsFirstFreeCode(t *testing.T) {
	store := newMemStore(activeDomain("s.test", true))
	store.takenCodes["taken1"] = true
	store.takenCodes["taken2"] = true
	a := &Allocator{Links: store, Gen: &seqGen{codes: []string{"taken1", "taken2", "free01"}}, MaxAttempts: 10}

	code, err := a.Allocate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "free01", code)
	assert.Equal(t, 3, store.existsCalls)
}

func TestAllocator_ExhaustionIsInternal(t *testing.T) {
	store := newMemStore(activeDomain("s.test", true))
	codes := make([]string, 10)
	for i := range codes {
		codes[i] = "dup"
	}
	store.takenCodes["dup"] = true
	a := &Allocator{Links: store, Gen: &seqGen{codes: codes}, MaxAttempts: 10}

	_, err := a.Allocate(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.ErrorIs(t, err, errKeyspace)
	assert.Equal(t, 10, store.existsCalls)
}

func TestAllocator_GeneratorFailure(t *testing.T) {
	a := &Allocator{Links: newMemStore(), Gen: &seqGen{err: errors.New("entropy")}}
	_, err := a.Allocate(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestAllocator_DefaultGeneratorProducesTwelveChars(t *testing.T) {
	a := NewAllocator(newMemStore(activeDomain("s.test", true)))
	code, err := a.Allocate(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, code, 12)
}

func TestAllocator_ReserveValidatesBeforeStore(t *testing.T) {
	store := newMemStore(activeDomain("s.test", true))
	a := NewAllocator(store)

	err := a.Reserve(context.Background(), 1, "ab")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, store.existsCalls, "no store access for an invalid code")

	err = a.Reserve(context.Background(), 1, "stats")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, store.existsCalls)
}

func TestAllocator_ReserveConflict(t *testing.T) {
	store := newMemStore(activeDomain("s.test", true), activeDomain("t.test", false))
	store.addLink(1, "promo", "https://example.com/")
	a := NewAllocator(store)

	err := a.Reserve(context.Background(), 1, "promo")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Same code in another domain is free.
	assert.NoError(t, a.Reserve(context.Background(), 2, "promo"))
}

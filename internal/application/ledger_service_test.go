package application

import (
	"context"
	"errors"
	"testing"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerServiceGetOrCreateProducesDistinctCodes(t *testing.T) {
	t.Parallel()

	repo := newLedgerRepository(t)
	service := NewLedgerService(repo, seededRandom(7), discardLogger())

	seen := map[domain.PublicCode]domain.Identity{}
	for i := 1; i <= 300; i++ {
		record, err := service.GetOrCreate(context.Background(), domain.Identity(i))
		require.NoError(t, err)
		require.True(t, record.PublicCode.Valid(), "code %q", record.PublicCode)

		owner, dup := seen[record.PublicCode]
		require.False(t, dup, "code %s reused by %d and %d", record.PublicCode, owner, i)
		seen[record.PublicCode] = record.Identity

		assert.Equal(t, domain.CityUnset, record.City)
		assert.Zero(t, record.CreditBalance)
		assert.Zero(t, record.FreeUsesConsumed)
	}

	again, err := service.GetOrCreate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity(1), seen[again.PublicCode])
}

func TestLedgerServiceGetOrCreateRetriesTakenCode(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockLedgerRepository(t)
	random := &sequenceRandom{values: []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}}
	service := NewLedgerService(repo, random, discardLogger())

	repo.EXPECT().Get(mockAnyContext(), domain.Identity(5)).Return(domain.AccountRecord{}, domain.ErrAccountNotFound).Once()
	repo.EXPECT().Create(mockAnyContext(), domain.NewAccountRecord(5, "AAAAA")).Return(domain.ErrPublicCodeTaken).Once()
	repo.EXPECT().Create(mockAnyContext(), domain.NewAccountRecord(5, "BBBBB")).Return(nil).Once()

	record, err := service.GetOrCreate(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.PublicCode("BBBBB"), record.PublicCode)
}

func TestLedgerServiceGetOrCreateReturnsConcurrentlyCreatedRecord(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockLedgerRepository(t)
	service := NewLedgerService(repo, seededRandom(1), discardLogger())

	existing := domain.AccountRecord{Identity: 9, PublicCode: "WINNR", City: domain.CityUnset}
	repo.EXPECT().Get(mockAnyContext(), domain.Identity(9)).Return(domain.AccountRecord{}, domain.ErrAccountNotFound).Once()
	repo.EXPECT().Create(mockAnyContext(), mock.AnythingOfType("domain.AccountRecord")).Return(domain.ErrAccountExists).Once()
	repo.EXPECT().Get(mockAnyContext(), domain.Identity(9)).Return(existing, nil).Once()

	record, err := service.GetOrCreate(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, existing, record)
}

func TestLedgerServiceGetOrCreateSurfacesPersistenceError(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockLedgerRepository(t)
	service := NewLedgerService(repo, seededRandom(1), discardLogger())

	ioErr := errors.New("disk full")
	repo.EXPECT().Get(mockAnyContext(), domain.Identity(3)).Return(domain.AccountRecord{}, domain.ErrAccountNotFound).Once()
	repo.EXPECT().Create(mockAnyContext(), mock.Anything).Return(errors.Join(domain.ErrPersistence, ioErr)).Once()

	_, err := service.GetOrCreate(context.Background(), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, ioErr)
}

func TestLedgerServiceSaveThenGetOrCreateRoundTrips(t *testing.T) {
	t.Parallel()

	service := NewLedgerService(newLedgerRepository(t), seededRandom(3), discardLogger())

	record := domain.AccountRecord{Identity: 11, PublicCode: "RT011", CreditBalance: 8, City: "Bari", FreeUsesConsumed: 1}
	require.NoError(t, service.Save(context.Background(), record))

	got, err := service.GetOrCreate(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestLedgerServiceSetCity(t *testing.T) {
	t.Parallel()

	service := NewLedgerService(newLedgerRepository(t), seededRandom(4), discardLogger())

	record, err := service.SetCity(context.Background(), 1, "  reggio EMILIA ")
	require.NoError(t, err)
	assert.Equal(t, "Reggio Emilia", record.City)

	_, err = service.SetCity(context.Background(), 1, "Xyzzyville")
	assert.ErrorIs(t, err, domain.ErrUnknownCity)

	stored, err := service.GetOrCreate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Reggio Emilia", stored.City)
}

func TestLedgerServiceFindByPublicCodeNormalizesInput(t *testing.T) {
	t.Parallel()

	service := NewLedgerService(newLedgerRepository(t), seededRandom(5), discardLogger())

	created, err := service.GetOrCreate(context.Background(), 21)
	require.NoError(t, err)

	found, err := service.FindByPublicCode(context.Background(), " "+string(created.PublicCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = service.FindByPublicCode(context.Background(), "zzzzz")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

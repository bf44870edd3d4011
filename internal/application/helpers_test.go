package application

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/repo/flatfile"
	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testPolicy = domain.QuotaPolicy{FreeLimit: 2, CostPerUse: 2}

func mockAnyContext() interface{} {
	return mock.Anything
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLedgerRepository(t *testing.T) *flatfile.Repository {
	t.Helper()

	config := viper.New()
	config.Set("ledger.path", filepath.Join(t.TempDir(), "users.txt"))

	repo, err := flatfile.NewRepository(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seededRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// sequenceRandom returns the queued values in order, then zero.
type sequenceRandom struct {
	values []int
}

func (s *sequenceRandom) IntN(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type staticCatalog []domain.Persona

func (c staticCatalog) List(context.Context) ([]domain.Persona, error) {
	return c, nil
}

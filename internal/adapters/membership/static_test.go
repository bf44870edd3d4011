package membership

import (
	"context"
	"testing"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticOracle(t *testing.T) {
	t.Parallel()

	oracle := NewStaticOracle([]domain.Identity{10, 20})

	status, err := oracle.MemberStatus(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "member", status)

	status, err = oracle.MemberStatus(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "left", status)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = oracle.MemberStatus(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

package account

import (
	"strings"
	"testing"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSingleAccount(t *testing.T) {
	t.Parallel()

	output, err := Render([]domain.AccountRecord{
		{Identity: 1001, PublicCode: "AB12C", CreditBalance: 7, City: "Roma", FreeUsesConsumed: 1},
	}, RenderOptions{FreeLimit: 2, CostPerUse: 2})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 1")
	assert.Contains(t, output, "AB12C")
	assert.NotContains(t, output, "1001")
	assert.Contains(t, output, "city: Roma")
	assert.Contains(t, output, "credits: 7")
	assert.Contains(t, output, "(3 paid messages)")
	assert.Contains(t, output, "1/2 left")
	assert.NotContains(t, output, "[exhausted]")
}

func TestRenderMarksExhaustedAccounts(t *testing.T) {
	t.Parallel()

	output, err := Render([]domain.AccountRecord{
		{Identity: 5, PublicCode: "ZZZZZ", CreditBalance: 1, City: domain.CityUnset, FreeUsesConsumed: 2},
	}, RenderOptions{FreeLimit: 2, CostPerUse: 2, ShowIdentity: true})

	require.NoError(t, err)
	assert.Contains(t, output, "ZZZZZ (5)")
	assert.Contains(t, output, "city: not selected")
	assert.Contains(t, output, "(0 paid messages)")
	assert.Contains(t, output, "0/2 left")
	assert.Contains(t, output, "[exhausted]")
}

func TestRenderWithoutAccounts(t *testing.T) {
	t.Parallel()

	output, err := Render(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 0")
	assert.Contains(t, output, "No accounts recorded.")
}

func TestRenderMultipleAccountsKeepsOrder(t *testing.T) {
	t.Parallel()

	output, err := Render([]domain.AccountRecord{
		domain.NewAccountRecord(1, "FIRST"),
		domain.NewAccountRecord(2, "SECND"),
	}, RenderOptions{FreeLimit: 2})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 2")
	assert.Less(t, strings.Index(output, "FIRST"), strings.Index(output, "SECND"))
	assert.NotContains(t, output, "paid")
}


package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCityAcceptsCaseAndWhitespaceVariants(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"roma", "ROMA", " Roma "} {
		city, err := NormalizeCity(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "Roma", city)
	}
}

func TestNormalizeCityTitleCasesMultiWordNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "reggio calabria", want: "Reggio Calabria"},
		{raw: "L'AQUILA", want: "L'Aquila"},
		{raw: "forlì", want: "Forlì"},
		{raw: "genzano di roma", want: "Genzano Di Roma"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeCity(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCityRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "unknown", raw: "Xyzzyville", want: ErrUnknownCity},
		{name: "empty", raw: "   ", want: ErrInvalidCity},
		{name: "too short", raw: "r", want: ErrInvalidCity},
		{name: "too long", raw: strings.Repeat("a", 51), want: ErrInvalidCity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeCity(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestQuotaPolicyDecideFreeThenCredits(t *testing.T) {
	t.Parallel()

	policy := QuotaPolicy{FreeLimit: 2, CostPerUse: 2}
	account := NewAccountRecord(1, "ABCDE")
	account.CreditBalance = 3

	var vias []QuotaVia
	for i := 0; i < 4; i++ {
		decision := policy.Decide(account)
		vias = append(vias, decision.Via)
		policy.Apply(&account, decision)
	}

	assert.Equal(t, []QuotaVia{QuotaViaFree, QuotaViaFree, QuotaViaCredits, QuotaViaDenied}, vias)
	assert.Equal(t, int64(2), account.FreeUsesConsumed)
	assert.Equal(t, int64(1), account.CreditBalance)
}

func TestQuotaPolicyApplyDeniedIsNoop(t *testing.T) {
	t.Parallel()

	policy := QuotaPolicy{FreeLimit: 0, CostPerUse: 2}
	account := NewAccountRecord(1, "ABCDE")
	account.CreditBalance = 1

	policy.Apply(&account, policy.Decide(account))

	assert.Equal(t, int64(1), account.CreditBalance)
	assert.Equal(t, int64(0), account.FreeUsesConsumed)
}

func TestAccountRecordValidate(t *testing.T) {
	t.Parallel()

	valid := NewAccountRecord(7, "Q7X2M")
	require.NoError(t, valid.Validate())
	assert.Equal(t, CityUnset, valid.City)
	assert.False(t, valid.HasCity())

	negative := valid
	negative.CreditBalance = -1
	assert.True(t, errors.Is(negative.Validate(), ErrValidation))

	badCode := valid
	badCode.PublicCode = "abc"
	assert.ErrorIs(t, badCode.Validate(), ErrValidation)

	pipe := valid
	pipe.City = "Roma|1"
	assert.ErrorIs(t, pipe.Validate(), ErrValidation)
}

func TestFreeUsesLeftNeverNegative(t *testing.T) {
	t.Parallel()

	account := AccountRecord{FreeUsesConsumed: 5}
	assert.Equal(t, int64(0), account.FreeUsesLeft(2))
	account.FreeUsesConsumed = 1
	assert.Equal(t, int64(1), account.FreeUsesLeft(2))
}

func TestNormalizePublicCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PublicCode("AB12C"), NormalizePublicCode(" ab12c "))
	assert.True(t, NormalizePublicCode("ab12c").Valid())
	assert.False(t, PublicCode("AB-2C").Valid())
}

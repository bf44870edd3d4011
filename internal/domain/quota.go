package domain

type QuotaVia string

const (
	QuotaViaFree    QuotaVia = "free"
	QuotaViaCredits QuotaVia = "credits"
	QuotaViaDenied  QuotaVia = "denied"
)

type QuotaDecision struct {
	Allowed bool
	Via     QuotaVia
}

// QuotaPolicy holds the fixed metering constants.
type QuotaPolicy struct {
	FreeLimit  int64
	CostPerUse int64
}

// Decide applies the free allotment first, then credits.
func (p QuotaPolicy) Decide(account AccountRecord) QuotaDecision {
	if account.FreeUsesConsumed < p.FreeLimit {
		return QuotaDecision{Allowed: true, Via: QuotaViaFree}
	}
	if account.CreditBalance >= p.CostPerUse {
		return QuotaDecision{Allowed: true, Via: QuotaViaCredits}
	}

	return QuotaDecision{Allowed: false, Via: QuotaViaDenied}
}

// Apply mutates account according to decision. Denied decisions are no-ops.
func (p QuotaPolicy) Apply(account *AccountRecord, decision QuotaDecision) {
	switch decision.Via {
	case QuotaViaFree:
		account.FreeUsesConsumed++
	case QuotaViaCredits:
		account.CreditBalance -= p.CostPerUse
	case QuotaViaDenied:
	}
}

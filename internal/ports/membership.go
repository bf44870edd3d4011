package ports

import (
	"context"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
)

// MembershipOracle reports the raw standing of identity in the required
// group, for example "member", "administrator", "creator" or "left".
type MembershipOracle interface {
	MemberStatus(ctx context.Context, identity domain.Identity) (string, error)
}

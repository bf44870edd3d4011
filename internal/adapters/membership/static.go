package membership

import (
	"context"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
)

const (
	statusMember = "member"
	statusLeft   = "left"
)

// StaticOracle answers membership from a fixed list, for local runs without
// a bot token.
type StaticOracle struct {
	members map[domain.Identity]struct{}
}

var _ ports.MembershipOracle = (*StaticOracle)(nil)

func NewStaticOracle(members []domain.Identity) *StaticOracle {
	set := make(map[domain.Identity]struct{}, len(members))
	for _, member := range members {
		set[member] = struct{}{}
	}

	return &StaticOracle{members: set}
}

func (o *StaticOracle) MemberStatus(ctx context.Context, identity domain.Identity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, ok := o.members[identity]; ok {
		return statusMember, nil
	}

	return statusLeft, nil
}

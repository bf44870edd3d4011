package ports

import (
	"context"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, identity domain.Identity, text string) error
}

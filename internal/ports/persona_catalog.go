package ports

import (
	"context"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
)

type PersonaCatalog interface {
	List(ctx context.Context) ([]domain.Persona, error)
}

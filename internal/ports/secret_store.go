package ports

import "context"

// SecretStore keeps bot credentials out of the config file. Get wraps
// domain.ErrSecretNotFound when key has no value.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

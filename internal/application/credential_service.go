package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
)

const (
	CredentialTelegramToken  = "telegram-token"
	CredentialGeneratorToken = "generator-token"
	CredentialAPIToken       = "api-token"
	CredentialWebhookSecret  = "webhook-secret"
)

var credentialKeys = map[string]string{
	CredentialTelegramToken:  "telegram/token",
	CredentialGeneratorToken: "generator/token",
	CredentialAPIToken:       "server/api-token",
	CredentialWebhookSecret:  "server/webhook-secret",
}

var ErrUnknownCredential = errors.New("unknown credential")

// CredentialNames lists the credentials the secret store can hold.
func CredentialNames() []string {
	names := make([]string, 0, len(credentialKeys))
	for name := range credentialKeys {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CredentialService keeps bot tokens in a secret store.
type CredentialService struct {
	store ports.SecretStore
}

func NewCredentialService(store ports.SecretStore) *CredentialService {
	return &CredentialService{store: store}
}

func (s *CredentialService) Set(ctx context.Context, name string, value string) error {
	key, err := credentialKey(name)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("credential %s is empty", name)
	}

	if err := s.store.Put(ctx, key, value); err != nil {
		return fmt.Errorf("store credential %s: %w", name, err)
	}
	return nil
}

func (s *CredentialService) Delete(ctx context.Context, name string) error {
	key, err := credentialKey(name)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete credential %s: %w", name, err)
	}
	return nil
}

// Resolve returns configured when it is set, otherwise the stored value.
// A credential missing from the store resolves to "".
func (s *CredentialService) Resolve(ctx context.Context, name string, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	key, err := credentialKey(name)
	if err != nil {
		return "", err
	}

	value, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read credential %s: %w", name, err)
	}
	return value, nil
}

func credentialKey(name string) (string, error) {
	key, ok := credentialKeys[name]
	if !ok {
		return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownCredential, name, strings.Join(CredentialNames(), ", "))
	}
	return key, nil
}

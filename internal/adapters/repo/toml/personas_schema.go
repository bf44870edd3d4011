package toml

import (
	"fmt"
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
)

const currentPersonasSchemaVersion = 1

type personasFileSchema struct {
	Version  int             `toml:"version"`
	Personas []personaSchema `toml:"personas"`
}

func (s *personasFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentPersonasSchemaVersion
	}
}

func (s personasFileSchema) validateVersion() error {
	if s.Version > currentPersonasSchemaVersion {
		return fmt.Errorf("unsupported personas schema version %d (current %d)", s.Version, currentPersonasSchemaVersion)
	}

	return nil
}

type personaSchema struct {
	Name      string `toml:"name"`
	AvatarURL string `toml:"avatar_url"`
}

// toDomain rejects names the reply extraction cannot handle.
func (s personaSchema) toDomain() (domain.Persona, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return domain.Persona{}, fmt.Errorf("%w: persona name is empty", domain.ErrValidation)
	}
	if strings.ContainsAny(name, ":\r\n") {
		return domain.Persona{}, fmt.Errorf("%w: persona name %q contains a reserved character", domain.ErrValidation, name)
	}

	return domain.Persona{Name: name, AvatarURL: strings.TrimSpace(s.AvatarURL)}, nil
}

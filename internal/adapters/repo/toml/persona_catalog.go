package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const personasPathKey = "personas.path"

var defaultPersonas = []domain.Persona{
	{Name: "Luna"},
	{Name: "Aurora"},
	{Name: "Giulia"},
	{Name: "Sofia"},
	{Name: "Chiara"},
	{Name: "Elena"},
}

// PersonaCatalog reads personas from a TOML file on every List call, or
// serves the built-in set when no path is configured.
type PersonaCatalog struct {
	personasPath string
}

var _ ports.PersonaCatalog = (*PersonaCatalog)(nil)

func NewPersonaCatalog(cfg *viper.Viper) (*PersonaCatalog, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(personasPathKey)
	if path == "" {
		return &PersonaCatalog{}, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve personas path: %w", err)
	}

	return &PersonaCatalog{personasPath: filepath.Clean(absPath)}, nil
}

func (c *PersonaCatalog) List(ctx context.Context) ([]domain.Persona, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.personasPath == "" {
		return append([]domain.Persona(nil), defaultPersonas...), nil
	}

	data, err := os.ReadFile(c.personasPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("personas file %s does not exist", c.personasPath)
		}
		return nil, fmt.Errorf("read personas file: %w", err)
	}

	var file personasFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode personas file: %w", err)
	}
	file.applyDefaults()
	if err := file.validateVersion(); err != nil {
		return nil, err
	}

	personas := make([]domain.Persona, 0, len(file.Personas))
	seen := make(map[string]struct{}, len(file.Personas))
	for i, raw := range file.Personas {
		persona, err := raw.toDomain()
		if err != nil {
			return nil, fmt.Errorf("persona %d: %w", i+1, err)
		}
		if _, dup := seen[persona.Name]; dup {
			return nil, fmt.Errorf("persona %d: %w: duplicate name %q", i+1, domain.ErrValidation, persona.Name)
		}
		seen[persona.Name] = struct{}{}
		personas = append(personas, persona)
	}

	return personas, nil
}

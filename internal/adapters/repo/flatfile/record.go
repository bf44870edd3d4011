package flatfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
)

const (
	fieldSeparator = "|"
	minFields      = 3

	// legacyCityUnset is the sentinel older ledger files carry for "no city".
	legacyCityUnset = "non selezionata"
)

// formatRecord renders identity|publicCode|creditBalance|city|freeUsesConsumed.
func formatRecord(record domain.AccountRecord) string {
	city := record.City
	if city == "" {
		city = domain.CityUnset
	}

	return strings.Join([]string{
		strconv.FormatInt(int64(record.Identity), 10),
		string(record.PublicCode),
		strconv.FormatInt(record.CreditBalance, 10),
		city,
		strconv.FormatInt(record.FreeUsesConsumed, 10),
	}, fieldSeparator)
}

// parseRecord accepts the full five-field layout and the older three-field
// layout, which defaults city and free uses.
func parseRecord(line string) (domain.AccountRecord, error) {
	parts := strings.Split(line, fieldSeparator)
	if len(parts) < minFields {
		return domain.AccountRecord{}, fmt.Errorf("expected at least %d fields, got %d", minFields, len(parts))
	}

	identity, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return domain.AccountRecord{}, fmt.Errorf("parse identity: %w", err)
	}

	credits, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return domain.AccountRecord{}, fmt.Errorf("parse credit balance: %w", err)
	}

	record := domain.AccountRecord{
		Identity:      domain.Identity(identity),
		PublicCode:    domain.PublicCode(strings.TrimSpace(parts[1])),
		CreditBalance: credits,
		City:          domain.CityUnset,
	}

	if len(parts) > 3 {
		record.City = parseCity(parts[3])
	}

	if len(parts) > 4 {
		freeUses, err := strconv.ParseInt(strings.TrimSpace(parts[4]), 10, 64)
		if err != nil {
			return domain.AccountRecord{}, fmt.Errorf("parse free uses: %w", err)
		}
		record.FreeUsesConsumed = freeUses
	}

	if err := record.Validate(); err != nil {
		return domain.AccountRecord{}, err
	}

	return record, nil
}

func parseCity(raw string) string {
	city := strings.TrimSpace(raw)
	if city == "" || city == legacyCityUnset {
		return domain.CityUnset
	}
	return city
}

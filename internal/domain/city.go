package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minCityLength = 2
	maxCityLength = 50
)

// gazetteer holds the recognized city names, lower-cased.
var gazetteer = newGazetteer(
	"roma", "milano", "napoli", "torino", "palermo", "genova", "bologna", "firenze", "bari", "catania",
	"venezia", "verona", "messina", "padova", "trieste", "taranto", "brescia", "parma", "prato", "modena",
	"reggio calabria", "reggio emilia", "perugia", "livorno", "ravenna", "cagliari", "foggia", "rimini",
	"salerno", "ferrara", "sassari", "latina", "giugliano in campania", "monza", "siracusa", "pescara",
	"bergamo", "forlì", "trento", "vicenza", "terni", "bolzano", "novara", "piacenza", "ancona", "andria",
	"arezzo", "udine", "cesena", "lecce", "pesaro", "barletta", "alessandria", "como", "pistoia", "pavia",
	"treviso", "catanzaro", "caserta", "brindisi", "grosseto", "asti", "varese", "cremona", "cosenza",
	"vigevano", "trapani", "crotone", "potenza", "viterbo", "vercelli", "cuneo", "caltanissetta", "agrigento",
	"matera", "enna", "ragusa", "l'aquila", "chieti", "teramo", "campobasso", "isernia",
	"benevento", "avellino", "frosinone", "rieti", "tivoli", "guidonia montecelio",
	"fiumicino", "pomezia", "aprilia", "velletri", "civitavecchia", "anzio", "nettuno", "marino", "frascati",
	"genzano di roma", "albano laziale", "monterotondo", "mentana", "fonte nuova", "riano", "fiano romano",
	"aosta", "pordenone", "gorizia", "imperia", "savona", "la spezia", "massa", "carrara", "lucca", "siena",
	"vibo valentia", "nuoro", "oristano", "carbonia", "iglesias", "olbia", "tempio pausania",
)

func newGazetteer(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// NormalizeCity validates raw user input against the gazetteer and returns
// the title-cased value to store.
func NormalizeCity(raw string) (string, error) {
	city := strings.TrimSpace(raw)
	if city == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidCity)
	}

	length := utf8.RuneCountInString(city)
	if length < minCityLength || length > maxCityLength {
		return "", fmt.Errorf("%w: length %d", ErrInvalidCity, length)
	}

	if _, ok := gazetteer[strings.ToLower(city)]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCity, city)
	}

	return titleCase(city), nil
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "l'aquila" becomes "L'Aquila".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}

	return b.String()
}

// Package locale maps human-entered place names to the URL segments 2GIS
// uses, and knows which cities each supported country has.
package locale

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// citySlugs are the known city → URL segment mappings. Anything not listed
// here goes through transliteration instead.
var citySlugs = map[string]string{
	"москва":           "moscow",
	"санкт-петербург":  "spb",
	"спб":              "spb",
	"екатеринбург":     "ekb",
	"новосибирск":      "novosibirsk",
	"казань":           "kazan",
	"нижний новгород":  "nizhniy_novgorod",
	"челябинск":        "chelyabinsk",
	"самара":           "samara",
	"омск":             "omsk",
	"ростов-на-дону":   "rostov_na_donu",
	"уфа":              "ufa",
	"красноярск":       "krasnoyarsk",
	"воронеж":          "voronezh",
	"пермь":            "perm",
	"волгоград":        "volgograd",
	"краснодар":        "krasnodar",
	"алматы":           "almaty",
	"астана":           "astana",
	"нур-султан":       "astana",
	"шымкент":          "shymkent",
	"ташкент":          "tashkent",
	"самарканд":        "samarkand",
	"усть-каменогорск": "ust_kamenogorsk",
	"петропавловск":    "petropavl",
	"кокшетау":         "kokchetav",
	"талдыкорган":      "taldykorgan",
	"атырау":           "atyrau",
}

var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// foldDiacritics strips combining marks so accented Latin input still
// produces an ASCII segment (e.g. "Almatý" → "almaty").
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CitySlug converts a place name to the URL segment 2GIS expects. Known
// cities use the fixed table; everything else is transliterated character
// by character. There is no failure path: any input yields some segment,
// and an unknown place simply produces an empty result set remotely.
func CitySlug(city string) string {
	lower := strings.ToLower(strings.TrimSpace(city))
	if slug, ok := citySlugs[lower]; ok {
		return slug
	}
	if folded, _, err := transform.String(foldDiacritics, lower); err == nil {
		lower = folded
	}

	var b strings.Builder
	for _, r := range lower {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
		case unicode.IsLetter(r):
			if lat, ok := translit[r]; ok {
				b.WriteString(lat)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// citiesByCountry feeds the whole-country search loop and the web UI
// dropdown.
var citiesByCountry = map[string][]string{
	"Россия": {
		"Москва", "Санкт-Петербург", "Екатеринбург", "Новосибирск", "Казань",
		"Нижний Новгород", "Челябинск", "Самара", "Омск", "Ростов-на-Дону",
		"Уфа", "Красноярск", "Воронеж", "Пермь", "Волгоград", "Краснодар",
	},
	"Казахстан": {
		"Алматы", "Астана", "Шымкент", "Усть-Каменогорск", "Петропавловск",
		"Кокшетау", "Талдыкорган", "Атырау",
	},
	"Узбекистан": {
		"Ташкент", "Самарканд",
	},
}

// Cities returns the known cities for a country, or nil for an
// unrecognized country.
func Cities(country string) []string {
	return citiesByCountry[strings.TrimSpace(country)]
}

// Countries lists the supported countries in a stable order.
func Countries() []string {
	return []string{"Россия", "Казахстан", "Узбекистан"}
}

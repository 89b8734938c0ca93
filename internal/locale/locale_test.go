package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCitySlugKnownCities(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Москва", "moscow"},
		{"Санкт-Петербург", "spb"},
		{"СПб", "spb"},
		{"  Екатеринбург  ", "ekb"},
		{"Нижний Новгород", "nizhniy_novgorod"},
		{"Ростов-на-Дону", "rostov_na_donu"},
		{"Нур-Султан", "astana"},
		{"Усть-Каменогорск", "ust_kamenogorsk"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CitySlug(tt.in), "input %q", tt.in)
	}
}

func TestCitySlugTransliteration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Тверь", "tver"},
		{"Йошкар-Ола", "yoshkar_ola"},
		{"Набережные Челны", "naberezhnye_chelny"},
		{"Щёлково", "schyolkovo"},
		{"Ухта", "uhta"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CitySlug(tt.in), "input %q", tt.in)
	}
}

func TestCitySlugLatinPassthrough(t *testing.T) {
	assert.Equal(t, "dubai", CitySlug("Dubai"))
	assert.Equal(t, "almaty", CitySlug("Almatý"))
}

func TestCitiesByCountry(t *testing.T) {
	ru := Cities("Россия")
	require.NotEmpty(t, ru)
	assert.Contains(t, ru, "Москва")
	assert.Contains(t, ru, "Санкт-Петербург")

	kz := Cities("Казахстан")
	assert.Contains(t, kz, "Алматы")

	assert.Nil(t, Cities("Атлантида"))
}

func TestCountriesStable(t *testing.T) {
	assert.Equal(t, []string{"Россия", "Казахстан", "Узбекистан"}, Countries())
}

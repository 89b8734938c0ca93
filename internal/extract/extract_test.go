package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchPage mimics the shape of a rendered 2GIS results page: nested card
// wrappers, tel: links, rating and vote nodes, a branches link, a duplicate
// firm link and a pagination link.
const searchPage = `<!DOCTYPE html>
<html><body><div class="results">
  <div class="cardWrap">
    <div class="card">
      <a href="/moscow/firm/70000001018404536?m=37.62%2C55.75">Кофейня Бодрость</a>
      <div class="contact">
        <a href="tel:+7 (495) 123-45-67">Телефон</a>
        <a href="tel:74951234567">Ещё телефон</a>
      </div>
      <span>4.8</span>
      <span>123 оценок</span>
      <span class="address">ул. Тверская, 1</span>
      <div class="description">Уютная кофейня с завтраками, свежей выпечкой, хорошим зерновым кофе и десертами собственного производства для всей семьи</div>
    </div>
  </div>
  <div class="cardWrap">
    <div class="card">
      <a href="/moscow/firm/70000001018404999">Пекарня Хлебница</a>
      <span>4,5 из 5</span>
      <span>57 оценок</span>
      <span>проспект Мира, 10</span>
      <span>Свежий хлеб на закваске каждое утро, ароматные булочки с корицей, пироги на заказ и собственное производство теста полного цикла без добавок и консервантов</span>
    </div>
  </div>
  <a href="/moscow/firm/70000001018404536/branches/">Филиалы</a>
  <a href="/moscow/firm/70000001018404536?from=bottom">Ещё ссылка</a>
  <a href="/moscow/firm/70000001018405000">Х</a>
  <a href="/moscow/search/кафе/page/2">2</a>
</div></body></html>`

func TestCompaniesSegmentsCards(t *testing.T) {
	page, err := ParsePage(searchPage)
	require.NoError(t, err)

	companies := page.Companies("https://2gis.ru")
	require.Len(t, companies, 2)

	first := companies[0]
	assert.Equal(t, "Кофейня Бодрость", first.Name)
	assert.Equal(t, "https://2gis.ru/moscow/firm/70000001018404536?m=37.62%2C55.75", first.URL)

	second := companies[1]
	assert.Equal(t, "Пекарня Хлебница", second.Name)
	assert.Equal(t, "https://2gis.ru/moscow/firm/70000001018404999", second.URL)
}

func TestCompaniesFieldExtraction(t *testing.T) {
	page, err := ParsePage(searchPage)
	require.NoError(t, err)

	companies := page.Companies("https://2gis.ru")
	require.Len(t, companies, 2)

	first := companies[0]
	require.NotNil(t, first.Rating)
	assert.InDelta(t, 4.8, *first.Rating, 0.001)
	require.NotNil(t, first.VotersCount)
	assert.Equal(t, 123, *first.VotersCount)
	assert.Equal(t, "ул. Тверская, 1", first.Address)
	assert.Contains(t, first.Info, "Уютная кофейня")

	// tel: links with the same trailing ten digits fold into one number.
	assert.Equal(t, "+7 (495) 123-45-67", first.Phone)

	// Second card has no isolated rating node and no semantic address
	// markup, so the flat-text and keyword-scan fallbacks kick in.
	second := companies[1]
	require.NotNil(t, second.Rating)
	assert.InDelta(t, 4.5, *second.Rating, 0.001)
	require.NotNil(t, second.VotersCount)
	assert.Equal(t, 57, *second.VotersCount)
	assert.Equal(t, "проспект Мира, 10", second.Address)
	assert.Contains(t, second.Info, "Свежий хлеб")
	assert.Empty(t, second.Phone)
}

func TestCompaniesSkipsBranchesAndShortNames(t *testing.T) {
	page, err := ParsePage(searchPage)
	require.NoError(t, err)

	companies := page.Companies("https://2gis.ru")
	for _, c := range companies {
		assert.NotContains(t, c.URL, "/branches/")
		assert.NotEqual(t, "Х", c.Name)
	}
}

func TestHasPageLink(t *testing.T) {
	page, err := ParsePage(searchPage)
	require.NoError(t, err)

	assert.True(t, page.HasPageLink(2))
	assert.False(t, page.HasPageLink(3))
}

func TestCompaniesEmptyPage(t *testing.T) {
	page, err := ParsePage(`<html><body><p>Ничего не найдено</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, page.Companies("https://2gis.ru"))
}

func TestPhonesFromFirmPageTelLinks(t *testing.T) {
	html := `<html><body>
	  <a href="tel:+7 (812) 700-00-11">Позвонить</a>
	  <a href="tel:78127000011">Позвонить</a>
	  <a href="tel:+7 (812) 700-00-22">Второй</a>
	</body></html>`

	assert.Equal(t, "+7 (812) 700-00-11; +7 (812) 700-00-22", PhonesFromFirmPage(html))
}

func TestPhonesFromFirmPageRawFallback(t *testing.T) {
	html := `<html><body><script>var contact = "tel:+7 495 111-22-33";</script></body></html>`

	assert.Equal(t, "+74951112233", PhonesFromFirmPage(html))
}

func TestPhonesFromFirmPageRejectsShortNumbers(t *testing.T) {
	html := `<html><body><a href="tel:112">Экстренная служба</a></body></html>`

	assert.Empty(t, PhonesFromFirmPage(html))
}

package gazette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djetools/extractor/domain"
)

func TestLocateSortedByOffset(t *testing.T) {
	l := NewLocator([]string{"RPV", "pagamento de requisitório de pequeno valor"})
	v := pageWith(`Defiro o pagamento de requisitório de pequeno valor. Expeça-se RPV. Nova RPV adiante.`)

	occs := l.Locate(v)
	require.Len(t, occs, 3)
	for i := 1; i < len(occs); i++ {
		assert.Greater(t, occs[i].Offset, occs[i-1].Offset)
	}
	assert.Equal(t, "pagamento de requisitorio de pequeno valor", occs[0].MatchedPhrase)
	assert.Equal(t, "rpv", occs[1].MatchedPhrase)
}

func TestLocateAccentAndCaseInsensitive(t *testing.T) {
	l := NewLocator([]string{"requisitório de pequeno valor"})

	// OCR frequently drops the accents.
	v := pageWith(`Trata-se de REQUISITORIO DE PEQUENO VALOR em favor do autor.`)
	occs := l.Locate(v)
	require.Len(t, occs, 1)
	assert.Equal(t, "requisitorio de pequeno valor", occs[0].MatchedPhrase)
}

func TestLocateNoMatchesYieldsEmpty(t *testing.T) {
	l := NewLocator([]string{"RPV"})
	v := pageWith(`despacho ordinário sem interesse`)
	assert.Empty(t, l.Locate(v))
}

func TestLocateCarriesPageIdentity(t *testing.T) {
	l := NewLocator([]string{"RPV"})
	v := newPageView(domain.RawPage{PageID: "page-7", Ordinal: 7, Text: `Expeça-se RPV.`})

	occs := l.Locate(v)
	require.Len(t, occs, 1)
	assert.Equal(t, "page-7", occs[0].PageID)
	assert.Equal(t, 7, occs[0].Ordinal)
}

func TestUpdatePhrasesRebuildsMatcher(t *testing.T) {
	l := NewLocator([]string{"RPV"})
	v := pageWith(`precatório pendente de pagamento`)
	assert.Empty(t, l.Locate(v))

	l.UpdatePhrases([]string{"precatório"})
	occs := l.Locate(v)
	require.Len(t, occs, 1)
	assert.Equal(t, "precatorio", occs[0].MatchedPhrase)
}

func TestUpdatePhrasesEmptySetDisables(t *testing.T) {
	l := NewLocator(nil)
	assert.Empty(t, l.Locate(pageWith(`RPV`)))
}

package gazette

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djetools/extractor/domain"
)

func view(id string, ordinal int, text string) *pageView {
	return newPageView(domain.RawPage{PageID: id, Ordinal: ordinal, Text: text})
}

func TestMergeTailFromLastMarkerHeadToFirstMarker(t *testing.T) {
	prev := view("p1", 1,
		`Processo 1111111-11.2024.8.26.0100 - PRIMEIRO - Vistos. Encerrado. `+
			`Processo 2222222-22.2024.8.26.0100 - SEGUNDO - Vistos. Defiro a`)
	cur := view("p2", 2,
		`RPV no valor requerido. Processo 3333333-33.2024.8.26.0100 - TERCEIRO - Vistos.`)

	merged, segment := mergePages(prev, cur)

	assert.True(t, segment.Merged)
	assert.Equal(t, []string{"p1", "p2"}, segment.SourcePages)

	// Tail starts at the previous page's last marker.
	assert.True(t, strings.HasPrefix(merged.page.Text, "Processo 2222222-22.2024.8.26.0100"))
	// Head stops at the current page's first marker.
	assert.NotContains(t, merged.page.Text, "TERCEIRO")
	assert.Contains(t, merged.page.Text, "Defiro a RPV no valor requerido.")

	// The stitched record resolves against the spanning marker.
	k := strings.Index(merged.fold.Text(), "rpv")
	require.GreaterOrEqual(t, k, 0)
	b, ok := resolveBoundary(merged, k)
	require.True(t, ok)
	assert.Equal(t, "2222222-22.2024.8.26.0100", b.ProcessNumber)
}

func TestMergePrevWithoutMarkerUsesWholePage(t *testing.T) {
	prev := view("p1", 1, `continuação de um despacho iniciado antes, sem marcador`)
	cur := view("p2", 2, `RPV deferida. Processo 3333333-33.2024.8.26.0100 - TERCEIRO - Vistos.`)

	merged, _ := mergePages(prev, cur)
	assert.True(t, strings.HasPrefix(merged.page.Text, "continuação"))

	// Still no marker precedes the trigger: the merged view cannot resolve.
	k := strings.Index(merged.fold.Text(), "rpv")
	_, ok := resolveBoundary(merged, k)
	assert.False(t, ok)
}

func TestMergeCurWithoutMarkerUsesWholePage(t *testing.T) {
	prev := view("p1", 1, `Processo 2222222-22.2024.8.26.0100 - SEGUNDO - Vistos. Defiro`)
	cur := view("p2", 2, `o pagamento da RPV integral sem novos processos nesta página`)

	merged, _ := mergePages(prev, cur)
	assert.True(t, strings.HasSuffix(merged.page.Text, "nesta página"))
}

func TestMergeValidationDetectsMissingTrigger(t *testing.T) {
	// A predecessor that does not belong to the same publication: the
	// stitched text lacks the trigger phrase and must be rejected by the
	// caller.
	prev := view("p1", 1, `Processo 2222222-22.2024.8.26.0100 - SEGUNDO - Vistos. Indefiro.`)
	cur := view("p2", 2, `texto administrativo sem interesse`)

	merged, _ := mergePages(prev, cur)

	locator := NewLocator([]string{"RPV"})
	assert.False(t, locator.contains(merged.fold.Text(), "rpv"))
}

package textnorm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djetools/extractor/textnorm"
)

func TestClean(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "collapses whitespace runs",
			input:    "Processo   1234567-89.2024.8.26.0100\n\n-  JOÃO",
			expected: "Processo 1234567-89.2024.8.26.0100 - JOÃO",
		},
		{
			name:     "drops control characters",
			input:    "valor\x00 integral\x0b devido",
			expected: "valor integral devido",
		},
		{
			name:     "preserves accents and case",
			input:    "HONORÁRIOS  advocatícios",
			expected: "HONORÁRIOS advocatícios",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, textnorm.Clean(tc.input))
		})
	}
}

func TestFold(t *testing.T) {
	f := textnorm.Fold("Requisitório de Pequeno Valor")
	assert.Equal(t, "requisitorio de pequeno valor", f.Text())
}

func TestFoldOffsetsMapBackToSource(t *testing.T) {
	src := "Processo 1234567-89.2024.8.26.0100 - JOÃO SILVA - Vistos"
	f := textnorm.Fold(src)

	idx := strings.Index(f.Text(), "joao silva")
	require.GreaterOrEqual(t, idx, 0)

	span := f.SourceSpan(idx, idx+len("joao silva"))
	assert.Equal(t, "JOÃO SILVA", span)
}

func TestFoldOffsetsWithMultibyteRunes(t *testing.T) {
	// Every ã/õ shrinks by a byte when folded; offsets must still land on
	// rune starts in the source.
	src := "ação não órfão RPV aqui"
	f := textnorm.Fold(src)

	idx := strings.Index(f.Text(), "rpv")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "RPV", f.SourceSpan(idx, idx+len("rpv")))
}

func TestFoldSourceOffsetBounds(t *testing.T) {
	f := textnorm.Fold("abc")
	assert.Equal(t, 0, f.SourceOffset(-1))
	assert.Equal(t, 3, f.SourceOffset(99))
}

func TestRemoveAccents(t *testing.T) {
	assert.Equal(t, "MUNICIPIO DE SAO PAULO", textnorm.RemoveAccents("MUNICÍPIO DE SÃO PAULO"))
}

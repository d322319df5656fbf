package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		header string
		want   string
	}{
		{"query wins", "en", "id-ID,id;q=0.9", English},
		{"header english", "", "en-US,en;q=0.9", English},
		{"header indonesian", "", "id-ID", Indonesian},
		{"unknown query falls through", "fr", "en-GB", English},
		{"no preference", "", "", Indonesian},
		{"garbage header", "", ";;;", Indonesian},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.query, tt.header, Indonesian))
		})
	}
}

func TestLookupFallsBack(t *testing.T) {
	assert.Equal(t, Indonesian, Lookup("xx").Locale)
	assert.Equal(t, "Benign", Lookup(English).DiagnosisName(0))
	assert.Equal(t, "Ganas", Lookup(Indonesian).DiagnosisName(1))
}

func TestFieldLabel(t *testing.T) {
	assert.Equal(t, "Titik Cekung (rata-rata)", Lookup(Indonesian).FieldLabel("concave points", "mean"))
	assert.Equal(t, "Fractal Dimension (worst)", Lookup(English).FieldLabel("fractal_dimension", "worst"))
	assert.Equal(t, "odd (se)", Lookup(English).FieldLabel("odd", "se"))
}

func TestFormatProbability(t *testing.T) {
	assert.Equal(t, "0.1235", Lookup(English).FormatProbability(0.12345))
	assert.NotEmpty(t, Lookup(Indonesian).FormatProbability(0.5))
}

package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webnova-cotizador/models"
)

func TestParseSuggestionsTwoBlocks(t *testing.T) {
	text := `Te recomiendo agregar lo siguiente:

[MODULO_SUGERIDO]
nombre: "Chat en vivo"
precio: "RD$ 12,500"
descripcion: "Atención en tiempo real"
categoria: "Integration"
horas: "24"
[/MODULO_SUGERIDO]

También considera:
[MODULO_SUGERIDO] nombre: "Blog" precio: "3500" descripción: "Artículos y SEO" [/MODULO_SUGERIDO]`

	got := ParseSuggestions(text)

	require.Len(t, got, 2)
	assert.Equal(t, models.ModuleSuggestion{
		Name:           "Chat en vivo",
		Price:          12500,
		Description:    "Atención en tiempo real",
		Category:       "Integration",
		EstimatedHours: 24,
	}, got[0])
	assert.Equal(t, "Blog", got[1].Name)
	assert.Equal(t, int64(3500), got[1].Price)
	assert.Equal(t, "Artículos y SEO", got[1].Description)
}

func TestParseSuggestionsSkipsBlockWithoutPrice(t *testing.T) {
	text := `[MODULO_SUGERIDO]
nombre: "Chat en vivo"
descripcion: "Sin precio"
[/MODULO_SUGERIDO]
[MODULO_SUGERIDO]
nombre: "Blog"
precio: "a convenir"
[/MODULO_SUGERIDO]`

	assert.Empty(t, ParseSuggestions(text))
}

func TestParseSuggestionsSkipsBlockWithoutName(t *testing.T) {
	text := `[MODULO_SUGERIDO] precio: "5000" [/MODULO_SUGERIDO]`
	assert.Empty(t, ParseSuggestions(text))
}

func TestParseSuggestionsUnquotedValuesAndKeyCase(t *testing.T) {
	text := `[MODULO_SUGERIDO]
- **Nombre**: App Móvil
- **Precio**: RD$ 45,000.60
- Categoría: Frontend
- Horas: 80 horas
[/MODULO_SUGERIDO]`

	got := ParseSuggestions(text)

	require.Len(t, got, 1)
	assert.Equal(t, "App Móvil", got[0].Name)
	assert.Equal(t, int64(45001), got[0].Price)
	assert.Equal(t, "Frontend", got[0].Category)
	assert.Equal(t, float64(80), got[0].EstimatedHours)
}

func TestParseSuggestionsIgnoresUnterminatedBlock(t *testing.T) {
	text := `[MODULO_SUGERIDO] nombre: "Blog" precio: "3500"`
	assert.Empty(t, ParseSuggestions(text))
}

func TestParseSuggestionsLegacyButton(t *testing.T) {
	text := `<div class="module-suggestion bg-green-50">
  <h4>MÓDULO SUGERIDO</h4>
  <button class="add-module-btn bg-green-600" data-name="Chat en vivo" data-price="7500" data-description="Soporte en línea">Agregar Módulo</button>
</div>`

	got := ParseSuggestions(text)

	require.Len(t, got, 1)
	assert.Equal(t, models.ModuleSuggestion{Name: "Chat en vivo", Price: 7500, Description: "Soporte en línea"}, got[0])
}

func TestParseSuggestionsLegacyDiv(t *testing.T) {
	text := `<div class="module-suggestion" data-name="Pasarela de Pago" data-price="300" data-category="Backend">
<strong>Pasarela de Pago</strong> - $300 USD
<br>Prioridad: Alta
</div>`

	got := ParseSuggestions(text)

	require.Len(t, got, 1)
	assert.Equal(t, "Pasarela de Pago", got[0].Name)
	assert.Equal(t, int64(300), got[0].Price)
	assert.Equal(t, "Backend", got[0].Category)
	assert.Contains(t, got[0].Description, "Prioridad: Alta")
}

func TestParseSuggestionsKeepsEveryBlock(t *testing.T) {
	text := `[MODULO_SUGERIDO] nombre: "Blog" precio: "5000" descripcion: "Artículos y categorías" [/MODULO_SUGERIDO]
[MODULO_SUGERIDO] nombre: "blog" precio: "5,000" descripcion: "Blog con comentarios" categoria: "Frontend" [/MODULO_SUGERIDO]`

	got := ParseSuggestions(text)

	require.Len(t, got, 2)
	assert.Equal(t, "Artículos y categorías", got[0].Description)
	assert.Equal(t, "Blog con comentarios", got[1].Description)
	assert.Equal(t, "Frontend", got[1].Category)
}

func TestParseSuggestionsSkipsLegacyMarkupRepeatingABlock(t *testing.T) {
	text := `[MODULO_SUGERIDO] nombre: "Blog" precio: "3500" [/MODULO_SUGERIDO]
<button class="add-module-btn" data-name="Blog" data-price="3500">+</button>
<button class="add-module-btn" data-name="Chat en vivo" data-price="6500">+</button>`

	got := ParseSuggestions(text)

	require.Len(t, got, 2)
	assert.Equal(t, "Blog", got[0].Name)
	assert.Equal(t, "Chat en vivo", got[1].Name)
}

func TestParseSuggestionsGarbage(t *testing.T) {
	inputs := []string{
		"",
		"sin bloques",
		"[/MODULO_SUGERIDO][MODULO_SUGERIDO]",
		`<div class="module-suggestion"><button class="add-module-btn">`,
		"[MODULO_SUGERIDO]\x00\xff[/MODULO_SUGERIDO]",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			assert.Empty(t, ParseSuggestions(in))
		})
	}
}

func TestStripSuggestionBlocks(t *testing.T) {
	text := "Hola\n[MODULO_SUGERIDO] nombre: \"Blog\" precio: \"1\" [/MODULO_SUGERIDO]\nAdiós"
	assert.Equal(t, "Hola\n\nAdiós", StripSuggestionBlocks(text))
}

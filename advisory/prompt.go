// Package advisory builds completion prompts from the working quotation and
// turns completion output back into safe HTML and module suggestions.
package advisory

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"webnova-cotizador/models"
	"webnova-cotizador/utils"
)

// Kind selects the task template of an advisory query
type Kind string

const (
	KindAnalyze        Kind = "analyze"
	KindSuggestModules Kind = "suggest_modules"
	KindOptimize       Kind = "optimize"
	KindTimeline       Kind = "timeline"
	KindCompare        Kind = "compare"
	KindPriceResearch  Kind = "price_research"
	KindGeneral        Kind = "general"
)

// ParseKind maps a request value to a Kind; unknown or empty values are freeform
func ParseKind(s string) Kind {
	switch k := Kind(strings.TrimSpace(strings.ToLower(s))); k {
	case KindAnalyze, KindSuggestModules, KindOptimize, KindTimeline, KindCompare, KindPriceResearch:
		return k
	default:
		return KindGeneral
	}
}

// Message is one chat message sent to the completion backend
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProjectContext is the read-only view of the quotation given to the model
type ProjectContext struct {
	ClientName      string
	ProjectType     string
	SelectedModules []models.Module
	Catalog         []models.Module
	Total           int64
	Budget          float64 // USD, zero when unknown
	ExchangeRate    float64
}

var taskInstructions = map[Kind]string{
	KindAnalyze: `TAREA: Realiza un análisis completo del proyecto (FODA).
Evalúa viabilidad técnica y comercial y señala advertencias.`,
	KindSuggestModules: `TAREA: Sugiere los módulos que le faltan al proyecto.
Explica por qué cada uno es necesario y su prioridad (Alta/Media/Baja).`,
	KindOptimize: `TAREA: Optimiza la cotización actual.
Indica cómo reducir costos sin sacrificar calidad y qué módulos pueden combinarse o eliminarse.`,
	KindTimeline: `TAREA: Genera un cronograma del proyecto considerando dependencias entre módulos,
hitos y entregables.`,
	KindCompare: `TAREA: Compara opciones y alternativas con pros y contras de cada una.`,
	KindPriceResearch: `TAREA: Investiga precios del mercado dominicano para estos servicios
y compáralos con referencias internacionales.`,
}

var systemTemplate = template.Must(template.New("system").Funcs(template.FuncMap{
	"money": utils.FormatDOP,
}).Parse(`Eres un sistema experto de cotizaciones para desarrollo web en República Dominicana.
Responde en español profesional. Proporciona precios en RD$ y USD.

TASA DE CAMBIO ACTUAL: 1 USD = RD${{printf "%.2f" .ExchangeRate}}

CATÁLOGO DE MÓDULOS DISPONIBLES:
{{- range .Catalog}}
- {{.Name}}{{if .Category}} ({{.Category}}){{end}}: {{money .Price}} - {{.Description}}
{{- end}}
{{if .Task}}
{{.Task}}
{{end}}
Si sugieres un módulo nuevo, usa EXACTAMENTE este formato, un bloque por módulo:
[MODULO_SUGERIDO]
nombre: "Nombre del módulo"
precio: "12000"
descripcion: "Descripción breve"
categoria: "Frontend|Backend|Design|Integration|Infrastructure|Marketing"
horas: "20"
[/MODULO_SUGERIDO]`))

var userTemplate = template.Must(template.New("user").Funcs(template.FuncMap{
	"money": utils.FormatDOP,
}).Parse(`CONTEXTO DEL PROYECTO:
- Cliente: {{or .ClientName "No especificado"}}
- Tipo de proyecto: {{or .ProjectType "No especificado"}}
- Presupuesto: {{if gt .Budget 0.0}}${{printf "%.2f" .Budget}} USD{{else}}No especificado{{end}}
- Módulos seleccionados: {{if .SelectedModules}}{{range $i, $m := .SelectedModules}}{{if $i}}, {{end}}{{$m.Name}}{{end}}{{else}}Ninguno{{end}}
- Total actual: {{money .Total}}

CONSULTA: {{.Prompt}}`))

// BuildMessages assembles the system and user messages for a query
func BuildMessages(kind Kind, prompt string, pc ProjectContext) ([]Message, error) {
	var system bytes.Buffer
	err := systemTemplate.Execute(&system, struct {
		ProjectContext
		Task string
	}{pc, taskInstructions[kind]})
	if err != nil {
		return nil, fmt.Errorf("failed to render system prompt: %w", err)
	}

	var user bytes.Buffer
	err = userTemplate.Execute(&user, struct {
		ProjectContext
		Prompt string
	}{pc, strings.TrimSpace(prompt)})
	if err != nil {
		return nil, fmt.Errorf("failed to render user prompt: %w", err)
	}

	return []Message{
		{Role: "system", Content: system.String()},
		{Role: "user", Content: user.String()},
	}, nil
}

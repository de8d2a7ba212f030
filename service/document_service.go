package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"webnova-cotizador/models"
	"webnova-cotizador/quotation"
	"webnova-cotizador/utils"
)

//go:embed templates/quotation.html
var templatesFS embed.FS

var quotationTemplate = template.Must(template.ParseFS(templatesFS, "templates/quotation.html"))

// DefaultTerms are printed when a document carries no terms of its own
var DefaultTerms = []string{
	"El proyecto incluye 2 rondas de revisiones sin costo adicional",
	"Cambios mayores fuera del alcance original se cotizarán por separado",
	"El cliente debe proporcionar contenido y materiales dentro de 5 días hábiles",
	"Garantía de 3 meses en funcionalidades desarrolladas",
	"Soporte técnico gratuito por 30 días post-entrega",
}

// DefaultNotes closes a document without notes
const DefaultNotes = "Gracias por la oportunidad de cotizar para su proyecto. ¡Esperamos trabajar con ustedes!"

// Document formats served by ExportQuotation
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// A4 in inches
const (
	a4Width  = 8.27
	a4Height = 11.69
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

type palette struct {
	Background, Text, Secondary, Border, Muted, Accent template.CSS
}

var palettes = map[models.Theme]palette{
	models.ThemeLight: {Background: "#ffffff", Text: "#1f2937", Secondary: "#f8fafc", Border: "#5EEAD4", Muted: "#6b7280", Accent: "#0d9488"},
	models.ThemeDark:  {Background: "#1f2937", Text: "#f9fafb", Secondary: "#374151", Border: "#4b5563", Muted: "#9ca3af", Accent: "#14b8a6"},
}

// ExportedDocument is a rendered quotation ready for download
type ExportedDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// DocumentArchiver stores a copy of exported documents
type DocumentArchiver interface {
	Archive(ctx context.Context, filename string, content []byte) error
}

// DocumentService renders quotations to HTML and rasterizes them with headless Chrome
type DocumentService struct {
	company    models.CompanyInfo
	rates      RateSource
	chromePath string
	timeout    time.Duration
	archiver   DocumentArchiver // optional
	now        func() time.Time
}

// NewDocumentService creates a new DocumentService; archiver may be nil
func NewDocumentService(company models.CompanyInfo, rates RateSource, chromePath string, timeout time.Duration, archiver DocumentArchiver) *DocumentService {
	return &DocumentService{
		company:    company,
		rates:      rates,
		chromePath: chromePath,
		timeout:    timeout,
		archiver:   archiver,
		now:        time.Now,
	}
}

type documentRow struct {
	Number      int
	Name        string
	Description string
	Category    string
	Price       string
	Alt         bool
}

type labelled struct {
	Label  string
	Amount string
	Weeks  string
}

type documentView struct {
	Company     models.CompanyInfo
	Logo        template.URL
	Palette     palette
	Date        string
	ClientName  string
	ProjectType string
	Rows        []documentRow
	Total       string
	TotalUSD    string
	Rate        string
	Payments    []labelled
	Timeline    []labelled
	Terms       []string
	NotesLines  []string
}

// Render produces the self-contained HTML of a quotation document. The output
// depends only on its arguments.
func (s *DocumentService) Render(doc models.QuotationDocument, theme models.Theme, company models.CompanyInfo) (string, error) {
	pal, ok := palettes[theme]
	if !ok {
		pal = palettes[models.ThemeLight]
	}

	rows := make([]documentRow, 0, len(doc.Modules))
	for i, m := range doc.Modules {
		rows = append(rows, documentRow{
			Number:      i + 1,
			Name:        m.Name,
			Description: m.Description,
			Category:    m.Category,
			Price:       utils.FormatDOP(m.Price),
			Alt:         i%2 == 1,
		})
	}

	terms := doc.Terms
	if len(terms) == 0 {
		terms = DefaultTerms
	}
	notes := strings.TrimSpace(doc.Notes)
	if notes == "" {
		notes = DefaultNotes
	}

	usd := "US$..."
	rate := "..."
	if validRate(doc.USDRate) {
		usd = utils.FormatUSD(int64(math.Round(float64(doc.TotalLocal) / doc.USDRate)))
		rate = fmt.Sprintf("%.2f", doc.USDRate)
	}

	first := int64(math.Round(float64(doc.TotalLocal) / 2))
	view := documentView{
		Company:     company,
		Logo:        template.URL(company.LogoData),
		Palette:     pal,
		Date:        SpanishDate(doc.GeneratedAt),
		ClientName:  doc.ClientName,
		ProjectType: doc.ProjectType,
		Rows:        rows,
		Total:       utils.FormatDOP(doc.TotalLocal),
		TotalUSD:    usd,
		Rate:        rate,
		Payments: []labelled{
			{Label: "50% al iniciar", Amount: utils.FormatDOP(first)},
			{Label: "50% al entregar", Amount: utils.FormatDOP(doc.TotalLocal - first)},
		},
		Timeline: []labelled{
			{Weeks: "Semana 1-2", Label: "Diseño y desarrollo inicial"},
			{Weeks: "Semana 3-4", Label: "Funcionalidades core y backend"},
			{Weeks: "Semana 5-6", Label: "Integraciones y testing"},
			{Weeks: "Semana 7-8", Label: "Despliegue y entrega final"},
		},
		Terms:      terms,
		NotesLines: strings.Split(notes, "\n"),
	}

	var buf bytes.Buffer
	if err := quotationTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// SpanishDate formats t like "14 de marzo de 2026"
func SpanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// BuildDocument assembles the document of the working quotation. A blank
// client or an empty selection is a validation error.
func (s *DocumentService) BuildDocument(state *quotation.State, notes string) (models.QuotationDocument, error) {
	view := state.View()
	v := utils.Violations{}
	utils.Required("clientName", view.ClientName, v)
	utils.NotEmpty("selectedModules", len(view.SelectedModules), v)
	if err := v.Err(); err != nil {
		return models.QuotationDocument{}, err
	}
	return models.QuotationDocument{
		ClientName:  view.ClientName,
		ProjectType: view.ProjectType,
		Modules:     view.SelectedModules,
		TotalLocal:  view.Total,
		USDRate:     s.rates.Rate(),
		GeneratedAt: s.now(),
		Notes:       notes,
	}, nil
}

// ExportQuotation renders the working quotation in format (html, pdf or png).
// Validation happens before anything is rendered.
func (s *DocumentService) ExportQuotation(ctx context.Context, state *quotation.State, format string, theme models.Theme, notes string) (*ExportedDocument, error) {
	doc, err := s.BuildDocument(state, notes)
	if err != nil {
		log.Printf("❌ ExportQuotation: %v", err)
		return nil, err
	}
	markup, err := s.Render(doc, theme, s.company)
	if err != nil {
		return nil, err
	}

	out := &ExportedDocument{}
	switch format {
	case FormatPDF:
		out.ContentType = "application/pdf"
		out.Content, err = s.Export(ctx, markup)
	case FormatPNG:
		out.ContentType = "image/png"
		out.Content, err = s.Preview(ctx, markup)
	default:
		format = FormatHTML
		out.ContentType = "text/html; charset=utf-8"
		out.Content = []byte(markup)
	}
	if err != nil {
		return nil, err
	}
	out.Filename = utils.QuotationFilename(s.company.Name, doc.ClientName, doc.GeneratedAt, format)
	log.Printf("📄 ExportQuotation: %s (%d bytes)", out.Filename, len(out.Content))

	if format == FormatPDF && s.archiver != nil {
		archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		if err := s.archiver.Archive(archiveCtx, out.Filename, out.Content); err != nil {
			log.Printf("⚠️  ExportQuotation: archive failed: %v", err)
		}
	}
	return out, nil
}

// Export prints markup to a paginated A4 PDF. Rows carry page-break-inside: avoid
// so the browser moves a row to the next page instead of cutting it.
func (s *DocumentService) Export(ctx context.Context, markup string) ([]byte, error) {
	var pdf []byte
	err := s.runInBrowser(ctx, markup, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdf, _, err = page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(a4Width).
			WithPaperHeight(a4Height).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdf, nil
}

// Preview captures a full-page PNG of markup through the same pipeline as Export
func (s *DocumentService) Preview(ctx context.Context, markup string) ([]byte, error) {
	var png []byte
	err := s.runInBrowser(ctx, markup, chromedp.FullScreenshot(&png, 100))
	if err != nil {
		return nil, fmt.Errorf("failed to generate preview: %w", err)
	}
	return png, nil
}

func (s *DocumentService) runInBrowser(ctx context.Context, markup string, capture chromedp.Action) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.DisableGPU,
	)
	if path := detectChromePath(s.chromePath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	return chromedp.Run(browserCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96dpi
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, markup).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		capture,
	)
}

// detectChromePath returns configured when it exists, else the first common install path
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	// Let chromedp auto-detect (may fail in containers)
	return ""
}

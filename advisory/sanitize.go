package advisory

import (
	"bytes"
	"log"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// errorBlock replaces advisory content when the completion call fails
const errorBlock = `<div class="advisory-error"><p><strong>No fue posible obtener la respuesta del asesor.</strong></p><p>Por favor, intenta de nuevo en unos segundos.</p></div>`

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithUnsafe()),
	)
	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()
	return p
}

// Sanitize converts model output (Markdown, HTML or a mix) into HTML that is
// safe to embed in a page. Raw HTML passes the Markdown stage untouched and is
// then reduced to the allow-list.
func Sanitize(raw string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(raw), &buf); err != nil {
		log.Printf("⚠️  Sanitize: markdown conversion failed, sanitizing raw text: %v", err)
		return policy.Sanitize(raw)
	}
	return policy.Sanitize(buf.String())
}

// ErrorBlock is the sanitized content shown in place of a failed answer
func ErrorBlock() string {
	return Sanitize(errorBlock)
}

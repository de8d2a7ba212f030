package advisory

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"webnova-cotizador/models"
	"webnova-cotizador/utils"
)

var (
	blockPattern = regexp.MustCompile(`(?is)\[MODULO_SUGERIDO\](.*?)\[/MODULO_SUGERIDO\]`)

	// key: "value" pairs, possibly several on one line
	quotedField = regexp.MustCompile(`([\p{L}_]+)\s*:\s*["“]([^"”]*)["”]`)

	// key: value, one per line, value unquoted
	lineField = regexp.MustCompile(`(?m)^[\s\-*•]*\**([\p{L}_]+)\**\s*:\s*(.*?)\s*$`)
)

// ParseSuggestions extracts module suggestions from completion output. Both
// [MODULO_SUGERIDO] blocks and the older HTML markup (.add-module-btn and
// div.module-suggestion data attributes) are recognized. Blocks without a name
// or a readable price are skipped. Every well-formed block yields one suggestion;
// legacy markup repeating a block (same name and price) is not reported twice.
// It never fails; garbage input yields no suggestions.
func ParseSuggestions(text string) []models.ModuleSuggestion {
	out := []models.ModuleSuggestion{}
	fromBlocks := map[string]bool{}
	for _, m := range blockPattern.FindAllStringSubmatch(text, -1) {
		if sg, ok := suggestionFromFields(blockFields(m[1])); ok {
			fromBlocks[suggestionKey(sg)] = true
			out = append(out, sg)
		}
	}
	for _, fields := range legacyFields(text) {
		if sg, ok := suggestionFromFields(fields); ok && !fromBlocks[suggestionKey(sg)] {
			out = append(out, sg)
		}
	}
	return out
}

func suggestionKey(sg models.ModuleSuggestion) string {
	return strings.ToLower(sg.Name) + "\x00" + strconv.FormatInt(sg.Price, 10)
}

// StripSuggestionBlocks removes [MODULO_SUGERIDO] blocks from text; their content
// is returned as structured suggestions instead of prose.
func StripSuggestionBlocks(text string) string {
	return strings.TrimSpace(blockPattern.ReplaceAllString(text, ""))
}

func blockFields(body string) map[string]string {
	fields := map[string]string{}
	for _, m := range quotedField.FindAllStringSubmatch(body, -1) {
		if key := canonicalKey(m[1]); key != "" {
			if _, ok := fields[key]; !ok {
				fields[key] = strings.TrimSpace(m[2])
			}
		}
	}
	for _, m := range lineField.FindAllStringSubmatch(body, -1) {
		key := canonicalKey(m[1])
		if key == "" {
			continue
		}
		if _, ok := fields[key]; ok {
			continue
		}
		fields[key] = strings.Trim(m[2], `"“”' `)
	}
	return fields
}

func canonicalKey(key string) string {
	switch strings.ToLower(key) {
	case "nombre", "name":
		return "name"
	case "precio", "price":
		return "price"
	case "descripcion", "descripción", "description":
		return "description"
	case "categoria", "categoría", "category":
		return "category"
	case "horas", "hours", "estimatedhours":
		return "hours"
	default:
		return ""
	}
}

func suggestionFromFields(fields map[string]string) (models.ModuleSuggestion, bool) {
	name := strings.TrimSpace(fields["name"])
	if name == "" {
		return models.ModuleSuggestion{}, false
	}
	price, ok := utils.ParseAmount(fields["price"])
	if !ok || price < 0 {
		return models.ModuleSuggestion{}, false
	}
	sg := models.ModuleSuggestion{
		Name:        name,
		Price:       price,
		Description: strings.TrimSpace(fields["description"]),
		Category:    strings.TrimSpace(fields["category"]),
	}
	if h := strings.TrimSpace(fields["hours"]); h != "" {
		if hours, err := strconv.ParseFloat(strings.Replace(firstNumber(h), ",", ".", 1), 64); err == nil && hours >= 0 {
			sg.EstimatedHours = hours
		}
	}
	return sg, true
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

func firstNumber(s string) string {
	return numberPattern.FindString(s)
}

// legacyFields walks HTML suggestion markup in document order
func legacyFields(text string) []map[string]string {
	if !strings.Contains(text, "add-module-btn") && !strings.Contains(text, "module-suggestion") {
		return nil
	}
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil
	}

	var found []map[string]string
	var walk func(n *html.Node, depth int)
	walk = func(n *html.Node, depth int) {
		if depth > 100 {
			return
		}
		if n.Type == html.ElementNode {
			classes := strings.Fields(getAttr(n, "class"))
			switch {
			case hasClass(classes, "add-module-btn"):
				found = append(found, map[string]string{
					"name":        getAttr(n, "data-name"),
					"price":       getAttr(n, "data-price"),
					"description": getAttr(n, "data-description"),
					"category":    getAttr(n, "data-category"),
				})
			case n.Data == "div" && hasClass(classes, "module-suggestion") && getAttr(n, "data-name") != "":
				desc := getAttr(n, "data-description")
				if desc == "" {
					desc = textContent(n)
				}
				found = append(found, map[string]string{
					"name":        getAttr(n, "data-name"),
					"price":       getAttr(n, "data-price"),
					"description": desc,
					"category":    getAttr(n, "data-category"),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, depth+1)
		}
	}
	walk(doc, 0)
	return found
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func hasClass(classes []string, want string) bool {
	for _, c := range classes {
		if c == want {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

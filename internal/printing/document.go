package printing

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"os"

	"go.uber.org/zap"
)

// DocumentConfig is resolved once at startup and passed by value into the
// exporter. The logo is decorative: when the file is missing the document is
// built without it.
type DocumentConfig struct {
	Title    string
	Link     string
	LogoPath string
}

// RecipeLine is one cart recipe shown above the ingredient totals.
type RecipeLine struct {
	Name  string
	Image string
}

// IngredientLine is one deduplicated ingredient total.
type IngredientLine struct {
	Name   string
	Amount int
	Unit   string
}

// ShoppingListDocument is the renderer-independent content of an export.
type ShoppingListDocument struct {
	Title       string
	Link        string
	Recipes     []RecipeLine
	Ingredients []IngredientLine
}

var shoppingListTemplate = template.Must(template.New("shopping_list").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: sans-serif; margin: 32px; }
  header { display: flex; align-items: center; gap: 16px; }
  header img { width: 64px; height: 64px; }
  h1 a { color: inherit; text-decoration: none; }
  h2 { margin-top: 28px; }
  .recipe { display: flex; align-items: center; gap: 10px; margin: 6px 0; }
  .recipe img { width: 36px; height: 36px; object-fit: cover; }
  ul { list-style: none; padding-left: 0; }
  li { margin: 4px 0; }
</style>
</head>
<body>
<header>
{{if .Logo}}<img src="{{.Logo}}" alt="">{{end}}
<h1><a href="{{.Doc.Link}}">{{.Doc.Title}}</a></h1>
</header>
<h2>Selected recipes</h2>
{{range .Doc.Recipes}}<div class="recipe">{{if .Image}}<img src="{{.Image}}" alt="">{{end}}<span>{{.Name}}</span></div>
{{end}}
<h2>Ingredients required</h2>
<ul>
{{range .Doc.Ingredients}}<li>&mdash; {{.Name}}, {{.Amount}} {{.Unit}}</li>
{{end}}
</ul>
</body>
</html>
`))

// BuildShoppingListHTML renders the export document to HTML for the PDF
// renderer. A missing logo file is skipped, never fatal.
func BuildShoppingListHTML(doc ShoppingListDocument, cfg DocumentConfig, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var logo template.URL
	if cfg.LogoPath != "" {
		data, err := os.ReadFile(cfg.LogoPath)
		if err != nil {
			logger.Warn("export logo unavailable, skipping", zap.String("path", cfg.LogoPath), zap.Error(err))
		} else {
			// template.URL keeps the sanitizer from rejecting the data URI.
			logo = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data))
		}
	}

	var buf bytes.Buffer
	err := shoppingListTemplate.Execute(&buf, struct {
		Doc  ShoppingListDocument
		Logo template.URL
	}{Doc: doc, Logo: logo})
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to build shopping list document", err)
	}
	return buf.String(), nil
}

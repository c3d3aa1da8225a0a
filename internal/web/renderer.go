package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/go-extras/go-kit/must"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// Page names accepted by Render
const (
	PageIndex   = "index"
	PageProduct = "product"
	PageAbout   = "about"
)

//go:embed templates/*.html
var templatesFS embed.FS

// IndexData is the view model of the listing page
type IndexData struct {
	Products   []models.Product
	Categories []string
}

// Renderer renders the storefront's HTML pages
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates. Prices are formatted for lang
// and suffixed with currency.
func NewRenderer(lang language.Tag, currency string) (*Renderer, error) {
	root := must.Must(fs.Sub(templatesFS, "templates"))
	printer := message.NewPrinter(lang)

	funcs := template.FuncMap{
		"price": func(amount int64) string {
			return printer.Sprintf("%d %s", amount, currency)
		},
		"image": StaticURL,
	}

	pages := make(map[string]*template.Template, 3)
	for _, page := range []string{PageIndex, PageProduct, PageAbout} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(root, "layout.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		pages[page] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Render writes page to w. Output is buffered so a failing template leaves w untouched.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// StaticURL maps a product image to the URL a browser should load
func StaticURL(image string) string {
	if strings.HasPrefix(image, "http") {
		return image
	}
	path := strings.TrimPrefix(strings.TrimLeft(image, "/"), "static/")
	return "/static/" + path
}

// Categories lists the distinct product categories in alphabetical order
func Categories(products []models.Product) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, product := range products {
		if !seen[product.Category] {
			seen[product.Category] = true
			categories = append(categories, product.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

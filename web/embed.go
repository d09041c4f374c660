// Package web holds the HTML templates compiled into the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	html "github.com/gofiber/template/html/v2"

	"kemstore/internal/domain"
)

//go:embed templates/*.html
var templates embed.FS

// Engine returns the template engine for the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("yen", domain.FormatYen)
	engine.AddFunc("date", domain.FormatDate)
	engine.AddFunc("postal", domain.FormatPostalCode)
	engine.AddFunc("phone", domain.FormatPhone)
	engine.AddFunc("subtotal", func(it domain.OrderItem) int64 { return it.Subtotal() })
	return engine
}

package web

import (
	"encoding/json"
	"html/template"
	"io"

	"hoopcompare/views"

	"github.com/labstack/echo/v4"
)

type Templates struct {
	templates *template.Template
}

func (t *Templates) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

func NewTemplates() *Templates {
	return &Templates{
		templates: template.Must(template.New("").Funcs(template.FuncMap{
			"selectVals": selectVals,
		}).ParseFS(views.FS, "*.html")),
	}
}

// selectVals is the hx-vals payload of a suggestion.
func selectVals(option string) (string, error) {
	b, err := json.Marshal(map[string]string{"value": option})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

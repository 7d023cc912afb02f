// internal/app/features/trainings/templates.go
package trainings

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "trainings",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

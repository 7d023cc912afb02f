// internal/app/features/mytrainings/templates.go
package mytrainings

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "mytrainings",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}

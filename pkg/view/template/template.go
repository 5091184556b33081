package template

import (
	"io"
)

// Renderer is the engine seam the view layer depends on. The built-in
// implementation is pongo2-backed; callers can swap in any engine that
// satisfies the same contract.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

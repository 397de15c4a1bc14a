// Package render consumes a finished RenderSpec and produces output
// artifacts: a JSON export of the spec and a self-contained HTML page
// for a Plotly-compatible renderer. The core pipeline never depends on
// anything in this package.
package render

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bivarmap/internal/bivar"
)

// WriteJSON writes the render spec as indented JSON.
func WriteJSON(spec *bivar.RenderSpec, path string) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return eris.Wrap(err, "render: marshal spec")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "render: write %s", path)
	}
	return nil
}

package eval

import (
	"os"
	"path/filepath"

	"github.com/hassan/script/internal/astdump"
	"github.com/hassan/script/internal/docgen"
)

// writeASTFile emits the `--ast-file` diagnostic artifact: a text
// listing alongside a `.ast.json` machine-readable sibling.
func writeASTFile(ev *Evaluator) error {
	dump := astdump.Build(ev.filename, ev.program)

	base := ev.filename + ".ast"
	if err := os.WriteFile(base+".txt", []byte(dump.Text()), 0o644); err != nil {
		return err
	}
	data, err := dump.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(base+".json", data, 0o644)
}

// writeDocFile emits the `--doc` HTML artifact to ./script-doc/doc.html.
func writeDocFile(ev *Evaluator) error {
	html, err := docgen.Render(ev.filename, ev.ctx)
	if err != nil {
		return err
	}
	dir := "script-doc"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "doc.html"), []byte(html), 0o644)
}

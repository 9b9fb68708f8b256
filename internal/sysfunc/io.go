package sysfunc

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

func argString(h Host, args []*ast.Node, idx int) (string, error) {
	vs, err := evalAll(h, args)
	if err != nil {
		return "", err
	}
	if idx >= len(vs) {
		return "", errors.New("missing string argument")
	}
	v := value.Unwrap(vs[idx])
	if v.Kind != value.KindString {
		return "", errors.Errorf("expected string argument, got %s", v.Kind)
	}
	return v.S, nil
}

// registerIO wires `open`, `create`, `read_file`, `write_file`,
// `list_files`, `open_recent`.
func (r *Registry) registerIO() {
	r.register("open", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		path, err := argString(h, args, 0)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %q", path)
		}
		return &value.Value{Kind: value.KindSystem, Sys: &value.SystemHandle{Tag: "file", Payload: f}}, nil
	})
	r.register("create", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		path, err := argString(h, args, 0)
		if err != nil {
			return nil, err
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, errors.Wrapf(err, "create %q", path)
		}
		return &value.Value{Kind: value.KindSystem, Sys: &value.SystemHandle{Tag: "file", Payload: f}}, nil
	})
	r.register("read_file", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		path, err := argString(h, args, 0)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read_file %q", path)
		}
		return value.Str(string(data)), nil
	})
	r.register("write_file", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		path, err := argString(h, args, 0)
		if err != nil {
			return nil, err
		}
		contents, err := argString(h, args, 1)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			return nil, errors.Wrapf(err, "write_file %q", path)
		}
		return value.Null(), nil
	})
	r.register("list_files", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		dir, err := argString(h, args, 0)
		if err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "list_files %q", dir)
		}
		elems := make([]*value.Value, 0, len(entries))
		for _, e := range entries {
			elems = append(elems, value.Str(e.Name()))
		}
		return value.NewArray(elems), nil
	})
	r.register("open_recent", func(h Host, args []*ast.Node, call *ast.Node) (*value.Value, error) {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return nil, errors.New("open_recent requires APPDATA (Windows only)")
		}
		dir := filepath.Join(appData, "Microsoft", "Windows", "Recent")
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "open_recent %q", dir)
		}
		elems := make([]*value.Value, 0, len(entries))
		for _, e := range entries {
			elems = append(elems, value.Str(e.Name()))
		}
		return value.NewArray(elems), nil
	})
}

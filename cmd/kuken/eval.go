package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kuken-host/engine/internal/blueprint"
	"github.com/kuken-host/engine/internal/engine"
	"github.com/kuken-host/engine/internal/manifest"
	"github.com/kuken-host/engine/internal/refs"
)

func runEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	values := pairList{}
	context := pairList{}
	fs.Var(values, "set", "Input value as name=value (repeatable)")
	fs.Var(context, "ctx", "Runtime context entry as path=value (repeatable)")
	reveal := fs.Bool("reveal", false, "Emit true secret values instead of the redaction marker")
	root := fs.String("root", "", "Blueprint root for relative amends (defaults to the blueprint's directory)")
	remote := fs.Bool("remote", false, "Allow HTTP(S) amends references")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("eval expects exactly one blueprint file")
	}
	path := fs.Arg(0)

	m, err := render(path, *root, *remote, values, context)
	if err != nil {
		return fmt.Errorf("%s (%s)", err, engine.ErrorKind(err))
	}
	if !*reveal {
		m = m.Redacted()
	}

	out, err := m.EncodeIndent()
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func render(path, root string, remote bool, values, context map[string]string) (*manifest.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format, err := blueprint.FormatForPath(path)
	if err != nil {
		return nil, err
	}

	if root == "" {
		root = filepath.Dir(path)
	}
	eng := engine.New(engine.Config{
		BlueprintRoot: root,
		AllowRemote:   remote,
	})

	rctx := make(refs.Context, len(context)+1)
	for k, v := range context {
		rctx[k] = v
	}
	if _, ok := rctx["instance.id"]; !ok {
		rctx["instance.id"] = uuid.NewString()
	}

	return eng.RenderSource(data, format, values, rctx)
}

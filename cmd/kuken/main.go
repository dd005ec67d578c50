package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "eval":
		err = runEval(os.Args[2:])
	case "test":
		err = runTest(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(`
kuken - blueprint engine CLI

Commands:
  eval <blueprint>   Render a blueprint into a deployment manifest
  test <blueprint>   Run the blueprint's fixture cases

Run 'kuken <command> -h' for command flags.
`))
}

// pairList collects repeatable key=value flags.
type pairList map[string]string

func (p pairList) String() string { return fmt.Sprintf("%v", map[string]string(p)) }

func (p pairList) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	p[key] = val
	return nil
}

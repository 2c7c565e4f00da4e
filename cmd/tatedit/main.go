package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yomogi/tatedit/internal/app"
	"github.com/yomogi/tatedit/internal/export"
)

func main() {
	exportMode := flag.Bool("export", false, "render files as plain-text manuscript pages and exit")
	exportOut := flag.String("o", "", "output path for -export (default: first input with .pages.txt)")
	flag.Parse()

	args := flag.Args()
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	if *exportMode {
		if err := runExport(args, *exportOut); err != nil {
			fmt.Fprintln(os.Stderr, "tatedit:", err)
			os.Exit(1)
		}
		return
	}

	if err := app.New(args).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tatedit:", err)
		os.Exit(1)
	}
}

// runExport lays out one or more manuscripts on the standard submission
// grid and writes the combined pages as plain text.
func runExport(paths []string, out string) error {
	if len(paths) == 0 {
		return fmt.Errorf("-export needs at least one input file")
	}
	texts := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		texts = append(texts, string(data))
	}
	doc := export.Paginate(export.Merge(texts), export.DefaultRows, export.DefaultCols)
	if out == "" {
		out = strings.TrimSuffix(paths[0], ".txt") + ".pages.txt"
	}
	return os.WriteFile(out, []byte(doc.RenderText()), 0o644)
}

// Command colframe loads a parquet file, runs a lazy filter/sort/select
// pipeline over it, and prints the resolved table.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vegasq/colframe/output"
	"github.com/vegasq/colframe/pipeline"
	"github.com/vegasq/colframe/query"
	"github.com/vegasq/colframe/reader"
)

var (
	whereFlag  = flag.String("where", "", "filter as a SQL WHERE-clause body (e.g. \"age > 30 AND name LIKE '%li%'\")")
	selectFlag = flag.String("select", "", "comma-separated columns to keep")
	sortFlag   = flag.String("sort", "", "comma-separated sort columns, each optionally suffixed :desc")
	formatFlag = flag.String("f", "", "output format: json, jsonl, csv, text")
	limitFlag  = flag.Int("limit", 0, "limit number of rows (0 = unlimited)")
	configFlag = flag.String("config", "", "path to YAML config file")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file.parquet>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A tool to filter, sort, and reshape Parquet files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s data.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -where \"age > 30\" -sort age:desc data.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -select id,name -f csv data.parquet\n", os.Args[0])
	}

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing parquet file argument\n\n")
		flag.Usage()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	cfg, err := loadCLIConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tbl, err := reader.Load(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: file '%s' not found\n", filename)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	p := pipeline.New(tbl)
	if *whereFlag != "" {
		p = p.FilterSQL(*whereFlag)
	}
	if *sortFlag != "" {
		p = p.Sort(parseSort(*sortFlag)...)
	}
	if *selectFlag != "" {
		p = p.Select(splitList(*selectFlag)...)
	}

	limit := cfg.Limit
	if *limitFlag > 0 {
		limit = *limitFlag
	}
	if limit > 0 {
		p = p.Slice(0, limit)
	}

	result, err := p.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nAvailable columns: %s\n", strings.Join(tbl.Schema().Names(), ", "))
		os.Exit(1)
	}

	format := cfg.Format
	if *formatFlag != "" {
		format = *formatFlag
	}

	var formatter output.Formatter
	switch format {
	case "json", "jsonl":
		formatter = output.NewJSONFormatter(os.Stdout)
	case "csv":
		formatter = output.NewCSVFormatter(os.Stdout)
	case "text":
		formatter = output.NewTextFormatter(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: unsupported format '%s'\n", format)
		fmt.Fprintf(os.Stderr, "Supported formats: json, jsonl, csv, text\n")
		os.Exit(1)
	}

	if err := formatter.Format(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
}

// loadCLIConfig loads -config when given, otherwise tries
// ~/.colframe.yaml and falls back to defaults.
func loadCLIConfig() (Config, error) {
	if *configFlag != "" {
		return loadConfig(*configFlag, true)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig(), nil
	}
	return loadConfig(filepath.Join(home, ".colframe.yaml"), false)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseSort(s string) []query.OrderBy {
	var by []query.OrderBy
	for _, part := range splitList(s) {
		item := query.OrderBy{Column: part}
		if col, ok := strings.CutSuffix(part, ":desc"); ok {
			item = query.OrderBy{Column: col, Desc: true}
		} else if col, ok := strings.CutSuffix(part, ":asc"); ok {
			item = query.OrderBy{Column: col}
		}
		by = append(by, item)
	}
	return by
}

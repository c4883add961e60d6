// Command gridview browses a large table in the terminal. Rows come from
// a SQLite query or are generated.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/hnimtadd/gridvirt"
	"github.com/hnimtadd/gridvirt/config"
	"github.com/hnimtadd/gridvirt/grid/column"
	"github.com/hnimtadd/gridvirt/grid/measure"
	"github.com/hnimtadd/gridvirt/grid/source"
	"github.com/hnimtadd/gridvirt/grid/source/sqlsource"
	"github.com/hnimtadd/gridvirt/logger"
)

type flags struct {
	config  string
	db      string
	query   string
	rows    int
	groupBy string
	logFile string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("gridview", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", "", "YAML configuration file")
	fs.StringVar(&f.db, "db", "", "SQLite database to browse")
	fs.StringVar(&f.query, "query", "", "query to run against -db")
	fs.IntVar(&f.rows, "rows", 100_000, "number of generated rows without -db")
	fs.StringVar(&f.groupBy, "group", "", "column to group by")
	fs.StringVar(&f.logFile, "log", "", "write logs to this file")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if f.db != "" && f.query == "" {
		return f, fmt.Errorf("-query is required with -db")
	}
	if f.rows < 0 {
		return f, fmt.Errorf("-rows must not be negative")
	}
	return f, nil
}

// loadConfig reads the file when one is given. The built-in defaults are
// tuned for pixels; without a file, heights are terminal lines.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	cfg.Estimator.RowHeightHint = 1
	cfg.Estimator.HeaderHeightHint = 1
	cfg.Estimator.FooterHeightHint = 1
	return cfg, nil
}

type generated struct {
	ID    int
	Name  string
	Team  string
	Notes string
}

var teams = []string{"infra", "payments", "search", "mobile", "data"}

func generate(n int) *source.Slice[generated] {
	items := make([]generated, n)
	for i := range items {
		notes := "ok"
		if i%7 == 0 {
			notes = strings.Repeat("long note ", 1+i%5)
		}
		items[i] = generated{
			ID:    i,
			Name:  fmt.Sprintf("item-%06d", i),
			Team:  teams[(i/50)%len(teams)],
			Notes: notes,
		}
	}
	return source.NewSlice(items...)
}

// openSource returns the data source, its columns and the group key.
func openSource(ctx context.Context, f flags) (source.DataSource, []column.Column, func(any) any, error) {
	if f.db == "" {
		cols, err := column.FromStruct(generated{}, 12)
		if err != nil {
			return nil, nil, nil, err
		}
		var key func(any) any
		if f.groupBy != "" {
			for _, c := range cols {
				if strings.EqualFold(c.Header, f.groupBy) {
					key = c.Value
				}
			}
		}
		return generate(f.rows), cols, key, nil
	}

	src, err := sqlsource.Open(ctx, f.db, f.query)
	if err != nil {
		return nil, nil, nil, err
	}
	var key func(any) any
	if f.groupBy != "" {
		name := f.groupBy
		key = func(v any) any { return v.(*sqlsource.Record).Get(name) }
	}
	return src, src.Columns(8), key, nil
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f.config)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if f.logFile != "" {
		file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		defer file.Close()
		logOut = file
	}
	lopts, err := cfg.LoggerOptions(logOut)
	if err != nil {
		return err
	}
	log := logger.New(lopts)

	src, cols, groupKey, err := openSource(context.Background(), f)
	if err != nil {
		return err
	}
	grid := gridvirt.NewGrid(gridvirt.Options{
		Config:   &cfg,
		Logger:   log,
		Columns:  cols,
		Measurer: &measure.TextMeasurer{Columns: column.NewSet(cols...), LineHeight: 1, MaxLines: 4},
	})
	if err := grid.SetSource(src); err != nil {
		return err
	}
	if groupKey != nil {
		grid.SetGroups(groupKey)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	log.Info("gridview started", "rows", src.Count(), "columns", len(cols))
	newApp(screen, grid, cols).run()
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "gridview:", err)
		os.Exit(1)
	}
}

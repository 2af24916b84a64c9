// Command rrdclient publishes the integers read from stdin, one snapshot per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/internal/logging"
	"github.com/arloliu/rrdplugin/plugin"
)

var logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file.rrd\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	logger, err := logging.New(*logLevel, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(flag.Arg(0), logger); err != nil {
		logger.Fatal("rrdclient failed", zap.Error(err))
	}
}

func run(path string, logger *zap.Logger) error {
	p, err := plugin.Open("client", format.DomainLocal, path, plugin.WithLogger(logger))
	if err != nil {
		return err
	}
	defer p.Close()

	var current int64
	src := datasource.New("stdin", "integers read from stdin", "numbers", format.KindInt64,
		datasource.SamplerFunc(func() datasource.Value {
			fmt.Printf("sample called: %d\n", current)
			return datasource.Int64(current)
		}))
	src.OwnerUUID = "931388d6-559e-11e6-ab0a-73658ca1c515"

	if err := p.Register(src); err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		v, err := strconv.ParseInt(strings.TrimSpace(scanner.Text()), 10, 64)
		if err != nil {
			logger.Warn("Ignoring line that is not an integer", zap.String("line", scanner.Text()))
			v = 0
		}
		current = v

		if err := p.Publish(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	return p.Unregister(src)
}

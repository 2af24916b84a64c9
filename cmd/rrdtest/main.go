// Command rrdtest runs a fixed register/sample/unregister sequence against
// rrdtest.rrd in the current directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arloliu/rrdplugin/datasource"
	"github.com/arloliu/rrdplugin/format"
	"github.com/arloliu/rrdplugin/internal/logging"
	"github.com/arloliu/rrdplugin/plugin"
)

var numbers = []int64{2, 16, 28, 29, 29, 34, 40, 48, 49, 52, 54, 55, 55, 57, 66, 67, 83, 85, 90, 97}

var logLevel = flag.String("log-level", "debug", "Log level (debug, info, warn, error)")

// sequence cycles through numbers, shared by both sources.
type sequence struct {
	next int
}

func (s *sequence) sample() datasource.Value {
	v := numbers[s.next%len(numbers)]
	s.next++
	fmt.Printf("sample called: %d\n", v)

	return datasource.Int64(v)
}

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "usage: %s\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	logger, err := logging.New(*logLevel, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run("rrdtest.rrd", logger); err != nil {
		logger.Fatal("rrdtest failed", zap.Error(err))
	}
}

func newSource(name, uuid string, seq *sequence) *datasource.Source {
	src := datasource.New(name, "description", "points", format.KindInt64,
		datasource.WithUserdata(seq, (*sequence).sample))
	src.OwnerUUID = uuid

	return src
}

func run(path string, logger *zap.Logger) error {
	p, err := plugin.Open("rrdtest", format.DomainLocal, path, plugin.WithLogger(logger))
	if err != nil {
		return err
	}
	defer p.Close()

	seq := &sequence{}
	first := newSource("first", "4cc1f2e0-5405-11e6-8c2f-572fc76ac144", seq)
	second := newSource("second", "e8969702-5414-11e6-8cf5-47824be728c3", seq)

	steps := []func() error{
		func() error { return p.Register(first) },
		p.Publish,
		func() error { return p.Register(second) },
		p.Publish,
		func() error { return p.Unregister(first) },
		p.Publish,
		func() error { return p.Unregister(second) },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

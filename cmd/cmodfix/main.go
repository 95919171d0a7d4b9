// cmodfix repairs and optimizes cmod model files: it can generate normals
// and tangents, merge meshes, remove duplicate vertices and convert
// triangle lists to strips.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/cmodfix/internal/config"
	"github.com/Faultbox/cmodfix/internal/logger"
	"github.com/Faultbox/cmodfix/internal/pipeline"
	"github.com/Faultbox/cmodfix/internal/progress"
	"github.com/Faultbox/cmodfix/pkg/cmod"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	if err := run(config.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "cmodfix: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `cmodfix - cmod model repair and optimization

Usage:
  cmodfix [options] [input [output]]

Reads standard input when input is omitted and writes standard output
when output is omitted.

Options:`)
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Examples:
  cmodfix -n -s 45 ship.cmod fixed.cmod
  cmodfix -b -u -m < station.cmod > station.bin.cmod
  cmodfix --normals --tangents --weld --write-config cmodfix.yaml`)
}

func run(args []string) error {
	if len(args) > 2 {
		printUsage()
		return fmt.Errorf("too many arguments: %d", len(args))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		logger.Info("config written", zap.String("path", path))
		return nil
	}

	var inputName, outputName string
	if len(args) > 0 {
		inputName = args[0]
	}
	if len(args) > 1 {
		outputName = args[1]
	}

	model, err := readModel(inputName)
	if err != nil {
		return err
	}
	logger.Debug("model loaded",
		zap.String("input", displayName(inputName, "stdin")),
		zap.Int("materials", len(model.Materials)),
		zap.Int("meshes", len(model.Meshes)),
		zap.Int("vertices", model.VertexCount()))

	var reporter pipeline.Reporter
	if cfg.Output.Progress && progress.Enabled(os.Stderr) {
		reporter = progress.New(os.Stderr)
	}

	model, stats, err := pipeline.New(cfg.Pipeline, reporter).Run(model)
	if err != nil {
		return err
	}
	if stats.Removed > 0 {
		logger.Info("duplicate vertices removed", zap.Int("count", stats.Removed))
	}

	format := cmod.FormatASCII
	if cfg.Output.Binary {
		format = cmod.FormatBinary
	}
	return writeModel(outputName, model, format)
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func readModel(name string) (*cmod.Model, error) {
	var r io.Reader = os.Stdin
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	model, err := cmod.LoadModel(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", displayName(name, "stdin"), err)
	}
	return model, nil
}

func writeModel(name string, model *cmod.Model, format cmod.Format) error {
	if name == "" {
		if err := cmod.SaveModel(os.Stdout, model, format); err != nil {
			return fmt.Errorf("writing stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := cmod.SaveModel(f, model, format); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	logger.Debug("model written", zap.String("output", name), zap.Stringer("format", format))
	return nil
}

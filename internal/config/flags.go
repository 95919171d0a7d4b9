package config

import (
	"flag"
	"strconv"
)

// optionalFloat is a float flag that remembers whether it was given.
type optionalFloat struct {
	value float64
	set   bool
}

func (f *optionalFloat) String() string {
	if f == nil || !f.set {
		return ""
	}
	return strconv.FormatFloat(f.value, 'g', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value, f.set = v, true
	return nil
}

// optionalInt is an int flag that remembers whether it was given.
type optionalInt struct {
	value int
	set   bool
}

func (f *optionalInt) String() string {
	if f == nil || !f.set {
		return ""
	}
	return strconv.Itoa(f.value)
}

func (f *optionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	f.value, f.set = v, true
	return nil
}

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagWriteConfig = flag.String("write-config", "", "Write the effective config to `path` and exit")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Also log to `file` (rotated)")
	flagProgress    = flag.Bool("progress", false, "Show progress on a terminal")

	flagBinary    bool
	flagASCII     bool
	flagUniquify  bool
	flagNormals   bool
	flagTangents  bool
	flagWeld      bool
	flagMerge     bool
	flagOptimize  bool
	flagSmooth    optionalFloat
	flagCacheSize optionalInt
)

func init() {
	boolFlag(&flagBinary, "b", "binary", "Write binary output")
	boolFlag(&flagASCII, "a", "ascii", "Write ASCII output (default)")
	boolFlag(&flagUniquify, "u", "uniquify", "Remove duplicate vertices")
	boolFlag(&flagNormals, "n", "normals", "Generate normals")
	boolFlag(&flagTangents, "t", "tangents", "Generate tangents")
	boolFlag(&flagWeld, "w", "weld", "Join identical vertices before normal or tangent generation")
	boolFlag(&flagMerge, "m", "merge", "Merge meshes with the same vertex layout")
	boolFlag(&flagOptimize, "o", "optimize", "Convert triangle lists to strips")
	flag.Var(&flagSmooth, "s", "Smoothing angle in `degrees` for normal generation (default 60)")
	flag.Var(&flagSmooth, "smooth", "Smoothing angle in `degrees` for normal generation (default 60)")
	flag.Var(&flagCacheSize, "cache-size", "Vertex cache `size` for strip optimization (default 16)")
}

func boolFlag(p *bool, short, long, usage string) {
	flag.BoolVar(p, short, false, usage)
	flag.BoolVar(p, long, false, usage)
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config destination, if any.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if flagBinary {
		cfg.Output.Binary = true
	}
	if flagASCII {
		cfg.Output.Binary = false
	}
	if *flagProgress {
		cfg.Output.Progress = true
	}

	p := &cfg.Pipeline
	p.Uniquify = p.Uniquify || flagUniquify
	p.Normals = p.Normals || flagNormals
	p.Tangents = p.Tangents || flagTangents
	p.Weld = p.Weld || flagWeld
	p.Merge = p.Merge || flagMerge
	p.Optimize = p.Optimize || flagOptimize
	if flagSmooth.set {
		p.SmoothAngle = flagSmooth.value
	}
	if flagCacheSize.set {
		p.VertexCacheSize = flagCacheSize.value
	}

	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}

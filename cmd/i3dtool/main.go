// i3dtool converts and inspects 3DS and I3D chunk files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/i3d-tools/internal/config"
	"github.com/Faultbox/i3d-tools/internal/convert"
	"github.com/Faultbox/i3d-tools/internal/logger"
	"github.com/Faultbox/i3d-tools/pkg/encoding"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "analyze", "a":
		cmdAnalyze(args)
	case "info":
		cmdInfo(args)
	case "to3ds":
		cmdConvert("to3ds", convert.ToThreeDS, ".3ds", args)
	case "toi3d":
		cmdConvert("toi3d", convert.ToI3D, ".i3d", args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`i3dtool - 3DS / I3D chunk file utility

Usage:
  i3dtool <command> [options] <file>

Commands:
  analyze <file>              Print the chunk tree, unknown ids and anomalies
  info <file>                 Summarize materials and objects
  to3ds [-o out] <file.i3d>   Convert I3D to 3DS (split uv seams)
  toi3d [-o out] <file.3ds>   Convert 3DS to I3D (write FACE_MAP_CHANNEL)
  config [path]               Write the effective configuration

Options (all commands):
  -config path      Config file (default ./i3dtool.yaml, then user config dir)
  -debug            Debug logging
  -log-file path    Also log to a rotated file
  -encoding name    Charset for names (default windows-1250)

Conversion options:
  -channel N        Preferred UV channel (default 1)
  -bake             Bake OBJECT_TRANS_MATRIX into vertices
  -compact          Deduplicate UVs in FACE_MAP_CHANNEL
  -add-smoothing    Put meshes without smoothing into group 1

Report options:
  -format text|yaml
  -depth N          Limit analyze output depth

Examples:
  i3dtool analyze model.i3d
  i3dtool info -format yaml model.3ds
  i3dtool to3ds -channel 2 -bake model.i3d
  i3dtool toi3d -compact -o out/model.i3d model.3ds`)
}

// setup parses flags, loads the config and starts logging.
func setup(name string, args []string, extra func(fs *flag.FlagSet)) (*config.Config, *flag.FlagSet) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	if extra != nil {
		extra(fs)
	}
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg, fs
}

func charset(cfg *config.Config) encoding.Charset {
	cs, err := encoding.LookupCharset(cfg.Text.Charset)
	if err != nil {
		fail(err)
	}
	return cs
}

func fail(err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdAnalyze(args []string) {
	cfg, fs := setup("analyze", args, nil)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: i3dtool analyze [options] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fail(err)
	}

	a := &convert.Analyzer{Charset: charset(cfg), MaxDepth: cfg.Analysis.MaxDepth}
	report := a.Analyze(path, data)
	for _, an := range report.Anomalies {
		logger.Warn("anomaly", zap.String("kind", an.Kind), zap.String("id", an.ID), zap.Int("offset", an.Offset))
	}

	if cfg.Analysis.Format == "yaml" {
		err = report.WriteYAML(os.Stdout)
	} else {
		err = report.WriteText(os.Stdout)
	}
	if err != nil {
		fail(err)
	}
}

func cmdInfo(args []string) {
	cfg, fs := setup("info", args, nil)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: i3dtool info [options] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fail(err)
	}

	doc, anomalies, err := convert.Info(data, charset(cfg))
	if err != nil {
		fail(err)
	}
	for _, a := range anomalies {
		logger.Warn("anomaly", zap.Error(a))
	}

	if cfg.Analysis.Format == "yaml" {
		err = convert.WriteInfoYAML(os.Stdout, doc)
	} else {
		err = convert.WriteInfoText(os.Stdout, path, doc)
	}
	if err != nil {
		fail(err)
	}
}

func cmdConvert(name string, dir convert.Direction, ext string, args []string) {
	var output *string
	cfg, fs := setup(name, args, func(fs *flag.FlagSet) {
		output = fs.String("o", "", "Output file (default: input with "+ext+" extension)")
	})
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: i3dtool %s [options] <file>\n", name)
		os.Exit(1)
	}
	src := fs.Arg(0)
	dst := *output
	if dst == "" {
		dst = strings.TrimSuffix(src, filepath.Ext(src)) + ext
	}

	conv := convert.New(convert.OptionsFrom(cfg), charset(cfg), logger.Named(name))
	stats, err := conv.ConvertFile(src, dst, dir)
	if err != nil {
		fail(err)
	}

	fmt.Printf("%s -> %s\n", src, dst)
	fmt.Printf("  objects:  %d (%d meshes)\n", stats.Objects, stats.Meshes)
	fmt.Printf("  vertices: %d -> %d\n", stats.VerticesIn, stats.VerticesOut)
	fmt.Printf("  faces:    %d\n", stats.Faces)
	if stats.Fallbacks > 0 {
		fmt.Printf("  channel fallbacks: %d\n", stats.Fallbacks)
	}
	if stats.Baked > 0 {
		fmt.Printf("  baked transforms:  %d\n", stats.Baked)
	}
	if stats.Dropped > 0 {
		fmt.Printf("  dropped per-vertex chunks: %d\n", stats.Dropped)
	}
	if stats.Warnings > 0 {
		fmt.Printf("  warnings: %d (see log)\n", stats.Warnings)
	}
}

func cmdConfig(args []string) {
	cfg, fs := setup("config", args, nil)
	defer logger.Sync()

	var (
		path string
		err  error
	)
	if fs.NArg() > 0 {
		path = fs.Arg(0)
		err = cfg.SaveTo(path)
	} else {
		path, err = cfg.Save()
	}
	if err != nil {
		fail(err)
	}
	fmt.Printf("Config written to %s\n", path)
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-gray-bench/internal/config"
	"github.com/ironsheep/image-gray-bench/internal/engine"
	"github.com/ironsheep/image-gray-bench/internal/raster"
	"github.com/ironsheep/image-gray-bench/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and --help before anything touches the environment
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-gray %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		}
	}

	// Configure logging to stderr (stdout carries results and the MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	cmd, args := "serve", []string(nil)
	if len(os.Args) > 1 {
		cmd, args = os.Args[1], os.Args[2:]
	}

	switch cmd {
	case "run":
		err = runCommand(args, cfg, os.Stdout)
	case "bench":
		err = benchCommand(args, cfg, os.Stdout)
	case "serve":
		err = serveCommand(args, cfg)
	default:
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "image-gray - parallel grayscale conversion and benchmark")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  image-gray run -in IN -out OUT [-mode parallel|sequential|line] [engine flags]")
	fmt.Fprintln(w, "  image-gray bench -in IN [-out OUT] [-modes sequential,parallel,line] [engine flags]")
	fmt.Fprintln(w, "  image-gray serve        MCP server over stdin/stdout (default)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Engine flags:")
	fmt.Fprintln(w, "  -processes N    Rows of the worker grid")
	fmt.Fprintln(w, "  -threads N      Workers per process")
	fmt.Fprintln(w, "  -repeat N       Grayscale passes per worker")
	fmt.Fprintln(w, "  -policy P       Remainder rows: last or balanced")
	fmt.Fprintln(w, "  -quality Q      JPEG output quality (1-100)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables (overridden by flags):")
	fmt.Fprintf(w, "  %s, %s, %s,\n", config.EnvProcesses, config.EnvThreads, config.EnvRepeats)
	fmt.Fprintf(w, "  %s, %s\n", config.EnvPolicy, config.EnvJPEGQuality)
	fmt.Fprintf(w, "  %s=debug    Enable debug logging\n", config.EnvLogLevel)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output files ending in .rgbz are written as lossless zstd snapshots.")
}

// engineFlags registers the flags shared by run and bench on fs. Defaults
// come from cfg, so a flag that is not given keeps the environment value.
func engineFlags(fs *flag.FlagSet, cfg *config.Config) *string {
	fs.IntVar(&cfg.Processes, "processes", cfg.Processes, "rows of the worker grid")
	fs.IntVar(&cfg.ThreadsPerProcess, "threads", cfg.ThreadsPerProcess, "workers per process")
	fs.IntVar(&cfg.Repeats, "repeat", cfg.Repeats, "grayscale passes per worker")
	fs.IntVar(&cfg.JPEGQuality, "quality", cfg.JPEGQuality, "JPEG output quality (1-100)")
	return fs.String("policy", string(cfg.Policy), "remainder rows: last or balanced")
}

// parseEngineFlags parses args and validates the resulting configuration.
func parseEngineFlags(fs *flag.FlagSet, args []string, cfg *config.Config, policy *string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	cfg.Policy = engine.Policy(strings.ToLower(*policy))
	return cfg.Validate()
}

func newEngine(cfg config.Config) *engine.Engine {
	if cfg.Debug() {
		return engine.New(log.Default())
	}
	return engine.New(nil)
}

// runCommand converts one image and writes it.
func runCommand(args []string, cfg config.Config, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	in := fs.String("in", "", "input image")
	out := fs.String("out", "", "output image; the extension selects the format")
	modeName := fs.String("mode", string(engine.ModeParallel), "parallel, sequential or line")
	policy := engineFlags(fs, &cfg)
	if err := parseEngineFlags(fs, args, &cfg, policy); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("both -in and -out are required")
	}
	mode, err := engine.ParseMode(*modeName)
	if err != nil {
		return err
	}

	buf, err := raster.Decode(*in)
	if err != nil {
		return err
	}
	if cfg.Debug() {
		log.Printf("[DEBUG] decoded %s: %dx%d, %d components", *in, buf.Width, buf.Height, buf.Components)
	}

	report, err := newEngine(cfg).Process(buf, mode, cfg.EngineOptions())
	if err != nil {
		return err
	}
	if err := raster.Encode(buf, *out, imaging.JPEGQuality(cfg.JPEGQuality)); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %d workers, %d repeats, %v\n", report.Mode, len(report.Workers), report.Repeats, report.Elapsed)
	return nil
}

// benchCommand times every mode on one image and prints a table.
func benchCommand(args []string, cfg config.Config, stdout io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	in := fs.String("in", "", "input image")
	out := fs.String("out", "", "optional output for the converted image")
	modeList := fs.String("modes", "", "comma separated modes to run (default: all)")
	policy := engineFlags(fs, &cfg)
	if err := parseEngineFlags(fs, args, &cfg, policy); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	var modes []engine.Mode
	if *modeList != "" {
		for _, name := range strings.Split(*modeList, ",") {
			mode, err := engine.ParseMode(strings.TrimSpace(name))
			if err != nil {
				return err
			}
			modes = append(modes, mode)
		}
	}

	buf, err := raster.Decode(*in)
	if err != nil {
		return err
	}
	report, converted, err := newEngine(cfg).Bench(buf, cfg.EngineOptions(), modes...)
	if err != nil {
		return err
	}
	if err := report.WriteTable(stdout); err != nil {
		return err
	}
	if !report.Identical {
		return fmt.Errorf("modes produced different output")
	}

	if *out != "" {
		return raster.Encode(converted, *out, imaging.JPEGQuality(cfg.JPEGQuality))
	}
	return nil
}

// serveCommand runs the MCP server on stdin/stdout until stdin closes.
func serveCommand(args []string, cfg config.Config) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	policy := engineFlags(fs, &cfg)
	if err := parseEngineFlags(fs, args, &cfg, policy); err != nil {
		return err
	}

	if cfg.Debug() {
		log.Printf("Image Gray Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.NewWithConfig(cfg, log.Default())
	return srv.Run()
}

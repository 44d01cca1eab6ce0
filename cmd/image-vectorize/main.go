package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ironsheep/image-vectorize/internal/config"
	"github.com/ironsheep/image-vectorize/internal/logging"
	"github.com/ironsheep/image-vectorize/internal/server"
	"github.com/ironsheep/image-vectorize/internal/vectorize"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Printf("image-vectorize %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "serve":
			serve(args[1:])
			return
		}
	}
	convert(args)
}

func printUsage() {
	fmt.Println("image-vectorize - convert raster images to SVG")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  image-vectorize --input in.png --output out.svg [options]")
	fmt.Println("  image-vectorize serve [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Print(config.NewFlagSet("image-vectorize").FlagUsages())
	fmt.Println("  -v, --version                   Print version information")
	fmt.Println("  -h, --help                      Print this help message")
	fmt.Println()
	fmt.Println("Every option can also be set in the YAML configuration file, using")
	fmt.Println("underscores instead of dashes, or through the environment, e.g.")
	fmt.Printf("  %s_FILTER_SPECKLE=8\n", config.EnvPrefix)
	fmt.Println()
	fmt.Println("serve runs an MCP server over stdin/stdout; the options become the")
	fmt.Println("defaults of its image_vectorize and image_vectorize_file tools.")
}

// load parses args and layers them over the configuration file and the
// environment. It exits on invalid arguments.
func load(name string, args []string) *config.Config {
	fs := config.NewFlagSet(name)
	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	path, _ := fs.GetString("config")
	cfg, err := config.Load(path, fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.LogMode); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func convert(args []string) {
	cfg := load("image-vectorize", args)
	defer logging.Sync()

	if err := cfg.Validate(); err != nil {
		logging.Logger.Fatal("invalid configuration", zap.Error(err))
	}
	vc, err := cfg.Vectorize()
	if err != nil {
		logging.Logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := vectorize.Convert(vc); err != nil {
		logging.Logger.Fatal("conversion failed", zap.Error(err))
	}
	fmt.Println("Conversion successful.")
}

func serve(args []string) {
	cfg := load("serve", args)
	defer logging.Sync()

	defaults, err := cfg.Vectorize()
	if err != nil {
		logging.Logger.Fatal("invalid configuration", zap.Error(err))
	}

	logging.Logger.Debug("starting server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	srv := server.NewWithConfig(defaults)
	if err := srv.Run(); err != nil {
		logging.Logger.Fatal("server error", zap.Error(err))
	}
}

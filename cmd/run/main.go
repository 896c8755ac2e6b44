package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/gamebind/abi"
	"github.com/wippyai/gamebind/boundary"
	"github.com/wippyai/gamebind/dylib"
	"github.com/wippyai/gamebind/examples/tanks"
	"github.com/wippyai/gamebind/hostsim"
	"github.com/wippyai/gamebind/inspect"
)

func main() {
	var (
		libFile     = flag.String("lib", "", "Path to a c-shared gameplay module (inspection only)")
		configFile  = flag.String("config", "", "Host simulator config (YAML)")
		frames      = flag.Int("frames", 0, "Frames to run (default from config)")
		list        = flag.Bool("list", false, "List module types and systems and exit")
		asYAML      = flag.Bool("yaml", false, "Print the module manifest as YAML and exit")
		profileMode = flag.String("profile", "", "Profile the run: cpu or mem")
		verbose     = flag.Bool("v", false, "Development logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	boundary.SetLogger(log.Named("boundary"))
	abi.SetLogger(log.Named("abi"))
	hostsim.SetLogger(log.Named("hostsim"))
	dylib.SetLogger(log.Named("dylib"))

	desc, closeDesc, err := openDescriptor(*libFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeDesc()

	man := inspect.Read(desc)

	switch {
	case *asYAML:
		out, err := man.YAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return

	case *list:
		fmt.Print(man.Render())
		return
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mod, ok := desc.(hostsim.Module)
	if !ok {
		fmt.Fprintln(os.Stderr, "Usage: run [-config host.yaml] [-frames n] [-i]")
		fmt.Fprintln(os.Stderr, "       run -lib <module.so> -list | -yaml")
		fmt.Fprintln(os.Stderr, "A c-shared module can be inspected but needs an engine to run.")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(mod, man, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown profile mode %q\n", *profileMode)
		os.Exit(1)
	}

	if err := run(mod, man, cfg, *frames); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// openDescriptor loads the c-shared module at path, or the bundled tanks
// module when path is empty.
func openDescriptor(path string) (abi.Descriptor, func(), error) {
	if path != "" {
		lib, err := dylib.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return lib, func() { _ = lib.Close() }, nil
	}
	model, err := tanks.Model()
	if err != nil {
		return nil, nil, err
	}
	return abi.New(model), func() {}, nil
}

func loadConfig(path string) (hostsim.Config, error) {
	if path == "" {
		return hostsim.DefaultConfig(), nil
	}
	return hostsim.LoadConfig(path)
}

func run(mod hostsim.Module, man *inspect.Manifest, cfg hostsim.Config, frames int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Module: %d types, %d systems, fingerprint %s\n", len(man.Types), len(man.Systems), man.Fingerprint)

	h, err := hostsim.New(mod, cfg)
	if err != nil {
		return fmt.Errorf("load module: %w", err)
	}
	if err := h.Run(ctx, frames); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	fmt.Printf("Frames: %d\n", h.Frame())
	fmt.Printf("Entities: %d\n", len(h.Entities()))

	failures := h.Failures()
	if len(failures) == 0 {
		return nil
	}
	names := make([]string, 0, len(failures))
	for name := range failures {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("\nFailed systems:\n")
	for _, name := range names {
		fmt.Printf("  %s: %d frames\n", name, failures[name])
	}
	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kwv/vacmap/vacmap"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	mapDir     = flag.String("map-dir", ".", "Directory containing the raw map dump and JSON metadata")
	outputFile = flag.String("output", "map.png", "Output PNG path (base64 sidecar is derived from it)")
	configFile = flag.String("config", "", "Path to render configuration YAML (optional)")
	upscale    = flag.Int("upscale", 0, "Override output upscale factor (0 = use config)")
	svgOutput  = flag.Bool("svg", false, "Also write a vector SVG next to the PNG")
	timestamp  = flag.String("timestamp", "", "Caption timestamp (default: current time)")
	debugMode  = flag.Bool("debug", false, "Write intermediate debug images")
	probeOnly  = flag.Bool("probe-only", false, "Probe the dump's binary layout and exit")
)

func main() {
	flag.Parse()
	fmt.Printf("vacmap version: %s\n", Version)

	cfg := vacmap.DefaultRenderConfig()
	if *configFile != "" {
		var err error
		cfg, err = vacmap.LoadRenderConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *upscale > 0 {
		cfg.Upscale = *upscale
	}
	if *debugMode {
		cfg.Debug = true
	}

	ts := *timestamp
	if ts == "" {
		ts = time.Now().Format("2006-01-02 15:04:05")
	}

	app := NewApp(cfg)
	app.ApplyOptions(AppOptions{
		MapDir:     *mapDir,
		OutputFile: *outputFile,
		SVGOutput:  *svgOutput,
		Timestamp:  ts,
	})

	if *probeOnly {
		if err := app.RunProbeOnly(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

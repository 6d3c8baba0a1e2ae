package main

import (
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kwv/vacmap/vacmap"
)

// Input file names expected under the map directory.
const (
	gridFileName    = "map_record.map"
	infoFileName    = "map_record.json"
	chargerFileName = "charger_pose.json"
	areaFileName    = "area_info.json"
	segmentFileName = "map.segmentmap"
)

// App encapsulates the application state and dependencies
type App struct {
	Converter *vacmap.Converter

	// CLI Flags (effectively dependencies)
	MapDir     string
	OutputFile string
	SVGOutput  bool
	Timestamp  string
}

// AppOptions carries the CLI flag values into the App
type AppOptions struct {
	MapDir     string
	OutputFile string
	SVGOutput  bool
	Timestamp  string
}

// NewApp creates a new App instance
func NewApp(cfg vacmap.RenderConfig) *App {
	return &App{
		Converter: vacmap.NewConverter(cfg),
	}
}

// ApplyOptions applies CLI options to the App instance
func (a *App) ApplyOptions(opts AppOptions) {
	a.MapDir = opts.MapDir
	a.OutputFile = opts.OutputFile
	a.SVGOutput = opts.SVGOutput
	a.Timestamp = opts.Timestamp
}

// Run converts the map directory's contents and writes the PNG, its
// base64 sidecar, and optionally the SVG. Nothing is written when the
// conversion fails.
func (a *App) Run() error {
	in, err := a.loadInputs()
	if err != nil {
		return err
	}

	result, err := a.Converter.Convert(in)
	if err != nil {
		return fmt.Errorf("converting map: %w", err)
	}

	if err := os.WriteFile(a.OutputFile, result.PNG, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", a.OutputFile, err)
	}
	fmt.Printf("Created: %s\n", a.OutputFile)

	sidecar := vacmap.SidecarPath(a.OutputFile)
	if err := os.WriteFile(sidecar, []byte(result.Base64), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", sidecar, err)
	}
	fmt.Printf("Created: %s\n", sidecar)

	if a.SVGOutput {
		svgPath := strings.TrimSuffix(a.OutputFile, filepath.Ext(a.OutputFile)) + ".svg"
		f, err := os.Create(svgPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", svgPath, err)
		}
		err = vacmap.WriteFloorPlanSVG(f, result.Grid, result.Overlays, a.Converter.Config)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", svgPath, err)
		}
		fmt.Printf("Created: %s\n", svgPath)
	}

	for name, img := range result.Debug {
		debugPath := strings.TrimSuffix(a.OutputFile, filepath.Ext(a.OutputFile)) + "_" + name + ".png"
		f, err := os.Create(debugPath)
		if err != nil {
			log.Printf("Warning: creating debug image %s: %v", debugPath, err)
			continue
		}
		if err := png.Encode(f, img); err != nil {
			log.Printf("Warning: encoding debug image %s: %v", debugPath, err)
		}
		if err := f.Close(); err != nil {
			log.Printf("Warning: closing debug image %s: %v", debugPath, err)
		}
		fmt.Printf("Created: %s\n", debugPath)
	}

	fmt.Printf("Rooms: %d\n", len(result.Regions))
	return nil
}

// RunProbeOnly reports the detected binary layout of the map dump
// without rendering anything.
func (a *App) RunProbeOnly() error {
	gridData, err := os.ReadFile(filepath.Join(a.MapDir, gridFileName))
	if err != nil {
		return fmt.Errorf("reading map dump: %w", err)
	}
	infoData, err := os.ReadFile(filepath.Join(a.MapDir, infoFileName))
	if err != nil {
		return fmt.Errorf("reading map metadata: %w", err)
	}
	info, err := vacmap.ParseMapInfo(infoData)
	if err != nil {
		return err
	}

	fmt.Printf("Map: %dx%d, resolution %.3f m/cell\n", info.Width, info.Height, info.Resolution)
	fmt.Printf("Dump: %d bytes (%d cells)\n", len(gridData), info.Width*info.Height)

	res, err := vacmap.ProbeFormat(gridData, info.Width, info.Height, vacmap.ProbeOptions{})
	if err != nil {
		return fmt.Errorf("probing layout: %w", err)
	}
	fmt.Printf("Detected layout: header offset %d, element type %s\n", res.Offset, res.Elem.Name)
	return nil
}

// loadInputs reads the map directory. The dump and its metadata are
// required; the charger pose, area document and segment channel are
// optional and simply skipped when absent.
func (a *App) loadInputs() (vacmap.ConvertInput, error) {
	in := vacmap.ConvertInput{Timestamp: a.Timestamp}

	gridData, err := os.ReadFile(filepath.Join(a.MapDir, gridFileName))
	if err != nil {
		return in, fmt.Errorf("reading map dump: %w", err)
	}
	in.GridData = gridData

	infoData, err := os.ReadFile(filepath.Join(a.MapDir, infoFileName))
	if err != nil {
		return in, fmt.Errorf("reading map metadata: %w", err)
	}
	in.Info, err = vacmap.ParseMapInfo(infoData)
	if err != nil {
		return in, err
	}

	if data, err := os.ReadFile(filepath.Join(a.MapDir, chargerFileName)); err == nil {
		charger, err := vacmap.ParseChargerPose(data)
		if err != nil {
			return in, err
		}
		in.Charger = &charger
	}

	if data, err := os.ReadFile(filepath.Join(a.MapDir, areaFileName)); err == nil {
		in.Areas, err = vacmap.ParseAreaInfo(data)
		if err != nil {
			return in, err
		}
	}

	if data, err := os.ReadFile(filepath.Join(a.MapDir, segmentFileName)); err == nil {
		in.SegmentData = data
	}

	return in, nil
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"eqlayer/internal/models"
	"eqlayer/pkg/config"
	"eqlayer/pkg/eql"
	"eqlayer/pkg/gridder"
	"eqlayer/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputFile := flag.String("input", "", "CSV file with scattered observations (easting,northing,vertical,value[,weight])")
	outputFile := flag.String("output", "grid.csv", "Output CSV filename for the evaluated grid")
	configFile := flag.String("config", "", "Optional YAML configuration file")
	damping := flag.Float64("damping", 0.0, "Tikhonov regularization parameter (0 = none)")
	depthFactor := flag.Float64("depth-factor", 3.0, "Depth factor for default point-source placement")
	spacing := flag.Float64("spacing", 1.0, "Grid node spacing in coordinate units")
	height := flag.Float64("height", 0.0, "Constant vertical coordinate of the grid nodes")
	numCores := flag.Int("cores", runtime.NumCPU(), "Number of CPU cores to use (default: all available)")
	plotFile := flag.String("plot", "", "Optional PNG filename for a heatmap of the grid")
	flag.Parse()

	// Validate inputs
	if *inputFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration as the baseline, then let explicit flags override
	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["damping"] {
		cfg.Fit.Damping = *damping
	}
	if set["depth-factor"] {
		cfg.Fit.DepthFactor = *depthFactor
	}
	if set["spacing"] {
		cfg.Grid.Spacing = *spacing
	}
	if set["height"] {
		cfg.Grid.Height = *height
	}
	if set["cores"] {
		cfg.Processing.NumCores = *numCores
	}
	if set["plot"] {
		cfg.Output.PlotFile = *plotFile
	}

	fmt.Println("================================")
	fmt.Println("EQUIVALENT-LAYER GRIDDING OF HARMONIC POTENTIAL FIELDS")
	fmt.Println("================================")

	// Load the scattered observations
	scatter, err := models.LoadScatterCSV(*inputFile)
	if err != nil {
		log.Fatalf("Failed to load observations: %v", err)
	}
	fmt.Printf("Loaded %d observations from %s\n", scatter.Len(), *inputFile)

	// Fit the equivalent layer
	g := gridder.New(eql.Model{
		Damping:     cfg.Fit.Damping,
		DepthFactor: cfg.Fit.DepthFactor,
		Workers:     cfg.Processing.NumCores,
	})

	fmt.Printf("Fitting equivalent layer (damping=%g, depth factor=%g, %d cores)...\n",
		cfg.Fit.Damping, cfg.Fit.DepthFactor, cfg.Processing.NumCores)
	startTime := time.Now()
	if err := g.Fit(scatter.Coordinates, scatter.Values, scatter.Weights); err != nil {
		log.Fatalf("Fit failed: %v", err)
	}
	fitTime := time.Since(startTime)

	diag, err := g.Score(scatter.Coordinates, scatter.Values)
	if err != nil {
		log.Fatalf("Scoring failed: %v", err)
	}
	fmt.Printf("\nFit completed in %.2f seconds\n", fitTime.Seconds())
	fmt.Printf("Training reproduction RMSE: %.6g\n", diag.RMSE)
	fmt.Printf("Training reproduction R²: %.6f\n", diag.R2)

	// Evaluate the fitted layer over a regular grid
	fmt.Printf("\nEvaluating grid (spacing=%g, height=%g)...\n", cfg.Grid.Spacing, cfg.Grid.Height)
	startTime = time.Now()
	grid, err := g.Grid(gridder.GridSpec{Spacing: cfg.Grid.Spacing, Height: cfg.Grid.Height})
	if err != nil {
		log.Fatalf("Grid evaluation failed: %v", err)
	}
	gridTime := time.Since(startTime)
	fmt.Printf("Evaluated %d x %d grid in %.2f seconds\n",
		len(grid.Easting), len(grid.Northing), gridTime.Seconds())

	if err := models.SaveGridCSV(*outputFile, grid); err != nil {
		log.Fatalf("Failed to write grid: %v", err)
	}
	fmt.Printf("Grid saved to: %s\n", *outputFile)

	if cfg.Output.PlotFile != "" {
		if err := visualization.SaveHeatmap(grid, "Equivalent-layer prediction", cfg.Output.PlotFile); err != nil {
			log.Fatalf("Failed to render heatmap: %v", err)
		}
		fmt.Printf("Heatmap saved to: %s\n", cfg.Output.PlotFile)
	}
}

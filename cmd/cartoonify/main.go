// Command cartoonify converts photos into cartoon-style images.
//
// Run with no arguments to see the usage message.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	cartoonify "github.com/lucasjli/turning-photos-into-cartoons"
)

func usage() {
	fmt.Println("Arguments: [-g] [-d] [-e EdgeThreshold] [-c NumColours] photo1.jpg photo2.jpg ...")
	fmt.Println("  -g use the GPU, to speed up photo processing.")
	fmt.Println("  -d means turn on debugging, which saves intermediate photos.")
	fmt.Println("  -e EdgeThreshold values can range from 0 (everything is an edge) up to about 1000 or more.")
	fmt.Println("  -c NumColours is the number of discrete values within each colour channel (2..256).")
}

func main() {
	var (
		useGPU        = flag.Bool("g", false, "use the GPU accelerator")
		debug         = flag.Bool("d", false, "save intermediate photos and log diagnostics")
		edgeThreshold = flag.Int("e", cartoonify.DefaultEdgeThreshold, "edge detection threshold")
		numColours    = flag.Int("c", cartoonify.DefaultNumColours, "discrete values per colour channel")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	cfg := cartoonify.NewConfig()
	cfg.UseAccelerator = *useGPU
	cfg.Debug = *debug
	if err := cfg.SetEdgeThreshold(int32(*edgeThreshold)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.SetNumColours(int32(*numColours)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "e":
			fmt.Println("Using edge threshold", cfg.EdgeThreshold)
		case "c":
			fmt.Printf("Using %d discrete colours per channel.\n", cfg.NumColours)
		}
	})

	if cfg.Debug {
		cartoonify.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	p := cartoonify.NewPipeline(cfg)

	var totalSecs float64
	done := 0
	for _, path := range flag.Args() {
		result, err := p.ProcessPhoto(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if result.Skipped {
			fmt.Fprintln(os.Stderr, "Skipping unknown kind of file:", path)
			continue
		}
		secs := result.Elapsed.Seconds()
		fmt.Printf("Done %s -> %s in %v secs.\n", path, result.OutputPath, secs)
		totalSecs += secs
		done++
	}

	if done == 0 {
		fmt.Fprintln(os.Stderr, "No photos were processed.")
		os.Exit(1)
	}
	fmt.Printf("Average processing time is %.3f for %d photos.\n", totalSecs/float64(done), done)
}

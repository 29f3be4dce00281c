// Command gpuscale rescales a PNG image on the GPU, falling back to the CPU
// when no capable device is available.
package main

import (
	"errors"
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/gpuscale"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred teardown of the GPU
// environment and device happens on every path.
func run(args []string) int {
	fs := flag.NewFlagSet("gpuscale", flag.ContinueOnError)
	var (
		input   = fs.String("in", "", "input PNG file")
		output  = fs.String("out", "scaled.png", "output PNG file")
		width   = fs.Int("w", 0, "output width")
		height  = fs.Int("h", 0, "output height")
		mode    = fs.String("mode", "bicubic", "interpolation: bilinear, bicubic or cosine")
		backend = fs.String("backend", "", "HAL backend (default: $GPUSCALE_BACKEND or best available)")
		cpu     = fs.Bool("cpu", false, "force the CPU path")
		verbose = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *input == "" || *width <= 0 || *height <= 0 {
		fs.Usage()
		return 2
	}

	cfg := gpuscale.ConfigFromEnv()
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if cfg.Logger != nil {
		gpuscale.SetLogger(cfg.Logger)
	}

	interp, err := gpuscale.ParseInterpolation(*mode)
	if err != nil {
		log.Printf("Invalid mode: %v", err)
		return 2
	}
	src, err := readPNG(*input)
	if err != nil {
		log.Printf("Failed to read input: %v", err)
		return 1
	}

	var env *gpuscale.Environment
	if !*cpu {
		ctx, err := gpuscale.OpenContext(cfg)
		if err != nil {
			log.Printf("GPU unavailable, using CPU: %v", err)
		} else {
			defer ctx.Close()
			reg := gpuscale.NewRegistry(nil)
			defer reg.Close()
			env, err = reg.GetOrCreate(&gpuscale.Profile{Description: "cli"}, ctx, gpuscale.WithConfig(cfg))
			switch {
			case errors.Is(err, gpuscale.ErrUnsupported):
				log.Printf("GPU lacks required capabilities, using CPU")
			case err != nil:
				log.Printf("Failed to create GPU environment, using CPU: %v", err)
			}
		}
	}

	dst, err := gpuscale.RescaleImage(env, src, *width, *height, interp)
	if err != nil && env != nil {
		log.Printf("GPU rescale failed, retrying on CPU: %v", err)
		dst, err = gpuscale.RescaleImage(nil, src, *width, *height, interp)
	}
	if err != nil {
		log.Printf("Rescale failed: %v", err)
		return 1
	}
	if err := writePNG(*output, dst); err != nil {
		log.Printf("Failed to save: %v", err)
		return 1
	}
	log.Printf("Rescaled %s (%dx%d) to %s (%dx%d, %s)\n",
		*input, src.Bounds().Dx(), src.Bounds().Dy(), *output, *width, *height, interp)
	return 0
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

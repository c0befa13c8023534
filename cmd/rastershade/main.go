// Command rastershade renders a synthetic elevation model to an image.
//
// Usage:
//
//	rastershade -rows 512 -cols 768 -output dem.png
//	rastershade -config layer.yaml -format tiff -scale 0.5 -output dem.tiff
//	rastershade -config layer.toml -watch
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/rastershade"
	"github.com/gogpu/rastershade/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "symbology file (.yaml, .yml or .toml)")
		rows       = flag.Int("rows", 400, "raster rows")
		cols       = flag.Int("cols", 600, "raster columns")
		output     = flag.String("output", "relief.png", "output file")
		format     = flag.String("format", "png", "output format: png or tiff")
		scale      = flag.Float64("scale", 1, "output scale factor")
		workers    = flag.Int("workers", 0, "row workers (0 = GOMAXPROCS)")
		lang       = flag.String("lang", "en", "language for the summary")
		watch      = flag.Bool("watch", false, "re-render when the -config file changes")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		rastershade.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *rows < 1 || *cols < 1 {
		log.Fatalf("invalid raster size %dx%d", *cols, *rows)
	}
	if !(*scale > 0) {
		log.Fatalf("invalid scale %v", *scale)
	}
	if *format != "png" && *format != "tiff" {
		log.Fatalf("unknown format %q", *format)
	}
	if *watch && *configPath == "" {
		log.Fatal("-watch needs -config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := rastershade.NewRenderer(rastershade.WithWorkers(*workers))
	defer r.Close()

	j := &job{
		renderer:   r,
		dem:        syntheticDEM(*rows, *cols),
		configPath: *configPath,
		output:     *output,
		format:     *format,
		scale:      *scale,
		printer:    message.NewPrinter(language.Make(*lang)),
		shades:     rastershade.NewShadeCache(0),
	}
	if err := j.run(ctx); err != nil {
		log.Fatal(err)
	}
	if *watch {
		if err := watchConfig(ctx, *configPath, j.run); err != nil {
			log.Fatal(err)
		}
	}
}

// job renders the DEM with the current symbology and writes the image.
type job struct {
	renderer   *rastershade.Renderer
	dem        *rastershade.Grid[float32]
	configPath string
	output     string
	format     string
	scale      float64
	printer    *message.Printer

	// shades outlives symbology reloads; grids are keyed by relief
	// parameters, so color-only edits reuse them.
	shades *rastershade.ShadeCache
}

func (j *job) run(ctx context.Context) error {
	sym, err := symbolizer(j.configPath, j.dem.Affine())
	if err != nil {
		return err
	}
	sym.Shades = j.shades

	buf := rastershade.NewPixelBufferStride(j.dem.Cols(), j.dem.Rows(), 16)
	start := time.Now()
	res, err := j.renderer.Render(ctx, j.dem, sym, buf)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if !res.Completed {
		log.Printf("render incomplete after %d rows: %v", res.RowsWritten, res.Cause)
	}
	elapsed := time.Since(start)

	var img image.Image = buf.ToNRGBA()
	if j.scale != 1 {
		img = scaleImage(img, j.scale)
	}
	if err := writeImage(j.output, j.format, img); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	cells := j.dem.Rows() * j.dem.Cols()
	j.printer.Printf("rendered %d cells in %v (relief %v, smoothed %v)\n",
		cells, elapsed.Round(time.Millisecond), res.Shaded, res.Smoothed)
	j.printer.Printf("wrote %s (%dx%d)\n", j.output, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// symbolizer loads the symbology file, or returns the built-in elevation
// scheme when path is empty.
func symbolizer(path string, aff rastershade.Affine) (*rastershade.Symbolizer, error) {
	if path != "" {
		f, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		return f.Symbolizer(aff)
	}

	sym, err := rastershade.NewSymbolizer(elevationRanges())
	if err != nil {
		return nil, err
	}
	sym.NoDataColor = rastershade.Hex("#4a90c2")
	sym.Relief.Used = true
	sym.Relief.Extrusion = 2
	sym.Relief.LightDirection = rastershade.LightForAffine(315, 45, aff)
	sym.Smooth = true
	return sym, nil
}

// elevationRanges is a hypsometric tint from lowland green to snow.
func elevationRanges() []rastershade.Range {
	grad := func(lo, hi float64, low, high string) rastershade.Range {
		return rastershade.NewRange(lo, hi, rastershade.Gradient{
			Low:  rastershade.Hex(low),
			High: rastershade.Hex(high),
		})
	}
	snow := rastershade.Range{
		Min:          rastershade.At(1800),
		Max:          rastershade.Unbounded,
		MinInclusive: true,
		Fill:         rastershade.Flat{Color: rastershade.Hex("#f4f4f4")},
	}
	return []rastershade.Range{
		grad(0, 300, "#3a7d44", "#8fbf5a"),
		grad(300, 900, "#8fbf5a", "#d9c77e"),
		grad(900, 1800, "#d9c77e", "#8c6d4f"),
		snow,
	}
}

func scaleImage(src image.Image, factor float64) image.Image {
	b := src.Bounds()
	w := max(int(float64(b.Dx())*factor+0.5), 1)
	h := max(int(float64(b.Dy())*factor+0.5), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func writeImage(path, format string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	switch format {
	case "tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case "png":
		return png.Encode(f, img)
	}
	return fmt.Errorf("unknown format %q", format)
}

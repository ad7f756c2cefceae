package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pixeldyne/pixelart/internal/pixelart"
)

// Version is set by ldflags during build.
var Version = "dev"

var (
	flagPixelSize     int
	flagPalette       string
	flagColors        int
	flagDither        bool
	flagMethod        string
	flagSampling      string
	flagSmooth        float64
	flagGrid          bool
	flagGridColor     string
	flagGridThickness int
	flagContrast      float64
	flagBrightness    float64
	flagWidth         int
	flagHeight        int
	flagFormat        string
	flagOutput        string
)

var rootCmd = &cobra.Command{
	Use:     "pixelart",
	Short:   "Convert images to pixel art",
	Version: Version,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert an image file to pixel art",
	Long: `Convert an image file to pixel art.

By default every pixel of the reduced image is matched against the
"retro" palette. Pass --palette original to keep the source colors, or
combine --palette original with --colors N for adaptive quantization.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}

		gridColor, err := pixelart.ParseHexColor(flagGridColor)
		if err != nil {
			log.Printf("warning: %v, using default grid color", err)
			gridColor = pixelart.Color{R: 30, G: 30, B: 30}
		}

		opts := pixelart.Options{
			PixelSize:     flagPixelSize,
			Palette:       flagPalette,
			ColorCount:    flagColors,
			Dither:        flagDither,
			Method:        pixelart.ParseAdaptiveMethod(flagMethod),
			Sampling:      pixelart.ParseSampling(flagSampling),
			SmoothRadius:  flagSmooth,
			Grid:          flagGrid,
			GridColor:     gridColor,
			GridThickness: flagGridThickness,
			Contrast:      flagContrast,
			Brightness:    flagBrightness,
			OutputWidth:   flagWidth,
			OutputHeight:  flagHeight,
			Format:        flagFormat,
		}

		out, stats, err := pixelart.ConvertBytes(data, opts)
		if err != nil {
			return err
		}

		outPath := flagOutput
		if outPath == "" {
			outPath = derivedOutputPath(input, flagFormat)
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return err
		}

		fmt.Printf("%s -> %s\n", input, outPath)
		fmt.Printf("  %dx%d -> %dx%d blocks -> %dx%d (palette %s) in %s\n",
			stats.OriginalWidth, stats.OriginalHeight,
			stats.SmallWidth, stats.SmallHeight,
			stats.OutputWidth, stats.OutputHeight,
			stats.Palette, stats.ProcessingTime.Round(time.Millisecond))
		return nil
	},
}

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List the available palettes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range pixelart.Names() {
			if name == pixelart.PaletteOriginal {
				fmt.Printf("%-10s (no color restriction)\n", name)
				continue
			}
			p, err := pixelart.Lookup(name)
			if err != nil {
				continue
			}
			fmt.Printf("%-10s %d colors\n", name, len(p))
		}
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Print image metadata as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := pixelart.Info(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	},
}

// derivedOutputPath builds "<input>_pixel.<ext>" for the output format.
func derivedOutputPath(input, format string) string {
	ext := strings.ToLower(format)
	switch ext {
	case "", "png":
		ext = "png"
	case "jpeg":
		ext = "jpg"
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_pixel." + ext
}

func init() {
	convertCmd.Flags().IntVarP(&flagPixelSize, "pixel-size", "p", 8, "size of one pixel block (1-64)")
	convertCmd.Flags().StringVar(&flagPalette, "palette", pixelart.DefaultPalette, "palette name, or \"original\" for no restriction")
	convertCmd.Flags().IntVarP(&flagColors, "colors", "c", 0, "adaptive palette size 2-256, 0 disables (needs --palette original)")
	convertCmd.Flags().BoolVar(&flagDither, "dither", false, "diffuse quantization error (adaptive mode)")
	convertCmd.Flags().StringVar(&flagMethod, "method", "median", "adaptive palette method: median, kmeans, dominant")
	convertCmd.Flags().StringVar(&flagSampling, "sampling", "nearest", "downsampling filter: nearest, lanczos")
	convertCmd.Flags().Float64Var(&flagSmooth, "smooth", 0, "gaussian smoothing radius applied before pixelation")
	convertCmd.Flags().BoolVar(&flagGrid, "grid", false, "draw separator lines between blocks")
	convertCmd.Flags().StringVar(&flagGridColor, "grid-color", "#1E1E1E", "grid line color")
	convertCmd.Flags().IntVar(&flagGridThickness, "grid-thickness", 1, "grid line thickness in pixels")
	convertCmd.Flags().Float64Var(&flagContrast, "contrast", 1.0, "contrast factor, 1.0 = unchanged")
	convertCmd.Flags().Float64Var(&flagBrightness, "brightness", 1.0, "brightness factor, 1.0 = unchanged")
	convertCmd.Flags().IntVar(&flagWidth, "width", 0, "explicit output width (with --height)")
	convertCmd.Flags().IntVar(&flagHeight, "height", 0, "explicit output height (with --width)")
	convertCmd.Flags().StringVarP(&flagFormat, "format", "f", "png", "output format: png, jpeg, gif, bmp, webp")
	convertCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output path (default: <input>_pixel.<ext>)")

	rootCmd.AddCommand(convertCmd, palettesCmd, infoCmd)
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

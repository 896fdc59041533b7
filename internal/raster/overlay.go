package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/heatscape/heat-backend-go/internal/synth"
)

// UTCIBounds are the classification boundaries for physical-unit
// (UTCI-like) fields, eight bands over [0, 40].
var UTCIBounds = []float64{0, 10, 20, 25, 28, 31, 34, 37, 40}

// NormalizedBounds split the [0, 1] domain into eight equal bands
var NormalizedBounds = []float64{0, 0.125, 0.25, 0.375, 0.5, 0.625, 0.75, 0.875, 1}

// Overlay opacities for the two field flavors
const (
	RouteAlpha   = 0.65
	GenericAlpha = 0.75
)

// bandColors is a rainbow-style ramp, one color per classification
// band, cold blue through deep red.
var bandColors = [8]color.NRGBA{
	{0, 0, 131, 255},
	{0, 60, 255, 255},
	{0, 229, 255, 255},
	{41, 255, 205, 255},
	{153, 255, 102, 255},
	{255, 230, 0, 255},
	{255, 122, 0, 255},
	{200, 0, 0, 255},
}

// WriteOverlayPNG classifies the field into discrete bands and writes a
// semi-transparent RGBA overlay for map compositing. bounds must have
// exactly one more element than there are color bands.
func WriteOverlayPNG(path string, f *synth.Field, bounds []float64, alpha float64) error {
	if len(bounds) != len(bandColors)+1 {
		return fmt.Errorf("overlay: %d boundaries for %d bands", len(bounds), len(bandColors))
	}

	a := uint8(alpha*255 + 0.5)
	img := image.NewNRGBA(image.Rect(0, 0, f.Size, f.Size))
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			c := bandColors[bandIndex(float64(f.At(x, y)), bounds)]
			c.A = a
			img.SetNRGBA(x, y, c)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create overlay %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encode overlay %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close overlay %s: %w", path, err)
	}
	return nil
}

// bandIndex places v into its classification band; values below the
// first boundary clamp to band 0, values at or above the last boundary
// to the final band.
func bandIndex(v float64, bounds []float64) int {
	for i := 1; i < len(bounds)-1; i++ {
		if v < bounds[i] {
			return i - 1
		}
	}
	return len(bounds) - 2
}

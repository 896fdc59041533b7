// Package raster encodes heat fields as geo-referenced TIFFs and
// colorized PNG overlays. Write failures are fatal to the request and
// always propagate.
package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/heatscape/heat-backend-go/internal/models"
	"github.com/heatscape/heat-backend-go/internal/synth"
)

// Baseline TIFF tags
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagSampleFormat    = 339
)

// GeoTIFF tags
const (
	tagModelPixelScale = 33550
	tagModelTiepoint   = 33922
	tagGeoKeyDirectory = 34735
)

// TIFF field types
const (
	typeShort  = 3
	typeLong   = 4
	typeDouble = 12
)

// geoKeys declares a geographic WGS84 raster: GTModelType=Geographic,
// GTRasterType=PixelIsArea, GeographicType=EPSG 4326, angular unit
// degree. Header is version 1.1.0 with four keys.
var geoKeys = []uint16{
	1, 1, 0, 4,
	1024, 0, 1, 2,
	1025, 0, 1, 1,
	2048, 0, 1, 4326,
	2054, 0, 1, 9102,
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// WriteGeoTIFF writes the field as a single-strip, single-band float32
// little-endian TIFF with pixel-scale and tie-point georeferencing
// anchored at the box's top-left (north-west) corner.
func WriteGeoTIFF(path string, f *synth.Field, bbox models.BoundingBox) error {
	encoded, err := encodeGeoTIFF(f, bbox)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write geotiff %s: %w", path, err)
	}
	return nil
}

func encodeGeoTIFF(f *synth.Field, bbox models.BoundingBox) ([]byte, error) {
	if f.Size <= 0 || len(f.Values) != f.Size*f.Size {
		return nil, fmt.Errorf("geotiff: field has %d values for size %d", len(f.Values), f.Size)
	}

	w, h := f.Size, f.Size
	pixelBytes := w * h * 4

	pixelScale := []float64{
		(bbox.MaxLng - bbox.MinLng) / float64(w),
		(bbox.MaxLat - bbox.MinLat) / float64(h),
		0,
	}
	// raster (0,0) pinned to the box's top-left corner
	tiePoint := []float64{0, 0, 0, bbox.MinLng, bbox.MaxLat, 0}

	entries := []ifdEntry{
		{tagImageWidth, typeLong, 1, leUint32(uint32(w))},
		{tagImageLength, typeLong, 1, leUint32(uint32(h))},
		{tagBitsPerSample, typeShort, 1, leUint16(32)},
		{tagCompression, typeShort, 1, leUint16(1)}, // uncompressed
		{tagPhotometric, typeShort, 1, leUint16(1)}, // BlackIsZero
		{tagStripOffsets, typeLong, 1, nil},         // filled below
		{tagSamplesPerPixel, typeShort, 1, leUint16(1)},
		{tagRowsPerStrip, typeLong, 1, leUint32(uint32(h))},
		{tagStripByteCounts, typeLong, 1, leUint32(uint32(pixelBytes))},
		{tagSampleFormat, typeShort, 1, leUint16(3)}, // IEEE float
		{tagModelPixelScale, typeDouble, 3, leDoubles(pixelScale)},
		{tagModelTiepoint, typeDouble, 6, leDoubles(tiePoint)},
		{tagGeoKeyDirectory, typeShort, uint32(len(geoKeys)), leUint16s(geoKeys)},
	}

	const ifdOffset = 8
	ifdSize := 2 + len(entries)*12 + 4
	extraOffset := ifdOffset + ifdSize

	extraTotal := 0
	for _, e := range entries {
		if len(e.data) > 4 {
			extraTotal += len(e.data)
		}
	}
	dataOffset := extraOffset + extraTotal
	entries[5].data = leUint32(uint32(dataOffset))

	buf := bytes.NewBuffer(make([]byte, 0, dataOffset+pixelBytes))
	buf.WriteString("II")
	writeLE(buf, uint16(42))
	writeLE(buf, uint32(ifdOffset))

	writeLE(buf, uint16(len(entries)))
	extra := &bytes.Buffer{}
	next := extraOffset
	for _, e := range entries {
		writeLE(buf, e.tag)
		writeLE(buf, e.typ)
		writeLE(buf, e.count)
		if len(e.data) <= 4 {
			var inline [4]byte
			copy(inline[:], e.data)
			buf.Write(inline[:])
		} else {
			writeLE(buf, uint32(next))
			extra.Write(e.data)
			next += len(e.data)
		}
	}
	writeLE(buf, uint32(0)) // no further IFDs
	buf.Write(extra.Bytes())

	pixels := make([]byte, pixelBytes)
	for i, v := range f.Values {
		binary.LittleEndian.PutUint32(pixels[i*4:], math.Float32bits(v))
	}
	buf.Write(pixels)

	return buf.Bytes(), nil
}

func writeLE(buf *bytes.Buffer, v interface{}) {
	// bytes.Buffer writes cannot fail
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func leUint16(v uint16) []byte {
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, v)
	return out
}

func leUint32(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}

func leUint16s(vals []uint16) []byte {
	out := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}

func leDoubles(vals []float64) []byte {
	out := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

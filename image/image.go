// Package image wraps a raster with colour semantics: which band is alpha,
// whether colour bands are premultiplied by it, and which colour space the
// values live in. The convolve package uses this to normalise data around a
// filter; nothing here renders anything.
package image

import (
	"fmt"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/raster"
	"github.com/goraster/rasterkit/util"
)

type ColourSpace int32

const (
	SpaceSRGB ColourSpace = iota
	SpaceLinearRGB
	SpaceGray
)

func (c ColourSpace) String() string {
	switch c {
	case SpaceSRGB:
		return "sRGB"
	case SpaceLinearRGB:
		return "linear RGB"
	case SpaceGray:
		return "gray"
	}
	return "unknown"
}

// ColourInfo describes how a raster's bands are to be read as colour.
// NumComponents counts colour bands only; AlphaBand is -1 when there is no
// alpha band.
type ColourInfo struct {
	NumComponents int32
	AlphaBand     int32
	Premultiplied bool
	Space         ColourSpace
}

func (ci ColourInfo) HasAlpha() bool { return ci.AlphaBand >= 0 }

func (ci ColourInfo) totalBands() int32 {
	if ci.HasAlpha() {
		return ci.NumComponents + 1
	}
	return ci.NumComponents
}

// Image binds a raster to its colour description.
type Image struct {
	Raster *raster.Raster
	Info   ColourInfo
}

func New(r *raster.Raster, info ColourInfo) (*Image, error) {
	if r == nil {
		return nil, fmt.Errorf("nil raster: %w", rasterkit.ErrInvalidArgument)
	}
	if info.NumComponents <= 0 {
		return nil, fmt.Errorf("%d colour components: %w", info.NumComponents, rasterkit.ErrInvalidArgument)
	}
	if info.HasAlpha() && info.AlphaBand >= r.NumBands() {
		return nil, fmt.Errorf("alpha band %d out of range: %w", info.AlphaBand, rasterkit.ErrInvalidArgument)
	}
	if info.totalBands() != r.NumBands() {
		return nil, fmt.Errorf("%d colour bands described for a %d band raster: %w",
			info.totalBands(), r.NumBands(), rasterkit.ErrMismatchedBands)
	}
	return &Image{Raster: r, Info: info}, nil
}

func (im *Image) HasAlpha() bool { return im.Info.HasAlpha() }

// Clone deep-copies the image into fresh storage at origin (0, 0).
func (im *Image) Clone() (*Image, error) {
	r := im.Raster
	out, err := r.CompatibleRaster(r.Width(), r.Height())
	if err != nil {
		return nil, err
	}
	out.SetRect(-r.MinX(), -r.MinY(), r)
	return &Image{Raster: out, Info: im.Info}, nil
}

// ColourBands lists the raster band indices that hold colour, skipping the
// alpha band.
func (im *Image) ColourBands() []int32 {
	bands := make([]int32, 0, im.Info.NumComponents)
	for b := int32(0); b < im.Raster.NumBands(); b++ {
		if b != im.Info.AlphaBand {
			bands = append(bands, b)
		}
	}
	return bands
}

// Premultiply scales every colour sample by its pixel's alpha, in place.
// A no-op for images without alpha or already premultiplied.
func (im *Image) Premultiply() {
	if !im.HasAlpha() || im.Info.Premultiplied {
		return
	}
	r := im.Raster
	alphaMax := int64(1)<<uint(r.Layout().SampleSize(im.Info.AlphaBand)) - 1
	bands := im.ColourBands()

	for y := r.MinY(); y < r.MinY()+r.Height(); y++ {
		for x := r.MinX(); x < r.MinX()+r.Width(); x++ {
			a := int64(r.Sample(x, y, im.Info.AlphaBand))
			if a == alphaMax {
				continue
			}
			for _, b := range bands {
				v := int64(r.Sample(x, y, b))
				r.SetSample(x, y, b, int32((v*a+alphaMax/2)/alphaMax))
			}
		}
	}
	im.Info.Premultiplied = true
}

// Unpremultiply divides alpha back out of every colour sample, in place.
// Where alpha is zero the colour samples are forced to zero instead of
// producing a division artifact.
func (im *Image) Unpremultiply() {
	if !im.HasAlpha() || !im.Info.Premultiplied {
		return
	}
	r := im.Raster
	alphaMax := int64(1)<<uint(r.Layout().SampleSize(im.Info.AlphaBand)) - 1
	bands := im.ColourBands()

	for y := r.MinY(); y < r.MinY()+r.Height(); y++ {
		for x := r.MinX(); x < r.MinX()+r.Width(); x++ {
			a := int64(r.Sample(x, y, im.Info.AlphaBand))
			if a == alphaMax {
				continue
			}
			for _, b := range bands {
				if a == 0 {
					r.SetSample(x, y, b, 0)
					continue
				}
				maxV := int64(1)<<uint(r.Layout().SampleSize(b)) - 1
				v := int64(r.Sample(x, y, b))
				r.SetSample(x, y, b, int32(util.Clamp((v*alphaMax+a/2)/a, 0, maxV)))
			}
		}
	}
	im.Info.Premultiplied = false
}

package image

import (
	"fmt"
	goimage "image"
	gocolor "image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/options"
)

// Converter is the colour conversion boundary. The convolve package invokes
// it as a single Convert call when source and destination images disagree on
// colour space; the output lands directly in dst's raster.
type Converter interface {
	Convert(src *Image, dst *Image, hints options.Hints) error
}

// DrawConverter converts by bridging both sides to standard library images
// and drawing across colour models with x/image/draw. sRGB/linear gamma is
// applied with a lookup table before or after the draw. It only handles
// 8 bit samples; anything else is declined with a format error.
type DrawConverter struct{}

func (DrawConverter) Convert(src *Image, dst *Image, hints options.Hints) error {
	if src == nil || dst == nil {
		return fmt.Errorf("nil image: %w", rasterkit.ErrInvalidArgument)
	}
	if src.Raster.Width() != dst.Raster.Width() || src.Raster.Height() != dst.Raster.Height() {
		return fmt.Errorf("conversion extents differ: %w", rasterkit.ErrFormat)
	}

	work := src
	// linear source data is encoded to sRGB before the colour model draw
	if src.Info.Space == SpaceLinearRGB {
		cloned, err := src.Clone()
		if err != nil {
			return err
		}
		applyGamma(cloned, linearToSRGBTable())
		cloned.Info.Space = SpaceSRGB
		work = cloned
	}

	goSrc, err := work.ToGoImage()
	if err != nil {
		return err
	}

	bounds := goimage.Rect(0, 0, int(dst.Raster.Width()), int(dst.Raster.Height()))
	var goDst xdraw.Image
	if dst.Info.Space == SpaceGray {
		goDst = goimage.NewGray(bounds)
	} else {
		goDst = goimage.NewNRGBA(bounds)
	}

	if hints.String(options.KeyColourConversion) == options.ConversionQuality {
		xdraw.CatmullRom.Scale(goDst, bounds, goSrc, goSrc.Bounds(), xdraw.Src, nil)
	} else {
		xdraw.Draw(goDst, bounds, goSrc, goSrc.Bounds().Min, xdraw.Src)
	}

	if err := dst.SetFromGoImage(goDst); err != nil {
		return err
	}
	if dst.Info.Space == SpaceLinearRGB {
		applyGamma(dst, srgbToLinearTable())
	}
	return nil
}

func (im *Image) checkByteSamples() error {
	l := im.Raster.Layout()
	for b := int32(0); b < im.Raster.NumBands(); b++ {
		if l.SampleSize(b) != 8 {
			return fmt.Errorf("band %d is %d bits, bridge needs 8: %w", b, l.SampleSize(b), rasterkit.ErrFormat)
		}
	}
	return nil
}

// ToGoImage renders the image into a standard library NRGBA or Gray image.
// Premultiplied sources are divided out first (on a copy), since NRGBA
// carries straight alpha.
func (im *Image) ToGoImage() (goimage.Image, error) {
	if err := im.checkByteSamples(); err != nil {
		return nil, err
	}
	work := im
	if im.HasAlpha() && im.Info.Premultiplied {
		cloned, err := im.Clone()
		if err != nil {
			return nil, err
		}
		cloned.Unpremultiply()
		work = cloned
	}

	r := work.Raster
	w, h := int(r.Width()), int(r.Height())

	if work.Info.NumComponents == 1 && !work.HasAlpha() {
		out := goimage.NewGray(goimage.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*out.Stride+x] = uint8(r.Sample(r.MinX()+int32(x), r.MinY()+int32(y), 0))
			}
		}
		return out, nil
	}
	if work.Info.NumComponents != 3 {
		return nil, fmt.Errorf("%d colour components, bridge handles 1 or 3: %w", work.Info.NumComponents, rasterkit.ErrFormat)
	}

	bands := work.ColourBands()
	out := goimage.NewNRGBA(goimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx, gy := r.MinX()+int32(x), r.MinY()+int32(y)
			off := y*out.Stride + x*4
			out.Pix[off+0] = uint8(r.Sample(gx, gy, bands[0]))
			out.Pix[off+1] = uint8(r.Sample(gx, gy, bands[1]))
			out.Pix[off+2] = uint8(r.Sample(gx, gy, bands[2]))
			if work.HasAlpha() {
				out.Pix[off+3] = uint8(r.Sample(gx, gy, work.Info.AlphaBand))
			} else {
				out.Pix[off+3] = 0xFF
			}
		}
	}
	return out, nil
}

// SetFromGoImage fills the image's raster from a standard library image of
// the same extent. Samples land straight (non-premultiplied); the image's
// premultiplied flag is reset accordingly.
func (im *Image) SetFromGoImage(src goimage.Image) error {
	if err := im.checkByteSamples(); err != nil {
		return err
	}
	r := im.Raster
	sb := src.Bounds()
	if sb.Dx() != int(r.Width()) || sb.Dy() != int(r.Height()) {
		return fmt.Errorf("source image is %dx%d, raster is %dx%d: %w",
			sb.Dx(), sb.Dy(), r.Width(), r.Height(), rasterkit.ErrFormat)
	}

	gray := im.Info.NumComponents == 1
	bands := im.ColourBands()
	for y := 0; y < sb.Dy(); y++ {
		for x := 0; x < sb.Dx(); x++ {
			gx, gy := r.MinX()+int32(x), r.MinY()+int32(y)
			c := src.At(sb.Min.X+x, sb.Min.Y+y)
			if gray {
				g := gocolor.GrayModel.Convert(c).(gocolor.Gray)
				r.SetSample(gx, gy, bands[0], int32(g.Y))
			} else {
				n := gocolor.NRGBAModel.Convert(c).(gocolor.NRGBA)
				r.SetSample(gx, gy, bands[0], int32(n.R))
				r.SetSample(gx, gy, bands[1], int32(n.G))
				r.SetSample(gx, gy, bands[2], int32(n.B))
				if im.HasAlpha() {
					r.SetSample(gx, gy, im.Info.AlphaBand, int32(n.A))
				}
			}
		}
	}
	im.Info.Premultiplied = false
	return nil
}

// applyGamma runs every colour sample (not alpha) through an 8 bit table.
func applyGamma(im *Image, table *[256]uint8) {
	r := im.Raster
	bands := im.ColourBands()
	for y := r.MinY(); y < r.MinY()+r.Height(); y++ {
		for x := r.MinX(); x < r.MinX()+r.Width(); x++ {
			for _, b := range bands {
				r.SetSample(x, y, b, int32(table[r.Sample(x, y, b)&0xFF]))
			}
		}
	}
}

var (
	srgbToLinear = makeGammaTable(func(c float64) float64 {
		if c <= 0.04045 {
			return c / 12.92
		}
		return math.Pow((c+0.055)/1.055, 2.4)
	})
	linearToSRGB = makeGammaTable(func(c float64) float64 {
		if c <= 0.0031308 {
			return c * 12.92
		}
		return 1.055*math.Pow(c, 1.0/2.4) - 0.055
	})
)

func srgbToLinearTable() *[256]uint8 { return srgbToLinear }
func linearToSRGBTable() *[256]uint8 { return linearToSRGB }

func makeGammaTable(f func(float64) float64) *[256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = uint8(f(float64(i)/255.0)*255.0 + 0.5)
	}
	return &t
}

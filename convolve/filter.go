// Package convolve filters rasters with 2D kernels. A Filter owns a kernel,
// an edge policy and a chain of backends; backends compute the interior
// (where the kernel footprint fits entirely inside the source) and the
// filter finishes the border ring itself. The scalar backend is the
// reference; the vector backend must match it sample for sample.
package convolve

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/image"
	"github.com/goraster/rasterkit/options"
	"github.com/goraster/rasterkit/raster"
	"github.com/goraster/rasterkit/util"
)

// EdgeMode selects what happens to the border ring the kernel cannot cover.
type EdgeMode int32

const (
	// EdgeZeroFill writes zeros into the border ring.
	EdgeZeroFill EdgeMode = iota
	// EdgeNoOp copies the source pixels into the border ring unchanged.
	EdgeNoOp
)

func (m EdgeMode) String() string {
	switch m {
	case EdgeZeroFill:
		return "zero-fill"
	case EdgeNoOp:
		return "no-op"
	}
	return "unknown"
}

// ErrUnsupported is returned by a backend that cannot take a job; the filter
// moves on to the next backend in the chain.
var ErrUnsupported = errors.New("backend does not support this job")

// Job is one convolution handed to a backend: compute the interior of Dst
// from Src with Kernel. The border ring is not the backend's problem.
type Job struct {
	Kernel *Kernel
	Edge   EdgeMode
	Src    *raster.Raster
	Dst    *raster.Raster
}

// Backend computes a convolution interior. Returning ErrUnsupported (wrapped
// or not) declines the job without failing the filter.
type Backend interface {
	Name() string
	Convolve(job *Job) error
}

// Filter applies one kernel with one edge policy. It is immutable and safe
// for concurrent use as long as the backends are.
type Filter struct {
	kernel    *Kernel
	edge      EdgeMode
	hints     options.Hints
	backends  []Backend
	converter image.Converter
}

// New builds a filter over the default backend chain (vector first, scalar
// fallback). A nil hints bag is fine.
func New(kernel *Kernel, edge EdgeMode, hints options.Hints) (*Filter, error) {
	return NewWithBackends(kernel, edge, hints, defaultBackends()...)
}

// NewWithBackends builds a filter over an explicit backend chain, tried in
// order. An empty chain is legal to construct; applying it fails.
func NewWithBackends(kernel *Kernel, edge EdgeMode, hints options.Hints, backends ...Backend) (*Filter, error) {
	if kernel == nil {
		return nil, fmt.Errorf("nil kernel: %w", rasterkit.ErrInvalidArgument)
	}
	return &Filter{
		kernel:    kernel,
		edge:      edge,
		hints:     hints,
		backends:  backends,
		converter: image.DrawConverter{},
	}, nil
}

func (f *Filter) Kernel() *Kernel { return f.kernel }
func (f *Filter) Edge() EdgeMode  { return f.edge }

// CompatibleDestRaster allocates a zero-filled destination matching src's
// layout and extent, at origin (0, 0).
func (f *Filter) CompatibleDestRaster(src *raster.Raster) (*raster.Raster, error) {
	return src.CompatibleRaster(src.Width(), src.Height())
}

// CompatibleDestImage allocates a destination image matching src's raster
// and colour description.
func (f *Filter) CompatibleDestImage(src *image.Image) (*image.Image, error) {
	r, err := f.CompatibleDestRaster(src.Raster)
	if err != nil {
		return nil, err
	}
	return image.New(r, src.Info)
}

// FilterRaster convolves src into dst and returns dst. A nil dst is
// allocated via CompatibleDestRaster. In-place filtering is rejected: the
// kernel footprint reads neighbours the interior loop has already written.
// Corresponding pixels are matched by offset from each raster's own origin.
func (f *Filter) FilterRaster(src *raster.Raster, dst *raster.Raster) (*raster.Raster, error) {
	if src == nil {
		return nil, fmt.Errorf("nil source raster: %w", rasterkit.ErrInvalidArgument)
	}
	if src == dst {
		return nil, fmt.Errorf("in-place convolution: %w", rasterkit.ErrInvalidArgument)
	}
	if dst == nil {
		var err error
		dst, err = f.CompatibleDestRaster(src)
		if err != nil {
			return nil, err
		}
	}
	if src.NumBands() != dst.NumBands() {
		return nil, fmt.Errorf("source has %d bands, destination %d: %w",
			src.NumBands(), dst.NumBands(), rasterkit.ErrMismatchedBands)
	}
	if src.Width() != dst.Width() || src.Height() != dst.Height() {
		return nil, fmt.Errorf("source is %dx%d, destination %dx%d: %w",
			src.Width(), src.Height(), dst.Width(), dst.Height(), rasterkit.ErrFormat)
	}

	job := &Job{Kernel: f.kernel, Edge: f.edge, Src: src, Dst: dst}
	for _, b := range f.backends {
		err := b.Convolve(job)
		if err == nil {
			applyEdges(job)
			return dst, nil
		}
		if errors.Is(err, ErrUnsupported) {
			log.Debugf("convolve backend %s declined: %v", b.Name(), err)
			continue
		}
		log.Warnf("convolve backend %s failed: %v", b.Name(), err)
	}
	return nil, fmt.Errorf("no backend completed the convolution: %w", rasterkit.ErrOperationFailed)
}

// FilterImage convolves src into dst, honouring each side's alpha and colour
// conventions: a straight-alpha source is premultiplied before filtering so
// transparent pixels do not bleed colour, and the result is divided back out
// when the destination expects straight alpha. A colour space mismatch sends
// the filtered data through the filter's Converter. A nil dst gets a fresh
// image in src's own conventions.
func (f *Filter) FilterImage(src *image.Image, dst *image.Image) (*image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("nil source image: %w", rasterkit.ErrInvalidArgument)
	}
	if dst != nil && src.Raster == dst.Raster {
		return nil, fmt.Errorf("in-place convolution: %w", rasterkit.ErrInvalidArgument)
	}

	work := src
	if src.HasAlpha() && !src.Info.Premultiplied {
		cloned, err := src.Clone()
		if err != nil {
			return nil, err
		}
		cloned.Premultiply()
		work = cloned
	}

	interRaster, err := f.FilterRaster(work.Raster, nil)
	if err != nil {
		return nil, err
	}
	inter := &image.Image{Raster: interRaster, Info: work.Info}

	if dst == nil {
		if src.HasAlpha() && !src.Info.Premultiplied {
			inter.Unpremultiply()
		}
		return inter, nil
	}

	if dst.Raster.Width() != src.Raster.Width() || dst.Raster.Height() != src.Raster.Height() {
		return nil, fmt.Errorf("destination extent differs from source: %w", rasterkit.ErrFormat)
	}

	if dst.Info.Space != inter.Info.Space {
		// the converter resets the premultiplied flag, remember what the
		// caller's image expects
		wantPremultiplied := dst.HasAlpha() && dst.Info.Premultiplied
		if err := f.converter.Convert(inter, dst, f.hints); err != nil {
			return nil, err
		}
		if wantPremultiplied {
			dst.Premultiply()
		}
		return dst, nil
	}

	if err := copyToImage(inter, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// copyToImage moves inter's samples into dst band by band, converting
// between alpha conventions on the way.
func copyToImage(inter *image.Image, dst *image.Image) error {
	if inter.Info.NumComponents != dst.Info.NumComponents {
		return fmt.Errorf("source has %d colour components, destination %d: %w",
			inter.Info.NumComponents, dst.Info.NumComponents, rasterkit.ErrMismatchedBands)
	}

	wantPremultiplied := dst.HasAlpha() && dst.Info.Premultiplied
	if inter.HasAlpha() && inter.Info.Premultiplied && !wantPremultiplied {
		inter.Unpremultiply()
	}

	srcBands := inter.ColourBands()
	dstBands := dst.ColourBands()
	for i := range srcBands {
		copyBand(inter.Raster, dst.Raster, srcBands[i], dstBands[i])
	}

	if dst.HasAlpha() {
		if inter.HasAlpha() {
			copyBand(inter.Raster, dst.Raster, inter.Info.AlphaBand, dst.Info.AlphaBand)
		} else {
			bits := dst.Raster.Layout().SampleSize(dst.Info.AlphaBand)
			dst.Raster.Fill(dst.Info.AlphaBand, int32(int64(1)<<uint(bits)-1))
		}
	}
	dst.Info.Premultiplied = wantPremultiplied
	return nil
}

func copyBand(src *raster.Raster, dst *raster.Raster, srcBand int32, dstBand int32) {
	w := src.Width()
	row := make([]int32, w)
	for j := int32(0); j < src.Height(); j++ {
		src.Samples(src.MinX(), src.MinY()+j, w, 1, srcBand, row)
		dst.SetSamples(dst.MinX(), dst.MinY()+j, w, 1, dstBand, row)
	}
}

// applyEdges finishes the border ring after a backend has computed the
// interior. The ring is the top ky rows, the bottom kh-1-ky rows and the
// left/right columns the anchor cannot reach.
func applyEdges(job *Job) {
	k := job.Kernel
	w, h := job.Src.Width(), job.Src.Height()

	top := util.Min(k.yOrigin, h)
	bottom := util.Max(h-(k.height-1-k.yOrigin), top)
	left := util.Min(k.xOrigin, w)
	right := util.Max(w-(k.width-1-k.xOrigin), left)

	fillEdgeRect(job, 0, 0, w, top)
	fillEdgeRect(job, 0, bottom, w, h-bottom)
	fillEdgeRect(job, 0, top, left, bottom-top)
	fillEdgeRect(job, right, top, w-right, bottom-top)
}

// fillEdgeRect handles one border strip, given as offsets from the rasters'
// origins.
func fillEdgeRect(job *Job, x0 int32, y0 int32, w int32, h int32) {
	if w <= 0 || h <= 0 {
		return
	}
	src, dst := job.Src, job.Dst
	if job.Edge == EdgeNoOp {
		row := make([]int32, w)
		for b := int32(0); b < src.NumBands(); b++ {
			for j := int32(0); j < h; j++ {
				src.Samples(src.MinX()+x0, src.MinY()+y0+j, w, 1, b, row)
				dst.SetSamples(dst.MinX()+x0, dst.MinY()+y0+j, w, 1, b, row)
			}
		}
		return
	}
	zero := make([]int32, w)
	for b := int32(0); b < dst.NumBands(); b++ {
		for j := int32(0); j < h; j++ {
			dst.SetSamples(dst.MinX()+x0, dst.MinY()+y0+j, w, 1, b, zero)
		}
	}
}

// sampleLimit is the largest value a band of the given bit depth can hold,
// capped at what an int32 sample can carry.
func sampleLimit(bits int32) (float32, int32) {
	if bits >= 31 {
		return float32(math.MaxInt32), math.MaxInt32
	}
	limit := int32(int64(1)<<uint(bits) - 1)
	return float32(limit), limit
}

// clampRow clamps accumulated values to [0, limit] and truncates to int32.
// Both backends finish rows here so their results cannot diverge.
func clampRow(acc []float32, out []int32, limit float32, limitI int32) {
	for i, f := range acc {
		switch {
		case f <= 0:
			out[i] = 0
		case f >= limit:
			out[i] = limitI
		default:
			out[i] = int32(f)
		}
	}
}

var (
	defaultVectorOnce sync.Once
	defaultVector     *VectorBackend
)

// defaultBackends is the stock chain: shared vector backend first, a scalar
// backend as the terminator.
func defaultBackends() []Backend {
	defaultVectorOnce.Do(func() {
		defaultVector = NewVectorBackend(runtime.NumCPU())
	})
	return []Backend{defaultVector, NewScalarBackend()}
}

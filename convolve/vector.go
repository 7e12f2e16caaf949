package convolve

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"github.com/goraster/rasterkit/util"
)

// VectorBackend convolves with SIMD lanes, one output row per task on a
// worker pool. Each band is flattened to a float32 matrix once, then every
// kernel tap is a multiply-add swept across the row. The accumulate step is
// an unfused Mul then Add, never hwy.MulAdd: MulAdd fuses through float64
// and would round differently from the scalar reference.
type VectorBackend struct {
	pool *workerpool.Pool
}

// NewVectorBackend starts a backend with its own worker pool. Close releases
// the workers; the shared default backend is never closed.
func NewVectorBackend(workers int) *VectorBackend {
	return &VectorBackend{pool: workerpool.New(workers)}
}

func (v *VectorBackend) Close() {
	v.pool.Close()
}

func (v *VectorBackend) Name() string { return "vector" }

func (v *VectorBackend) Convolve(job *Job) error {
	k := job.Kernel
	src, dst := job.Src, job.Dst
	w, h := src.Width(), src.Height()

	iw := w - (k.width - 1)
	ih := h - (k.height - 1)
	if iw <= 0 || ih <= 0 {
		// leave degenerate interiors to the scalar backend
		return fmt.Errorf("%dx%d kernel covers the whole %dx%d raster: %w",
			k.width, k.height, w, h, ErrUnsupported)
	}

	flat := util.New2DMatrix[float32](h, w)
	out := util.New2DMatrix[float32](ih, iw)

	for b := int32(0); b < src.NumBands(); b++ {
		for y := int32(0); y < h; y++ {
			src.SamplesFloat32(src.MinX(), src.MinY()+y, w, 1, b, flat.GetRow(y))
		}

		limit, limitI := sampleLimit(dst.Layout().SampleSize(b))
		v.pool.ParallelFor(int(ih), func(start, end int) {
			intRow := make([]int32, iw)
			for y := start; y < end; y++ {
				acc := out.GetRow(int32(y))
				util.FillFloat32(acc, 0, iw, 0)
				for j := int32(0); j < k.height; j++ {
					srcRow := flat.GetRow(int32(y) + j)
					for i := int32(0); i < k.width; i++ {
						wv := hwy.Set(k.At(i, j))
						taps := srcRow[i : i+iw]
						hwy.ProcessWithTail[float32](int(iw),
							func(offset int) {
								s := hwy.Load(taps[offset:])
								a := hwy.Load(acc[offset:])
								hwy.Store(hwy.Add(hwy.Mul(wv, s), a), acc[offset:])
							},
							func(offset, count int) {
								m := hwy.TailMask[float32](count)
								s := hwy.MaskLoad(m, taps[offset:])
								a := hwy.MaskLoad(m, acc[offset:])
								hwy.MaskStore(m, hwy.Add(hwy.Mul(wv, s), a), acc[offset:])
							})
					}
				}
				clampRow(acc, intRow, limit, limitI)
				dst.SetSamples(dst.MinX()+k.xOrigin, dst.MinY()+k.yOrigin+int32(y), iw, 1, b, intRow)
			}
		})
	}
	return nil
}

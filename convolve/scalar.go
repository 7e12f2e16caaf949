package convolve

import (
	"github.com/goraster/rasterkit/util"
)

// ScalarBackend convolves one sample at a time. It accepts every job and is
// the conformance reference for the other backends: same tap order, same
// accumulate step, same clamp.
type ScalarBackend struct {
	pool *util.RowPool
}

func NewScalarBackend() *ScalarBackend {
	return &ScalarBackend{pool: util.NewRowPool()}
}

func (s *ScalarBackend) Name() string { return "scalar" }

func (s *ScalarBackend) Convolve(job *Job) error {
	k := job.Kernel
	src, dst := job.Src, job.Dst
	w, h := src.Width(), src.Height()

	iw := w - (k.width - 1)
	ih := h - (k.height - 1)
	if iw <= 0 || ih <= 0 {
		// all border, nothing for the interior pass to do
		return nil
	}

	srcRow := make([]int32, w)
	out := make([]int32, iw)
	acc := s.pool.Get(iw)
	defer s.pool.Put(acc)

	for b := int32(0); b < src.NumBands(); b++ {
		limit, limitI := sampleLimit(dst.Layout().SampleSize(b))
		for y := int32(0); y < ih; y++ {
			util.FillFloat32(acc, 0, iw, 0)
			for j := int32(0); j < k.height; j++ {
				src.Samples(src.MinX(), src.MinY()+y+j, w, 1, b, srcRow)
				for i := int32(0); i < k.width; i++ {
					wt := k.At(i, j)
					taps := srcRow[i : i+iw]
					for x := int32(0); x < iw; x++ {
						acc[x] = wt*float32(taps[x]) + acc[x]
					}
				}
			}
			clampRow(acc, out, limit, limitI)
			dst.SetSamples(dst.MinX()+k.xOrigin, dst.MinY()+k.yOrigin+y, iw, 1, b, out)
		}
	}
	return nil
}

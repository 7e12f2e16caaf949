package main

import (
	"bytes"
	"flag"
	"fmt"
	goimage "image"
	"image/draw"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/buffer"
	"github.com/goraster/rasterkit/convolve"
	"github.com/goraster/rasterkit/image"
	"github.com/goraster/rasterkit/layout"
	"github.com/goraster/rasterkit/raster"
)

func kernelByName(name string) (*convolve.Kernel, error) {
	switch strings.ToLower(name) {
	case "identity":
		return convolve.Identity(), nil
	case "box3":
		return convolve.Box(3)
	case "box5":
		return convolve.Box(5)
	case "gaussian3":
		return convolve.Gaussian3x3(), nil
	case "gaussian5":
		return convolve.Gaussian5x5(), nil
	case "sharpen":
		return convolve.Sharpen(), nil
	case "edges":
		return convolve.EdgeDetect(), nil
	}
	return nil, fmt.Errorf("unknown kernel %q", name)
}

func main() {
	infile := flag.String("i", "", "input png file")
	outfile := flag.String("o", "", "output png file")
	kernelName := flag.String("kernel", "gaussian3", "identity, box3, box5, gaussian3, gaussian5, sharpen or edges")
	edgeName := flag.String("edge", "noop", "border handling: zero or noop")
	cpuprofile := flag.Bool("cpuprofile", false, "write a cpu profile to the current directory")
	flag.Parse()

	if *infile == "" || *outfile == "" {
		fmt.Printf("both input and output files must be specified\n")
		os.Exit(1)
	}

	if *cpuprofile {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		defer p.Stop()
	}

	edge := convolve.EdgeNoOp
	switch *edgeName {
	case "zero":
		edge = convolve.EdgeZeroFill
	case "noop":
	default:
		fmt.Printf("unknown edge mode %q\n", *edgeName)
		os.Exit(1)
	}

	kernel, err := kernelByName(*kernelName)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*infile)
	if err != nil {
		log.Errorf("Error opening file: %v\n", err)
		return
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		log.Errorf("Error decoding png: %v\n", err)
		return
	}

	// normalise to NRGBA so the raster can wrap the pixel slice directly
	nrgba, ok := decoded.(*goimage.NRGBA)
	if !ok {
		nrgba = goimage.NewNRGBA(decoded.Bounds())
		draw.Draw(nrgba, nrgba.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	}
	w := int32(nrgba.Bounds().Dx())
	h := int32(nrgba.Bounds().Dy())

	srcImage, err := wrapNRGBA(nrgba, w, h)
	if err != nil {
		log.Errorf("Error wrapping image: %v\n", err)
		return
	}

	filter, err := convolve.New(kernel, edge, nil)
	if err != nil {
		log.Errorf("Error building filter: %v\n", err)
		return
	}

	start := time.Now()
	result, err := filter.FilterImage(srcImage, nil)
	if err != nil {
		log.Errorf("Error filtering: %v\n", err)
		return
	}
	fmt.Printf("filtering %dx%d with %s took %d ms\n", w, h, *kernelName, time.Since(start).Milliseconds())

	out, err := result.ToGoImage()
	if err != nil {
		log.Errorf("Error converting result: %v\n", err)
		return
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, out); err != nil {
		log.Fatalf("Error encoding png: %v", err)
	}
	if err := os.WriteFile(*outfile, buf.Bytes(), 0666); err != nil {
		log.Fatalf("Error writing file: %v", err)
	}
}

// wrapNRGBA builds a raster over the NRGBA pixel slice without copying it.
func wrapNRGBA(n *goimage.NRGBA, w int32, h int32) (*image.Image, error) {
	buf, err := buffer.WrapByteBuffer(n.Pix, int32(len(n.Pix)))
	if err != nil {
		return nil, err
	}
	l, err := layout.NewComponent(rasterkit.TypeByte, w, h, 4, int32(n.Stride), []int32{0, 1, 2, 3})
	if err != nil {
		return nil, err
	}
	r, err := raster.New(l, buf, 0, 0)
	if err != nil {
		return nil, err
	}
	return image.New(r, image.ColourInfo{
		NumComponents: 3,
		AlphaBand:     3,
		Space:         image.SpaceSRGB,
	})
}

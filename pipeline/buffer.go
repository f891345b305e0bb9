package pipeline

// Metadata carries the reader-supplied tile context (assets, CRS, bounds,
// band names) through the pipeline. The numeric core never inspects or
// mutates it; it is round-tripped unchanged from input to output.
type Metadata struct {
	Assets    []string
	CRS       string
	Bounds    [4]float64
	BandNames []string
}

// MaskedBuffer is the unit of data flowing through the render pipeline:
// one or more equally sized float32 bands plus a validity mask shared by
// all bands. Mask[i] == true marks pixel i as NoData; such pixels are
// never evaluated by a transform and render transparent.
type MaskedBuffer struct {
	Bands    [][]float32
	Mask     []bool
	Width    int
	Height   int
	Metadata Metadata
}

// NewMaskedBuffer allocates a buffer of nBands zeroed bands with an
// all-valid mask.
func NewMaskedBuffer(nBands, width, height int) *MaskedBuffer {
	bands := make([][]float32, nBands)
	for i := range bands {
		bands[i] = make([]float32, width*height)
	}
	return &MaskedBuffer{
		Bands:  bands,
		Mask:   make([]bool, width*height),
		Width:  width,
		Height: height,
	}
}

// NewLike allocates an output buffer with nBands zeroed bands, the same
// dimensions and metadata as b, and a copy of b's mask. Transforms never
// mutate their input, so every stage starts from a buffer built here.
func (b *MaskedBuffer) NewLike(nBands int) *MaskedBuffer {
	out := NewMaskedBuffer(nBands, b.Width, b.Height)
	copy(out.Mask, b.Mask)
	out.Metadata = b.Metadata
	return out
}

// CheckShape validates that the buffer carries nBands bands and that the
// mask matches the band size.
func (b *MaskedBuffer) CheckShape(nBands int) error {
	if len(b.Bands) != nBands {
		return shapeErrorf("expected %d input band(s), got %d", nBands, len(b.Bands))
	}
	size := b.Width * b.Height
	for i, band := range b.Bands {
		if len(band) != size {
			return shapeErrorf("band %d has %d samples, expected %dx%d=%d", i, len(band), b.Width, b.Height, size)
		}
	}
	if len(b.Mask) != size {
		return shapeErrorf("mask has %d samples, expected %dx%d=%d", len(b.Mask), b.Width, b.Height, size)
	}
	return nil
}

// RGBBuffer holds a colorized tile: three 8-bit planes in R, G, B order
// plus the validity mask broadcast from the source band. Masked pixels
// carry zeroed channels and render fully transparent.
type RGBBuffer struct {
	Pix      [3][]uint8
	Mask     []bool
	Width    int
	Height   int
	Metadata Metadata
}

// NewRGBBuffer allocates a zeroed RGB buffer with a copy of the source
// buffer's mask and metadata.
func NewRGBBuffer(src *MaskedBuffer) *RGBBuffer {
	size := src.Width * src.Height
	out := &RGBBuffer{
		Width:    src.Width,
		Height:   src.Height,
		Mask:     make([]bool, size),
		Metadata: src.Metadata,
	}
	for i := range out.Pix {
		out.Pix[i] = make([]uint8, size)
	}
	copy(out.Mask, src.Mask)
	return out
}

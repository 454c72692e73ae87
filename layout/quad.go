package layout

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Vertex layout of the encoded quad. Each vertex is four little-endian
// float32 values: position x, y followed by texture coordinate u, v.
const (
	// VertexCount is the number of vertices in a quad (one triangle strip).
	VertexCount = 4

	// FloatsPerVertex is the number of float32 components per vertex.
	FloatsPerVertex = 4

	// VertexStride is the size of one vertex in bytes.
	VertexStride = FloatsPerVertex * 4

	// PositionOffset is the byte offset of the position attribute.
	PositionOffset = 0

	// TexCoordOffset is the byte offset of the texture coordinate attribute.
	TexCoordOffset = 2 * 4

	// ByteSize is the size of an encoded quad in bytes.
	ByteSize = VertexCount * VertexStride
)

// Vertex indices in triangle-strip order.
const (
	TopLeft = iota
	BottomLeft
	TopRight
	BottomRight
)

// Vertex is one corner of the quad: a position in normalized device
// coordinates and the texture coordinate sampled there.
type Vertex struct {
	X, Y float32
	U, V float32
}

// Quad is the geometry for drawing one image into a viewport.
type Quad struct {
	// Vertices in triangle-strip order: TopLeft, BottomLeft, TopRight,
	// BottomRight.
	Vertices [VertexCount]Vertex

	// Mode is the fit policy the quad was computed with.
	Mode FitMode

	// ScaleX and ScaleY are the image-to-viewport pixel scale factors.
	// They are equal for FitContain.
	ScaleX, ScaleY float64

	// ScaledWidth and ScaledHeight are the drawn image size in viewport
	// pixels.
	ScaledWidth, ScaledHeight float64

	// NDCWidth and NDCHeight are the drawn image size in normalized device
	// units (the full viewport is 2).
	NDCWidth, NDCHeight float64

	// OffsetX and OffsetY are the distances in normalized device units from
	// the left and top viewport edges to the quad.
	OffsetX, OffsetY float64

	viewportW, viewportH int
}

// FullViewport returns the quad covering the whole viewport with the full
// texture. It is the initial contents of a freshly created vertex buffer.
func FullViewport() Quad {
	return Quad{
		Vertices: [VertexCount]Vertex{
			TopLeft:     {X: -1, Y: 1, U: 0, V: 0},
			BottomLeft:  {X: -1, Y: -1, U: 0, V: 1},
			TopRight:    {X: 1, Y: 1, U: 1, V: 0},
			BottomRight: {X: 1, Y: -1, U: 1, V: 1},
		},
		Mode:      FitStretch,
		ScaleX:    1,
		ScaleY:    1,
		NDCWidth:  2,
		NDCHeight: 2,
	}
}

// ComputeQuad returns the contain-fit quad for an imageW x imageH image in a
// viewportW x viewportH viewport.
//
// The image is scaled by min(viewportW/imageW, viewportH/imageH) and
// centered. Any dimension that is not positive yields an error matching
// ErrInvalidDimensions.
func ComputeQuad(imageW, imageH, viewportW, viewportH int) (Quad, error) {
	return Compute(imageW, imageH, viewportW, viewportH, FitContain)
}

// Compute returns the quad for the given fit mode.
func Compute(imageW, imageH, viewportW, viewportH int, mode FitMode) (Quad, error) {
	if imageW <= 0 || imageH <= 0 || viewportW <= 0 || viewportH <= 0 {
		return Quad{}, &DimensionsError{
			ImageWidth:     imageW,
			ImageHeight:    imageH,
			ViewportWidth:  viewportW,
			ViewportHeight: viewportH,
		}
	}

	iw, ih := float64(imageW), float64(imageH)
	vw, vh := float64(viewportW), float64(viewportH)

	q := Quad{Mode: mode, viewportW: viewportW, viewportH: viewportH}
	switch mode {
	case FitContain:
		sx, sy := vw/iw, vh/ih
		// The constraining axis is assigned the viewport size directly so
		// the fit is exact on that axis.
		if sx <= sy {
			q.ScaleX, q.ScaleY = sx, sx
			q.ScaledWidth, q.ScaledHeight = vw, ih*sx
		} else {
			q.ScaleX, q.ScaleY = sy, sy
			q.ScaledWidth, q.ScaledHeight = iw*sy, vh
		}
	case FitStretch:
		q.ScaleX, q.ScaleY = vw/iw, vh/ih
		q.ScaledWidth, q.ScaledHeight = vw, vh
	default:
		return Quad{}, fmt.Errorf("%w: %v", ErrInvalidFitMode, mode)
	}

	q.NDCWidth = q.ScaledWidth / vw * 2
	q.NDCHeight = q.ScaledHeight / vh * 2
	q.OffsetX = (2 - q.NDCWidth) / 2
	q.OffsetY = (2 - q.NDCHeight) / 2

	left := -1 + q.OffsetX
	right := left + q.NDCWidth
	top := 1 - q.OffsetY
	bottom := top - q.NDCHeight

	q.Vertices = [VertexCount]Vertex{
		TopLeft:     {X: float32(left), Y: float32(top), U: 0, V: 0},
		BottomLeft:  {X: float32(left), Y: float32(bottom), U: 0, V: 1},
		TopRight:    {X: float32(right), Y: float32(top), U: 1, V: 0},
		BottomRight: {X: float32(right), Y: float32(bottom), U: 1, V: 1},
	}
	return q, nil
}

// Margins returns the uncovered viewport margins in pixels. For FitContain
// left equals right and top equals bottom. The quad returned by
// FullViewport has no viewport and reports zero margins.
func (q Quad) Margins() (left, right, top, bottom float64) {
	if q.viewportW == 0 || q.viewportH == 0 {
		return 0, 0, 0, 0
	}
	vw, vh := float64(q.viewportW), float64(q.viewportH)
	l := float64(q.Vertices[TopLeft].X)
	r := float64(q.Vertices[TopRight].X)
	t := float64(q.Vertices[TopLeft].Y)
	b := float64(q.Vertices[BottomLeft].Y)
	left = (l + 1) / 2 * vw
	right = (1 - r) / 2 * vw
	top = (1 - t) / 2 * vh
	bottom = (b + 1) / 2 * vh
	return left, right, top, bottom
}

// Bytes encodes the quad as interleaved little-endian float32 vertex data
// ready for upload to a vertex buffer.
func (q Quad) Bytes() []byte {
	return q.AppendBytes(make([]byte, 0, ByteSize))
}

// AppendBytes appends the encoded quad to dst and returns the extended
// slice.
func (q Quad) AppendBytes(dst []byte) []byte {
	for _, v := range q.Vertices {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.X))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Y))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.U))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.V))
	}
	return dst
}

// DecodeVertices is the inverse of Bytes. It reads VertexCount vertices from
// data laid out with the given stride, position and texture coordinate byte
// offsets. It reports false when data is too short.
func DecodeVertices(data []byte, stride, posOffset, uvOffset int) ([VertexCount]Vertex, bool) {
	var out [VertexCount]Vertex
	if stride <= 0 || len(data) < (VertexCount-1)*stride+max(posOffset, uvOffset)+8 {
		return out, false
	}
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
	}
	for i := range out {
		base := i * stride
		out[i] = Vertex{
			X: f(base + posOffset),
			Y: f(base + posOffset + 4),
			U: f(base + uvOffset),
			V: f(base + uvOffset + 4),
		}
	}
	return out, true
}

package layout

import (
	"encoding/binary"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

const eps = 1e-4

func approx(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestComputeQuad_EndToEndExample(t *testing.T) {
	q, err := ComputeQuad(400, 300, 800, 600)
	if err != nil {
		t.Fatalf("ComputeQuad: %v", err)
	}
	if q.ScaleX != 2 || q.ScaleY != 2 {
		t.Errorf("scale = (%v, %v), want (2, 2)", q.ScaleX, q.ScaleY)
	}
	if q.ScaledWidth != 800 || q.ScaledHeight != 600 {
		t.Errorf("scaled = %vx%v, want 800x600", q.ScaledWidth, q.ScaledHeight)
	}
	if q.OffsetX != 0 || q.OffsetY != 0 {
		t.Errorf("offset = (%v, %v), want (0, 0)", q.OffsetX, q.OffsetY)
	}
	want := FullViewport().Vertices
	if q.Vertices != want {
		t.Errorf("vertices = %+v, want %+v", q.Vertices, want)
	}
}

func TestComputeQuad_AspectCases(t *testing.T) {
	tests := []struct {
		name                         string
		imageW, imageH, viewW, viewH int
		wantScale                    float64
		wantLetterbox, wantPillarbox bool
	}{
		{"square into 2:1 is height constrained", 100, 100, 200, 100, 1.0, false, true},
		{"4:1 into square is width constrained", 400, 100, 200, 200, 0.5, true, false},
		{"upscale small image", 10, 5, 100, 100, 10, true, false},
		{"tall image", 50, 200, 400, 400, 2, false, true},
		{"exact match", 640, 480, 640, 480, 1, false, false},
		{"one pixel", 1, 1, 3, 7, 3, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ComputeQuad(tt.imageW, tt.imageH, tt.viewW, tt.viewH)
			if err != nil {
				t.Fatalf("ComputeQuad: %v", err)
			}
			if !approx(q.ScaleX, tt.wantScale) || q.ScaleX != q.ScaleY {
				t.Errorf("scale = (%v, %v), want %v", q.ScaleX, q.ScaleY, tt.wantScale)
			}
			left, right, top, bottom := q.Margins()
			if got := top > eps; got != tt.wantLetterbox {
				t.Errorf("letterbox = %v (top=%v bottom=%v), want %v", got, top, bottom, tt.wantLetterbox)
			}
			if got := left > eps; got != tt.wantPillarbox {
				t.Errorf("pillarbox = %v (left=%v right=%v), want %v", got, left, right, tt.wantPillarbox)
			}
		})
	}
}

func TestComputeQuad_SquareInto2to1(t *testing.T) {
	q, err := ComputeQuad(300, 300, 1200, 600)
	if err != nil {
		t.Fatal(err)
	}
	if want := 600.0 / 300.0; q.ScaleX != want {
		t.Errorf("scale = %v, want viewportH/imageH = %v", q.ScaleX, want)
	}
}

func TestComputeQuad_WideIntoSquare(t *testing.T) {
	q, err := ComputeQuad(800, 200, 500, 500)
	if err != nil {
		t.Fatal(err)
	}
	if want := 500.0 / 800.0; q.ScaleX != want {
		t.Errorf("scale = %v, want viewportW/imageW = %v", q.ScaleX, want)
	}
}

func TestComputeQuad_InvalidDimensions(t *testing.T) {
	tests := []struct {
		iw, ih, vw, vh int
	}{
		{0, 100, 800, 600},
		{100, 0, 800, 600},
		{100, 100, 0, 600},
		{100, 100, 800, 0},
		{-1, 100, 800, 600},
		{100, -5, 800, 600},
		{100, 100, -800, 600},
		{100, 100, 800, -600},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		q, err := ComputeQuad(tt.iw, tt.ih, tt.vw, tt.vh)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("ComputeQuad(%d, %d, %d, %d) error = %v, want ErrInvalidDimensions",
				tt.iw, tt.ih, tt.vw, tt.vh, err)
		}
		var de *DimensionsError
		if !errors.As(err, &de) {
			t.Errorf("error %T is not *DimensionsError", err)
		} else if de.ImageWidth != tt.iw || de.ViewportHeight != tt.vh {
			t.Errorf("DimensionsError = %+v, want fields from input", de)
		}
		if q != (Quad{}) {
			t.Errorf("ComputeQuad returned non-zero quad on error: %+v", q)
		}
	}
}

func TestCompute_InvalidMode(t *testing.T) {
	_, err := Compute(10, 10, 10, 10, FitMode(9))
	if !errors.Is(err, ErrInvalidFitMode) {
		t.Errorf("error = %v, want ErrInvalidFitMode", err)
	}
}

func TestCompute_Stretch(t *testing.T) {
	q, err := Compute(400, 100, 800, 600, FitStretch)
	if err != nil {
		t.Fatal(err)
	}
	if q.Vertices != FullViewport().Vertices {
		t.Errorf("stretch vertices = %+v, want full viewport", q.Vertices)
	}
	if q.ScaleX != 2 || q.ScaleY != 6 {
		t.Errorf("scale = (%v, %v), want (2, 6)", q.ScaleX, q.ScaleY)
	}
	left, right, top, bottom := q.Margins()
	if left != 0 || right != 0 || top != 0 || bottom != 0 {
		t.Errorf("margins = %v %v %v %v, want all zero", left, right, top, bottom)
	}
}

func TestComputeQuad_TextureCoordinates(t *testing.T) {
	q, err := ComputeQuad(3, 2, 17, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := [VertexCount][2]float32{
		TopLeft:     {0, 0},
		BottomLeft:  {0, 1},
		TopRight:    {1, 0},
		BottomRight: {1, 1},
	}
	for i, v := range q.Vertices {
		if v.U != want[i][0] || v.V != want[i][1] {
			t.Errorf("vertex %d uv = (%v, %v), want (%v, %v)", i, v.U, v.V, want[i][0], want[i][1])
		}
	}
	if q.Vertices[TopLeft].Y <= q.Vertices[BottomLeft].Y {
		t.Error("v=0 vertex must be above the v=1 vertex")
	}
	if q.Vertices[TopLeft].X >= q.Vertices[TopRight].X {
		t.Error("u=0 vertex must be left of the u=1 vertex")
	}
}

// TestComputeQuad_Properties checks the fit and centering properties over
// a deterministic sample of random sizes.
func TestComputeQuad_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 5000; i++ {
		iw, ih := 1+r.IntN(8192), 1+r.IntN(8192)
		vw, vh := 1+r.IntN(4096), 1+r.IntN(4096)

		q, err := ComputeQuad(iw, ih, vw, vh)
		if err != nil {
			t.Fatalf("ComputeQuad(%d, %d, %d, %d): %v", iw, ih, vw, vh, err)
		}

		if q.ScaledWidth > float64(vw)*(1+eps) || q.ScaledHeight > float64(vh)*(1+eps) {
			t.Fatalf("%dx%d in %dx%d: scaled %vx%v exceeds viewport",
				iw, ih, vw, vh, q.ScaledWidth, q.ScaledHeight)
		}
		if q.ScaledWidth != float64(vw) && q.ScaledHeight != float64(vh) {
			t.Fatalf("%dx%d in %dx%d: scaled %vx%v is not tight on either axis",
				iw, ih, vw, vh, q.ScaledWidth, q.ScaledHeight)
		}

		left, right, top, bottom := q.Margins()
		if math.Abs(left-right) > 1e-2 || math.Abs(top-bottom) > 1e-2 {
			t.Fatalf("%dx%d in %dx%d: margins l=%v r=%v t=%v b=%v not symmetric",
				iw, ih, vw, vh, left, right, top, bottom)
		}

		for j, v := range q.Vertices {
			for _, c := range []float32{v.X, v.Y, v.U, v.V} {
				if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
					t.Fatalf("vertex %d has non-finite component: %+v", j, v)
				}
			}
			if v.X < -1-eps || v.X > 1+eps || v.Y < -1-eps || v.Y > 1+eps {
				t.Fatalf("vertex %d outside device space: %+v", j, v)
			}
		}
	}
}

func TestComputeQuad_Deterministic(t *testing.T) {
	a, _ := ComputeQuad(1234, 567, 890, 321)
	b, _ := ComputeQuad(1234, 567, 890, 321)
	if a != b {
		t.Errorf("ComputeQuad is not deterministic: %+v != %+v", a, b)
	}
}

func TestQuad_Bytes(t *testing.T) {
	q, err := ComputeQuad(200, 100, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	data := q.Bytes()
	if len(data) != ByteSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(data), ByteSize)
	}
	got, ok := DecodeVertices(data, VertexStride, PositionOffset, TexCoordOffset)
	if !ok {
		t.Fatal("DecodeVertices reported short data")
	}
	if got != q.Vertices {
		t.Errorf("decoded %+v, want %+v", got, q.Vertices)
	}

	// The letterboxed quad spans the full width.
	if x := math.Float32frombits(binary.LittleEndian.Uint32(data[0:4])); x != -1 {
		t.Errorf("first float = %v, want -1", x)
	}
}

func TestQuad_AppendBytes(t *testing.T) {
	prefix := []byte{0xAA, 0xBB}
	out := FullViewport().AppendBytes(prefix)
	if len(out) != len(prefix)+ByteSize {
		t.Fatalf("len = %d, want %d", len(out), len(prefix)+ByteSize)
	}
	if out[0] != 0xAA || out[1] != 0xBB {
		t.Error("AppendBytes overwrote the prefix")
	}
}

func TestDecodeVertices_Short(t *testing.T) {
	if _, ok := DecodeVertices(make([]byte, ByteSize-1), VertexStride, PositionOffset, TexCoordOffset); ok {
		t.Error("DecodeVertices accepted short data")
	}
	if _, ok := DecodeVertices(make([]byte, ByteSize), 0, 0, 8); ok {
		t.Error("DecodeVertices accepted zero stride")
	}
}

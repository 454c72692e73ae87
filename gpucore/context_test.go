package gpucore

import "testing"

func TestDefaultContextOptions(t *testing.T) {
	o := DefaultContextOptions()
	if !o.Alpha || !o.Depth || !o.Stencil || !o.Antialias || !o.PremultipliedAlpha {
		t.Errorf("DefaultContextOptions() = %+v, want alpha/depth/stencil/antialias/premultiplied on", o)
	}
	if o.PreserveDrawingBuffer {
		t.Error("PreserveDrawingBuffer should default to false")
	}
	if o.FailOnPerformanceCaveat {
		t.Error("FailOnPerformanceCaveat should default to false")
	}
	if o.PowerPreference != PowerDefault {
		t.Errorf("PowerPreference = %v, want default", o.PowerPreference)
	}
}

func TestPowerPreference_String(t *testing.T) {
	tests := map[PowerPreference]string{
		PowerDefault:         "default",
		PowerLowPower:        "low-power",
		PowerHighPerformance: "high-performance",
		PowerPreference(9):   "PowerPreference(9)",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestProgramSource_Attribute(t *testing.T) {
	src := ProgramSource{
		Attributes: []VertexAttribute{
			{Name: "position", Location: 0, Components: 2, Offset: 0},
			{Name: "texCoord", Location: 1, Components: 2, Offset: 8},
		},
	}
	a, ok := src.Attribute("texCoord")
	if !ok || a.Offset != 8 || a.Location != 1 {
		t.Errorf("Attribute(texCoord) = %+v, %v", a, ok)
	}
	if _, ok := src.Attribute("color"); ok {
		t.Error("Attribute(color) found a missing attribute")
	}
}

func TestEnumStrings(t *testing.T) {
	if TriangleStrip.String() != "TriangleStrip" || Primitive(0).String() != "Primitive(0)" {
		t.Error("Primitive.String mismatch")
	}
	if WrapClampToEdge.String() != "clamp-to-edge" || WrapRepeat.String() != "repeat" {
		t.Error("WrapMode.String mismatch")
	}
	if FilterLinear.String() != "linear" || FilterNearest.String() != "nearest" {
		t.Error("FilterMode.String mismatch")
	}
	if StageLink.String() != "link" {
		t.Error("ShaderStage.String mismatch")
	}
}

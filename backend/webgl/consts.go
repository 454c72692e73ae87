//go:build js && wasm

package webgl

import (
	"syscall/js"

	"github.com/gogpu/imageview/gpucore"
)

type glConsts struct {
	arrayBuffer      int
	dynamicDraw      int
	floatType        int
	triangleStrip    int
	triangles        int
	texture2D        int
	rgba             int
	unsignedByte     int
	textureMinFilter int
	textureMagFilter int
	textureWrapS     int
	textureWrapT     int
	nearest          int
	linear           int
	clampToEdge      int
	repeat           int
	colorBufferBit   int
	depthBufferBit   int
	stencilBufferBit int
	compileStatus    int
	linkStatus       int
	vertexShader     int
	fragmentShader   int
	texture0         int
	unpackAlignment  int
}

func loadConsts(gl js.Value) glConsts {
	return glConsts{
		arrayBuffer:      gl.Get("ARRAY_BUFFER").Int(),
		dynamicDraw:      gl.Get("DYNAMIC_DRAW").Int(),
		floatType:        gl.Get("FLOAT").Int(),
		triangleStrip:    gl.Get("TRIANGLE_STRIP").Int(),
		triangles:        gl.Get("TRIANGLES").Int(),
		texture2D:        gl.Get("TEXTURE_2D").Int(),
		rgba:             gl.Get("RGBA").Int(),
		unsignedByte:     gl.Get("UNSIGNED_BYTE").Int(),
		textureMinFilter: gl.Get("TEXTURE_MIN_FILTER").Int(),
		textureMagFilter: gl.Get("TEXTURE_MAG_FILTER").Int(),
		textureWrapS:     gl.Get("TEXTURE_WRAP_S").Int(),
		textureWrapT:     gl.Get("TEXTURE_WRAP_T").Int(),
		nearest:          gl.Get("NEAREST").Int(),
		linear:           gl.Get("LINEAR").Int(),
		clampToEdge:      gl.Get("CLAMP_TO_EDGE").Int(),
		repeat:           gl.Get("REPEAT").Int(),
		colorBufferBit:   gl.Get("COLOR_BUFFER_BIT").Int(),
		depthBufferBit:   gl.Get("DEPTH_BUFFER_BIT").Int(),
		stencilBufferBit: gl.Get("STENCIL_BUFFER_BIT").Int(),
		compileStatus:    gl.Get("COMPILE_STATUS").Int(),
		linkStatus:       gl.Get("LINK_STATUS").Int(),
		vertexShader:     gl.Get("VERTEX_SHADER").Int(),
		fragmentShader:   gl.Get("FRAGMENT_SHADER").Int(),
		texture0:         gl.Get("TEXTURE0").Int(),
		unpackAlignment:  gl.Get("UNPACK_ALIGNMENT").Int(),
	}
}

func (c *glConsts) primitive(p gpucore.Primitive) (int, bool) {
	switch p {
	case gpucore.TriangleStrip:
		return c.triangleStrip, true
	case gpucore.Triangles:
		return c.triangles, true
	default:
		return 0, false
	}
}

func (c *glConsts) wrap(w gpucore.WrapMode) int {
	if w == gpucore.WrapRepeat {
		return c.repeat
	}
	return c.clampToEdge
}

func (c *glConsts) filter(f gpucore.FilterMode) int {
	if f == gpucore.FilterNearest {
		return c.nearest
	}
	return c.linear
}

// uint8Array copies data into a new JS Uint8Array.
func uint8Array(data []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(data))
	if len(data) > 0 {
		js.CopyBytesToJS(arr, data)
	}
	return arr
}

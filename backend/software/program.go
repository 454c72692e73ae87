package software

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/gogpu/imageview/gpucore"
)

var (
	attributeDecl = regexp.MustCompile(`\battribute\s+(?:(?:lowp|mediump|highp)\s+)?vec([234])\s+(\w+)\s*;`)
	varyingDecl   = regexp.MustCompile(`\bvarying\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*;`)
	samplerDecl   = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?sampler2D\s+(\w+)\s*;`)
	mainDecl      = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(?:void)?\s*\)`)
)

// program is a checked program description.
type program struct {
	src gpucore.ProgramSource
}

// compileProgram checks both stages and their interface.
func compileProgram(src gpucore.ProgramSource) (*program, error) {
	if err := compileVertex(src); err != nil {
		return nil, err
	}
	if err := compileFragment(src); err != nil {
		return nil, err
	}
	if err := link(src); err != nil {
		return nil, err
	}
	return &program{src: src}, nil
}

func compileVertex(src gpucore.ProgramSource) error {
	fail := func(format string, args ...any) error {
		return &gpucore.ShaderError{Program: src.Label, Stage: gpucore.StageVertex, Log: fmt.Sprintf(format, args...)}
	}
	if !mainDecl.MatchString(src.GLSLVertex) {
		return fail("missing main")
	}
	declared := make(map[string]int)
	for _, m := range attributeDecl.FindAllStringSubmatch(src.GLSLVertex, -1) {
		declared[m[2]] = int(m[1][0] - '0')
	}
	for _, a := range src.Attributes {
		n, ok := declared[a.Name]
		if !ok {
			return fail("attribute %q not declared", a.Name)
		}
		if n != a.Components {
			return fail("attribute %q has %d components, layout says %d", a.Name, n, a.Components)
		}
		if a.Offset < 0 || a.Offset+a.Components*4 > src.Stride {
			return fail("attribute %q at offset %d overruns stride %d", a.Name, a.Offset, src.Stride)
		}
	}
	return nil
}

func compileFragment(src gpucore.ProgramSource) error {
	fail := func(format string, args ...any) error {
		return &gpucore.ShaderError{Program: src.Label, Stage: gpucore.StageFragment, Log: fmt.Sprintf(format, args...)}
	}
	if !mainDecl.MatchString(src.GLSLFragment) {
		return fail("missing main")
	}
	if src.Sampler != "" {
		found := false
		for _, m := range samplerDecl.FindAllStringSubmatch(src.GLSLFragment, -1) {
			if m[1] == src.Sampler {
				found = true
				break
			}
		}
		if !found {
			return fail("sampler %q not declared", src.Sampler)
		}
	}
	return nil
}

func link(src gpucore.ProgramSource) error {
	var written []string
	for _, m := range varyingDecl.FindAllStringSubmatch(src.GLSLVertex, -1) {
		written = append(written, m[1])
	}
	for _, m := range varyingDecl.FindAllStringSubmatch(src.GLSLFragment, -1) {
		if !slices.Contains(written, m[1]) {
			return &gpucore.ShaderError{
				Program: src.Label,
				Stage:   gpucore.StageLink,
				Log:     fmt.Sprintf("varying %q read by fragment stage is not written by vertex stage", m[1]),
			}
		}
	}
	return nil
}

// Package layout computes the screen-space quad used to draw one image into
// a viewport.
//
// The engine maps image and viewport pixel dimensions to four vertices in
// normalized device coordinates ([-1, 1] on both axes) together with their
// texture coordinates. Two policies are supported:
//
//   - [FitContain] scales the image uniformly so that it is fully visible and
//     centers it, leaving letterbox (top/bottom) or pillarbox (left/right)
//     margins on the non-constraining axis.
//   - [FitStretch] maps the image onto the whole viewport, ignoring its
//     aspect ratio.
//
// Vertices are emitted in triangle-strip order (top-left, bottom-left,
// top-right, bottom-right). The vertical texture coordinate is flipped so
// that v=0, the first row of a top-to-bottom RGBA buffer, lands on the top
// edge of the quad.
//
// Everything in this package is pure and deterministic.
package layout

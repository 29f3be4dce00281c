// Package filter provides the interpolation kernels used by the bicubic
// rescale passes and a CPU resampler for hosts without GPU support.
//
// Two spline kernels are available:
//   - Catmull-Rom: piecewise cubic with support [-2, 2]
//   - Cosine: raised half cosine with support [-2, 2]
//
// LUT packs both kernels into the RGBA32F lookup table that the GPU shaders
// sample, so that per-fragment kernel evaluation reduces to one fetch.
package filter

// Package rife plans and runs frame-doubling passes of the external
// rife-ncnn-vulkan interpolator.
//
// Plan picks the minimal pass count n with 2^n >= target/original. The
// interpolator keeps the clip's nominal duration; stretching the denser clip
// to the target is left to the timeline reconstructor.
package rife

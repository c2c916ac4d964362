// Package align fits audio clips to a target duration.
//
// TempoChain breaks an arbitrary speed factor into stages the ffmpeg atempo
// filter accepts (each within [0.5, 2.0] by default). Aligner probes the
// source, builds the chain and renders it; PrealignManifest applies the same
// step to clips that overrun their slot before they are mixed.
package align

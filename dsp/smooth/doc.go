// Package smooth provides the averaging filters applied to pulsed-field
// channels before segmentation.
//
//   - [Gaussian]:     Gaussian-weighted moving average, same-length output
//   - [Linear]:       uniform moving average of width 2n+1, same-length output
//   - [Window]:       named-window smoothing with reflected edges
//   - [Downsample]:   uniform average followed by decimation
//   - [ReduceBlocks]: non-overlapping block means of a matrix
//
// Same-length filters treat samples beyond either edge as zero, so their
// first and last n outputs are attenuated. [Window] mirrors the signal at
// both ends instead and is the better choice when edges matter.
//
// Kernels are built once per shape and kept in a process-wide cache; the
// cache is safe for concurrent use.
package smooth

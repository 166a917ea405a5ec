// Package pulse conditions and aligns the channels recorded during
// pulsed-magnet shots.
//
// A [Shot] holds the raw channels of one pulse: the field B, its time
// derivative, the longitudinal and Hall voltages and the sample current.
// Processing happens in place and in stages:
//
//  1. conditioning: [Shot.Downsample], [Shot.Smooth], [Shot.GaussianSmooth]
//  2. segmentation: [Segment] splits every channel at the field maximum into
//     a rising and a falling branch, cut where the field is nearest a
//     threshold, and derives Rxx and Rxy
//  3. alignment: [Align] resamples every shot of a collection onto the field
//     grid of the shot with the smallest peak field
//
// [Pipeline] runs the three stages over a collection with logging and
// metrics.
//
// Fields of a Shot that a stage produces stay nil until that stage has run.
// None of the functions lock; a Shot or a collection must not be processed
// by two goroutines at once, while disjoint collections may be.
package pulse

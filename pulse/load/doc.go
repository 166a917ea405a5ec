// Package load reads shots from disk.
//
// Two formats are supported: tab-delimited ASCII tables, one column per
// recorded quantity, and multichannel PCM WAV files from the digitizer
// export. Every channel is divided by the gain of its amplifier. The field and
// field-rate channels may be sampled more coarsely than the others, so
// rows where they hold NaN are dropped from those two channels only.
package load

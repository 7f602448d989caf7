// Package preflight provides readiness checks for the filesystem paths and
// input files a recording session depends on.
//
// These checks run in two contexts:
//   - "voicebooth record" calls RunAll before opening the audio device and
//     refuses to start when any check fails.
//   - "voicebooth check" renders every result as a table.
//
// Low free space is reported as a warning on a passing result rather than a
// failure, since a short session may still fit.
package preflight

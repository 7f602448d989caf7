// Package config loads, normalizes, and validates voicebooth configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VOICEBOOTH_DEVICE. The Config type centralizes every knob the recording
// session needs: where clips and progress live, which corpus to read, how the
// input device is opened, and the thresholds the silence trimmer applies.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

// Package capture connects the session to audio hardware: a PortAudio stream
// that yields fixed-size 16-bit mono chunks and plays takes back, device
// enumeration, and a udev watcher that reports sound cards coming and going.
package capture

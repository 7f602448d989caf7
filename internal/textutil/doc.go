// Package textutil normalizes corpus text before it is shown to the operator
// and written to the manifest.
package textutil

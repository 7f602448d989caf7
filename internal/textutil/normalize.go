package textutil

import "golang.org/x/text/unicode/norm"

// NormalizeSentence returns text in Unicode NFC. Spacing is left alone so the
// manifest carries the corpus text as written; composed form keeps it
// byte-stable when the corpus mixes precomposed and combining characters.
func NormalizeSentence(text string) string {
	return norm.NFC.String(text)
}

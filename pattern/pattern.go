// Package pattern classifies an object key as 'plain' or 'multifile' (§3 "Pattern classification").
package pattern

// specialChars are the unescaped characters that make an object key a multifile glob.
const specialChars = "*?[!^"

// Classification describes whether an object key is a plain key or a multifile glob, and if the latter, where its
// literal (list-prefix) portion ends.
type Classification struct {
	// Multifile is true iff the key contains an unescaped occurrence of a glob metacharacter.
	Multifile bool

	// PrefixEnd is the index of the first unescaped special character; equal to len(key) when Multifile is false.
	PrefixEnd int
}

// Classify inspects 'key' and returns its classification.
func Classify(key string) Classification {
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '\\':
			// An escaped character (including another backslash) can't itself be special; skip over it.
			i++
		default:
			if isSpecial(key[i]) {
				return Classification{Multifile: true, PrefixEnd: i}
			}
		}
	}

	return Classification{Multifile: false, PrefixEnd: len(key)}
}

// Prefix returns the literal, escape-stripped-nothing list prefix for 'key' given its classification (i.e.
// 'key[0:PrefixEnd]').
func (c Classification) Prefix(key string) string {
	return key[:c.PrefixEnd]
}

func isSpecial(b byte) bool {
	for i := 0; i < len(specialChars); i++ {
		if specialChars[i] == b {
			return true
		}
	}

	return false
}

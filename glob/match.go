// Package glob implements the gitignore-style pattern matcher used to expand multifile object-store patterns
// (component A). The algorithm is a direct port of Robert A. van Engelen's backtracking glob matcher
// (https://github.com/RobertGloogle... CPOL licensed gitignore_glob_match), preserving its independent '*'-loop and
// '**'-loop backtrack points so that patterns mixing both behave exactly as the original.
package glob

import "strings"

const pathSep = '/'

// dotglob, if true, allows '*', '?' and '[...]' to match a leading dot in a path segment (i.e. dotfiles are not
// hidden). The driver always runs with this enabled.
const dotglob = true

// Match returns a boolean indicating whether 'text' matches the given gitignore-style glob 'pattern'. Matching is
// case-sensitive. See the package doc and spec §4.2 for the full semantics.
func Match(text, pattern string) bool {
	var (
		i, j   = 0, 0
		n, m   = len(text), len(pattern)
		nodot  = !dotglob
		hasT1  bool
		hasT2  bool
		t1, g1 int
		t2, g2 int
	)

	// Match the full pathname if the pattern contains a leading '/', otherwise match the basename when the pattern
	// has no '/' anywhere; any other pattern (containing a '/' that isn't leading) is matched against the full text
	// from the start.
	switch {
	case j+1 < m && pattern[j] == pathSep:
		for i+1 < n && text[i] == '.' && text[i+1] == pathSep {
			i += 2
		}

		if i < n && text[i] == pathSep {
			i++
		}

		j++
	case strings.IndexByte(pattern, pathSep) == -1:
		if sep := strings.LastIndexByte(text, pathSep); sep != -1 {
			i = sep + 1
		}
	}

	for i < n {
		textI := text[i]

		if j < m {
			switch pattern[j] {
			case '*':
				if nodot && textI == '.' {
					break
				}

				j++

				if j < m && pattern[j] == '*' {
					j++

					if j >= m {
						return true
					}

					if pattern[j] != pathSep {
						return false
					}

					// New '**'-loop discards any pending '*'-loop.
					hasT1 = false
					hasT2 = true
					t2, g2 = i, j

					if textI != pathSep {
						j++
					}

					continue
				}

				// Single '*' matches everything except '/'.
				hasT1 = true
				t1, g1 = i, j

				continue
			case '?':
				if nodot && textI == '.' {
					break
				}

				if textI == pathSep {
					break
				}

				i++
				j++

				continue
			case '[':
				if nodot && textI == '.' {
					break
				}

				if textI == pathSep {
					break
				}

				matched, next := matchClass(pattern, j, textI)
				if !matched {
					break
				}

				i++
				j = next

				continue
			case '\\':
				if j+1 < m {
					j++
				}

				fallthrough
			default:
				globJ := pattern[j]
				if globJ != textI && !(globJ == pathSep && textI == pathSep) {
					break
				}

				nodot = !dotglob && globJ == pathSep
				i++
				j++

				continue
			}
		}

		switch {
		case hasT1 && text[t1] != pathSep:
			t1++
			i = t1
			j = g1
		case hasT2:
			t2++
			i = t2
			j = g2
		default:
			return false
		}
	}

	for j < m && pattern[j] == '*' {
		j++
	}

	return j >= m
}

// matchClass matches a single character class '[...]' starting at 'pattern[start]' (the '[' itself) against 'ch'.
// Returns whether it matched, and the pattern index immediately following the closing ']' (only meaningful when
// matched is true; on a non-match the caller backtracks and discards the returned index).
func matchClass(pattern string, start int, ch byte) (bool, int) {
	m := len(pattern)
	j := start

	reverse := j+1 < m && (pattern[j+1] == '^' || pattern[j+1] == '!')
	if reverse {
		j++
	}

	matched := false
	lastChr := 256

	for {
		j++

		if !(j < m && pattern[j] != ']') {
			break
		}

		if lastChr < 256 && pattern[j] == '-' && j+1 < m && pattern[j+1] != ']' {
			j++

			if ch <= pattern[j] && int(ch) >= lastChr {
				matched = true
			}
		} else if ch == pattern[j] {
			matched = true
		}

		lastChr = int(pattern[j])
	}

	if matched == reverse {
		return false, j
	}

	if j < m {
		j++ // consume ']'
	}

	return true, j
}

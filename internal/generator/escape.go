package generator

import "strings"

// escapeUnderscores escapes leading underscores with backslashes. Mermaid
// treats __ as formatting markup, so \_\_init__ survives where __init__
// would not.
func escapeUnderscores(name string) string {
	leading := 0
	for leading < len(name) && name[leading] == '_' {
		leading++
	}
	if leading == 0 {
		return name
	}
	return strings.Repeat(`\_`, leading) + name[leading:]
}

// normalizeName backtick-quotes any display name that contains characters
// outside letters, digits, underscores and dashes, which Mermaid cannot use
// as bare identifiers.
func normalizeName(name string) string {
	for _, r := range name {
		switch {
		case r == '_' || r == '-':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r > 127:
		default:
			return "`" + name + "`"
		}
	}
	return name
}

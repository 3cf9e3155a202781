package cliopts

import "fmt"

// escapes maps the recognised two-character escape sequences to the byte
// they denote.
var escapes = map[string]byte{
	`\n`: '\n',
	`\t`: '\t',
	`\0`: 0,
	`\\`: '\\',
	`\'`: '\'',
	`\"`: '"',
}

// parseTerminator turns a --terminator/-z argument into the single byte
// it denotes: either one of the recognised backslash escapes, or a
// literal single-byte string.
func parseTerminator(s string) (byte, error) {
	if len(s) == 2 && s[0] == '\\' {
		if b, ok := escapes[s]; ok {
			return b, nil
		}
		return 0, fmt.Errorf("unrecognised escape sequence %q", s)
	}
	if len(s) == 1 {
		return s[0], nil
	}
	return 0, fmt.Errorf("terminator must be a single byte or one of \\n \\t \\0 \\\\ \\' \\\", got %q", s)
}

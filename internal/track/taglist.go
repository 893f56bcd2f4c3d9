package track

import "strings"

// DefaultSeparator is the single character that, doubled, separates the
// values of a tag-list string.
const DefaultSeparator = '/'

// SplitTagList decodes a tag-list string such as "a//b//c" into its values.
// A backslash before a separator character escapes it, so with the default
// separator "a//b\/\/c" decodes to ["a", "b//c"]. Every decoded value must be
// non-empty.
func SplitTagList(text string, sep rune) ([]string, error) {
	if sep == 0 {
		sep = DefaultSeparator
	}
	half := string(sep)
	parts := strings.Split(text, half+half)
	values := make([]string, len(parts))
	for i, p := range parts {
		v := strings.ReplaceAll(p, `\`+half, half)
		if v == "" {
			return nil, &InvalidListError{Index: i + 1, Input: text}
		}
		values[i] = v
	}
	return values, nil
}

// JoinTagList encodes values as a tag-list string, the inverse of
// SplitTagList for values that do not end in a separator character.
func JoinTagList(values []string, sep rune) string {
	if sep == 0 {
		sep = DefaultSeparator
	}
	half := string(sep)
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = strings.ReplaceAll(v, half, `\`+half)
	}
	return strings.Join(escaped, half+half)
}

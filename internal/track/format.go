package track

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/audiotag/internal/ui/styles"
)

// Default filename patterns.
const (
	PatternSingleDisc = "{N} - {T}"
	PatternMultiDisc  = "{D}-{N} - {T}"
)

// Patterns holds the default filename patterns used when none is given.
type Patterns struct {
	SingleDisc string
	MultiDisc  string
}

// DefaultPatterns returns the built-in single- and multi-disc patterns.
func DefaultPatterns() Patterns {
	return Patterns{SingleDisc: PatternSingleDisc, MultiDisc: PatternMultiDisc}
}

// FormatTags renders "Filename: <path>" followed by one "KEY: value" line
// per tag, keys sorted. Multiple values are joined with ", ". The rich
// variant styles keys, path and multiple values for terminal display and
// strips escape sequences embedded in the data.
func (t *Track) FormatTags(rich bool) string {
	if rich {
		return t.formatTagsRich()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Filename: %s\n", t.path)
	for _, key := range t.sortedKeys() {
		fmt.Fprintf(&b, "%s: %s\n", key, strings.Join(t.tags[key], ", "))
	}
	return b.String()
}

func (t *Track) formatTagsRich() string {
	s := styles.T().S()
	var b strings.Builder
	b.WriteString(s.Key.Render("Filename") + ": " + s.Path.Render(escape(t.path)) + "\n")
	for _, key := range t.sortedKeys() {
		values := t.tags[key]
		var value string
		if len(values) > 1 {
			parts := make([]string, len(values))
			for i, v := range values {
				parts[i] = s.Multiple.Render(escape(v))
			}
			value = strings.Join(parts, ", ")
		} else if len(values) == 1 {
			value = escape(values[0])
		}
		b.WriteString(s.Key.Render(escape(key)) + ": " + value + "\n")
	}
	return b.String()
}

func (t *Track) sortedKeys() []string {
	keys := slices.Collect(maps.Keys(t.tags))
	slices.Sort(keys)
	return keys
}

// escape removes ANSI sequences and other control characters so tag data
// cannot restyle the terminal.
func escape(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// FormatFilename builds a filename (without extension) from pattern. An
// empty pattern selects defaults.MultiDisc when DISCTOTAL > 1 and
// defaults.SingleDisc otherwise. Recognized tokens:
//
//	{A}  artists joined with "-"     {T}  title
//	{L}  album                       {Y}  date
//	{G}  genres joined with "-"      {N}  padded track number
//	{D}  padded disc number          {NO} track total
//	{DO} disc total
//
// "{{" and "}}" produce literal braces. "/" in textual values becomes "-".
func (t *Track) FormatFilename(pattern string, defaults Patterns) (string, error) {
	var missing []Tag
	for _, tag := range requiredForFilename {
		if !t.HasTag(tag) {
			missing = append(missing, tag)
		}
	}
	if len(missing) > 0 {
		return "", &ValidationError{Missing: missing}
	}

	if pattern == "" {
		if defaults.SingleDisc == "" {
			defaults.SingleDisc = PatternSingleDisc
		}
		if defaults.MultiDisc == "" {
			defaults.MultiDisc = PatternMultiDisc
		}
		pattern = defaults.SingleDisc
		if t.DiscTotal() > 1 {
			pattern = defaults.MultiDisc
		}
	}

	tokens := map[string]string{
		"A":  sanitize(strings.Join(t.Artist(), "-")),
		"T":  sanitize(t.Title()),
		"L":  sanitize(t.Album()),
		"Y":  strconv.Itoa(t.Date()),
		"G":  sanitize(strings.Join(t.Genre(), "-")),
		"N":  pad(t.TrackNumber(), t.TrackTotal()),
		"D":  pad(t.DiscNumber(), t.DiscTotal()),
		"NO": strconv.Itoa(t.TrackTotal()),
		"DO": strconv.Itoa(t.DiscTotal()),
	}

	segments, err := parsePattern(pattern)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, seg := range segments {
		if !seg.isPlaceholder {
			b.WriteString(seg.value)
			continue
		}
		v, ok := tokens[seg.value]
		if !ok {
			return "", &ValidationError{Msg: fmt.Sprintf("unknown token {%s} in pattern '%s'", seg.value, pattern)}
		}
		b.WriteString(v)
	}

	out := b.String()
	if out == pattern {
		return "", &ValidationError{Msg: fmt.Sprintf("check if pattern '%s' is correct", pattern)}
	}
	return out, nil
}

// sanitize keeps a value from introducing path separators into a filename.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "/", "-")
}

// pad zero-pads n to the number of digits in total.
func pad(n, total int) string {
	width := 1
	if total > 0 {
		width = len(strconv.Itoa(total))
	}
	return fmt.Sprintf("%0*d", width, n)
}

// segment is either literal text or a placeholder name.
type segment struct {
	isPlaceholder bool
	value         string
}

// parsePattern splits a pattern into literal and placeholder segments.
// Placeholders are {name}; {{ and }} are escaped braces.
func parsePattern(pattern string) ([]segment, error) {
	var segments []segment
	var current []rune
	inPlaceholder := false

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if !inPlaceholder && r == '{' && i+1 < len(runes) && runes[i+1] == '{' {
			current = append(current, '{')
			i++
			continue
		}
		if !inPlaceholder && r == '}' && i+1 < len(runes) && runes[i+1] == '}' {
			current = append(current, '}')
			i++
			continue
		}

		if r == '{' && !inPlaceholder {
			if len(current) > 0 {
				segments = append(segments, segment{value: string(current)})
				current = nil
			}
			inPlaceholder = true
			continue
		}

		if r == '}' && inPlaceholder {
			segments = append(segments, segment{isPlaceholder: true, value: string(current)})
			current = nil
			inPlaceholder = false
			continue
		}

		current = append(current, r)
	}

	if inPlaceholder {
		return nil, &ValidationError{Msg: fmt.Sprintf("unterminated token in pattern '%s'", pattern)}
	}
	if len(current) > 0 {
		segments = append(segments, segment{value: string(current)})
	}
	return segments, nil
}

package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Heading renders text in bold, fading from the primary to the secondary
// theme color across its grapheme clusters.
func (t *Theme) Heading(text string) string {
	clusters := graphemes(text)
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(text)
	}

	colors := blend(len(clusters), t.Primary, t.Secondary)
	var b strings.Builder
	for i, c := range clusters {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors[i].Hex())).
			Bold(true).
			Render(c))
	}
	return b.String()
}

func graphemes(text string) []string {
	var out []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

// blend returns size colors interpolated in HCL space.
func blend(size int, from, to lipgloss.Color) []colorful.Color {
	c1 := toColorful(from)
	c2 := toColorful(to)

	colors := make([]colorful.Color, size)
	for i := range size {
		colors[i] = c1.BlendHcl(c2, float64(i)/float64(size-1)).Clamped()
	}
	return colors
}

// toColorful parses a "#rrggbb" color; ANSI palette indexes become gray.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	gray, _ := colorful.MakeColor(color.Gray{Y: 128})
	return gray
}

package export

import (
	"strings"
	"time"
)

// DefaultLinesPerPage fits a US-letter page at 12pt.
const DefaultLinesPerPage = 56

// TextRenderer lays the report out as plain text. Pages are separated by a
// form feed and each one repeats the title.
type TextRenderer struct {
	LinesPerPage int
}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }
func (TextRenderer) Extension() string   { return "txt" }

func (r TextRenderer) Render(title string, generated time.Time, lines []string) ([]byte, error) {
	per := r.LinesPerPage
	if per <= 0 {
		per = DefaultLinesPerPage
	}

	rule := strings.Repeat("-", MaxLineRunes)
	header := title + "\nGenerated: " + generated.Format(TimeLayout) + "\n" + rule + "\n"

	var b strings.Builder
	b.WriteString(header)
	for i, l := range lines {
		if i > 0 && i%per == 0 {
			b.WriteString("\f")
			b.WriteString(header)
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

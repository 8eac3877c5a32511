package testutil

import "strings"

// Turn closes map text with "go", producing one turn of host input.
// Surrounding blank lines in text are dropped.
func Turn(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "go\n"
	}
	return text + "\ngo\n"
}

// Game concatenates turns into a host input stream.
func Game(turns ...string) string {
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(Turn(t))
	}
	return b.String()
}

// Repeat plays the same map for n turns.
func Repeat(text string, n int) string {
	return strings.Repeat(Turn(text), n)
}

package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const chromaStyle = "github-dark"

// highlighter colors YAML for terminal output.
type highlighter struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

func newHighlighter(profile termenv.Profile) *highlighter {
	formatterName := "noop" // Default to noop formatter.
	switch profile {
	case termenv.TrueColor:
		formatterName = "terminal16m"

	case termenv.ANSI256:
		formatterName = "terminal256"

	case termenv.ANSI:
		formatterName = "terminal8"
	}

	style := styles.Get(chromaStyle)
	if style == nil {
		style = styles.Fallback
	}

	return &highlighter{
		lexer:     chroma.Coalesce(lexers.Get("YAML")),
		formatter: formatters.Get(formatterName),
		style:     style,
	}
}

func (h *highlighter) Highlight(yaml string) (string, error) {
	iterator, err := h.lexer.Tokenise(nil, yaml)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}
	err = h.formatter.Format(buf, h.style, iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	return buf.String(), nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in an int.
}

// writeYAML writes data to w, highlighted when w is a terminal.
func writeYAML(w io.Writer, data []byte) error {
	out := string(data)

	if isTerminal(w) {
		colored, err := newHighlighter(termenv.ColorProfile()).Highlight(out)
		if err == nil {
			out = colored
		}
	}

	_, err := io.WriteString(w, out)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// formatterIndent is the indent the external formatter adds to every line.
const formatterIndent = "   "

const defaultFormatTimeout = 30 * time.Second

// Formatter rewrites the text of one doc-comment block.
type Formatter interface {
	Format(ctx context.Context, text string) (string, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(ctx context.Context, text string) (string, error)

// Format implements Formatter.
func (f FormatterFunc) Format(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// ExecFormatter pipes block text through an external command.
type ExecFormatter struct {
	Command []string
	Timeout time.Duration
}

// Format implements Formatter.
func (e ExecFormatter) Format(ctx context.Context, text string) (string, error) {
	if len(e.Command) == 0 {
		return "", errors.New("no formatter command configured")
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultFormatTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", e.Command[0], err, msg)
		}
		return "", fmt.Errorf("%s: %w", e.Command[0], err)
	}
	return stdout.String(), nil
}

// Span is the byte range of a block's text, excluding its delimiters.
type Span struct {
	Start int
	End   int
}

// Spans returns the text ranges of all terminated blocks in content.
func Spans(content string, markers BlockMarkers) []Span {
	markers = markers.withDefaults()

	var spans []Span
	pos := 0
	for {
		i := strings.Index(content[pos:], markers.Open)
		if i < 0 {
			break
		}
		start := pos + i + len(markers.Open)
		j := strings.Index(content[start:], markers.Close)
		if j < 0 {
			break
		}
		end := start + j
		spans = append(spans, Span{Start: start, End: end})
		pos = end + len(markers.Close)
	}
	return spans
}

// Reformat passes every block in content through f and splices the results
// back. Blocks are rewritten last to first so earlier offsets remain valid.
// It returns the new content and the number of blocks that changed.
func Reformat(ctx context.Context, content string, markers BlockMarkers, f Formatter) (string, int, error) {
	spans := Spans(content, markers)
	changed := 0
	for i := len(spans) - 1; i >= 0; i-- {
		sp := spans[i]
		original := content[sp.Start:sp.End]
		formatted, err := f.Format(ctx, original)
		if err != nil {
			return "", 0, fmt.Errorf("block %d: %w", i+1, err)
		}
		formatted = fitSpan(original, stripIndent(formatted))
		if formatted == original {
			continue
		}
		content = content[:sp.Start] + formatted + content[sp.End:]
		changed++
	}
	return content, changed, nil
}

func stripIndent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, formatterIndent)
	}
	return strings.Join(lines, "\n")
}

// fitSpan keeps the leading and trailing newlines of the original block so
// the delimiters stay on their own lines.
func fitSpan(original, formatted string) string {
	if strings.HasPrefix(original, "\n") && !strings.HasPrefix(formatted, "\n") {
		formatted = "\n" + formatted
	}
	if strings.HasSuffix(original, "\n") && !strings.HasSuffix(formatted, "\n") {
		formatted += "\n"
	}
	return formatted
}

package cdoc

import (
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/example/cdoc/internal/lines"
)

// marker opens a multi-line doc-block when it is alone on its line.
const marker = "///"

// declDelims end the declaration scan when they are the last character of
// a line. A `)` or `;` closing a line inside a default argument or string
// also stops the scan; such declarations are captured truncated.
const declDelims = ");"

var singleLineRe = regexp.MustCompile(`^///\s+(.+)$`)

// Parse extracts every doc-block from r. The only errors returned are read
// errors of r; malformed comments degrade to partial records.
func Parse(r io.Reader) ([]Record, error) {
	return ParseCursor(lines.New(r))
}

// ParseLines is Parse over an in-memory slice of lines.
func ParseLines(ls []string) ([]Record, error) {
	return ParseCursor(lines.FromStrings(ls))
}

// ParseCursor scans c for doc-blocks until the end of input. Records are
// returned in source order. On a read error the records collected so far
// are returned along with the error.
func ParseCursor(c *lines.Cursor) ([]Record, error) {
	var docs []Record
	for {
		tok, err := c.Next()
		if errors.Is(err, lines.ErrEndOfInput) {
			return docs, nil
		}
		if err != nil {
			return docs, err
		}

		if tok.Text == marker {
			rec, err := parseBlock(c)
			if err != nil {
				return docs, err
			}
			docs = append(docs, rec)
			continue
		}
		if m := singleLineRe.FindStringSubmatch(tok.Text); m != nil {
			docs = append(docs, Record{
				Kind:  KindSingleLine,
				Short: &Text{Line: tok.Line, Text: m[1]},
			})
		}
	}
}

// parseBlock reads the body of a multi-line doc-block whose marker has just
// been consumed, then the declaration following it.
func parseBlock(c *lines.Cursor) (Record, error) {
	var b block
	s := stateStart
	for {
		tok, err := c.Next()
		if errors.Is(err, lines.ErrEndOfInput) {
			break
		}
		if err != nil {
			return Record{}, err
		}

		text, ok := trimContinuation(tok.Text)
		if !ok {
			c.Undo()
			break
		}
		var undo bool
		s, undo = b.step(s, lines.Token{Line: tok.Line, Text: text})
		if undo {
			c.Undo()
		}
	}

	rec := b.record()
	decl, err := readDeclaration(c)
	if err != nil {
		return Record{}, err
	}
	if decl != nil {
		rec.Kind = KindFunction
		rec.Declaration = decl
	} else {
		rec.Kind = KindBareBlock
	}
	return rec, nil
}

// trimContinuation strips the `//` prefix of a line inside a doc-block.
// `// ` loses the space too; `//<tab>` and a bare `//` keep what follows.
// ok is false for any other line, which ends the block.
func trimContinuation(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "// "):
		return s[3:], true
	case strings.HasPrefix(s, "//\t"), s == "//":
		return s[2:], true
	}
	return "", false
}

// readDeclaration captures the text following a doc-block up to the first
// line ending in one of declDelims. It returns nil when there is nothing to
// capture: end of input, a blank line, or the start of another doc-block.
// A line of bare terminators still counts and yields empty text.
func readDeclaration(c *lines.Cursor) (*Text, error) {
	tok, err := c.Next()
	if errors.Is(err, lines.ErrEndOfInput) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if tok.Text == "" {
		return nil, nil
	}
	if strings.HasPrefix(tok.Text, marker) {
		c.Undo()
		return nil, nil
	}

	decl := Text{Line: tok.Line, Text: tok.Text}
	for !strings.ContainsAny(decl.Text[len(decl.Text)-1:], declDelims) {
		tok, err := c.Next()
		if errors.Is(err, lines.ErrEndOfInput) {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(tok.Text, marker) {
			c.Undo()
			break
		}
		if part := strings.TrimLeftFunc(tok.Text, unicode.IsSpace); part != "" {
			decl.Text += " " + part
		}
	}

	decl.Text = strings.TrimRight(decl.Text, ";")
	return &decl, nil
}

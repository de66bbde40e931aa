// Package lines provides a line-oriented cursor with a single token of
// pushback. It is the only layer that reads the raw input stream.
package lines

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode"
)

// maxLineSize bounds a single physical line.
const maxLineSize = 1024 * 1024

// ErrEndOfInput is returned by Next once the source is exhausted.
var ErrEndOfInput = errors.New("end of input")

// Token is one physical line of input.
type Token struct {
	Line int    // 1-based line number
	Text string // line text with trailing whitespace removed
}

// Cursor yields the lines of a source as tokens. At most one token can be
// pushed back at a time.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	read    func() (string, error)
	index   int
	last    Token
	started bool
	held    bool
	err     error
}

// New returns a cursor reading lines from r.
func New(r io.Reader) *Cursor {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Cursor{read: func() (string, error) {
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", ErrEndOfInput
	}}
}

// FromStrings returns a cursor over an in-memory slice of lines.
func FromStrings(ls []string) *Cursor {
	i := 0
	return &Cursor{read: func() (string, error) {
		if i >= len(ls) {
			return "", ErrEndOfInput
		}
		i++
		return ls[i-1], nil
	}}
}

// Next returns the next token. If a token was pushed back with Undo, that
// token is returned again without reading the source.
func (c *Cursor) Next() (Token, error) {
	if c.held {
		c.held = false
		return c.last, nil
	}
	if c.err != nil {
		return Token{}, c.err
	}
	text, err := c.read()
	if err != nil {
		if !errors.Is(err, ErrEndOfInput) {
			err = fmt.Errorf("read line %d: %w", c.index+1, err)
		}
		c.err = err
		return Token{}, err
	}
	c.index++
	c.last = Token{
		Line: c.index,
		Text: strings.TrimRightFunc(text, unicode.IsSpace),
	}
	c.started = true
	return c.last, nil
}

// Undo marks the most recently returned token as not consumed, so the next
// call to Next returns it again.
//
// Undo must follow a successful Next; calling it twice without an
// intervening Next panics.
func (c *Cursor) Undo() {
	if !c.started {
		panic("lines: Undo before any token was read")
	}
	if c.held {
		panic("lines: Undo called twice without Next")
	}
	c.held = true
}

// Current returns the last token produced by Next without consuming
// anything. ok is false if no token has been read yet.
func (c *Cursor) Current() (tok Token, ok bool) {
	return c.last, c.started
}

// All returns the remaining tokens as a sequence. The sequence ends quietly
// at end of input; a read error is yielded once as the final element.
func (c *Cursor) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := c.Next()
			if errors.Is(err, ErrEndOfInput) {
				return
			}
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

package cdoc

import (
	"regexp"

	"github.com/example/cdoc/internal/lines"
)

// state is the position of the block parser inside a multi-line doc-block.
type state int

const (
	stateStart   state = iota // expecting the short description
	statePreTags              // skipping blank lines before the tags
	stateTags                 // reading @tags
	statePreDesc              // skipping blank lines before the description
	stateDesc                 // reading the long description
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "START"
	case statePreTags:
		return "PRE-TAGS"
	case stateTags:
		return "TAGS"
	case statePreDesc:
		return "PRE-DESC"
	case stateDesc:
		return "DESC"
	}
	return "state(?)"
}

var tagRe = regexp.MustCompile(`^@([\w-]+)(:?\s*)(.*)$`)

// block accumulates the content of one doc-block.
type block struct {
	short *Text
	tags  []Tag
	desc  *Description
}

// transitions holds one handler per state. A handler receives a line with
// its continuation prefix already removed and returns the next state and
// whether the line must be pushed back to be read again in that state.
var transitions = [...]func(*block, lines.Token) (state, bool){
	stateStart:   (*block).start,
	statePreTags: (*block).preTags,
	stateTags:    (*block).tag,
	statePreDesc: (*block).preDesc,
	stateDesc:    (*block).descLine,
}

func (b *block) step(s state, tok lines.Token) (state, bool) {
	return transitions[s](b, tok)
}

func (b *block) start(tok lines.Token) (state, bool) {
	b.short = &Text{Line: tok.Line, Text: tok.Text}
	return statePreTags, false
}

func (b *block) preTags(tok lines.Token) (state, bool) {
	if tok.Text == "" {
		return statePreTags, false
	}
	return stateTags, true
}

func (b *block) tag(tok lines.Token) (state, bool) {
	m := tagRe.FindStringSubmatch(tok.Text)
	if m == nil {
		return statePreDesc, true
	}
	b.tags = append(b.tags, Tag{Line: tok.Line, Name: m[1], Sep: m[2], Text: m[3]})
	return stateTags, false
}

func (b *block) preDesc(tok lines.Token) (state, bool) {
	if tok.Text == "" {
		return statePreDesc, false
	}
	b.desc = &Description{Line: tok.Line, Lines: []string{tok.Text}}
	return stateDesc, false
}

func (b *block) descLine(tok lines.Token) (state, bool) {
	b.desc.Lines = append(b.desc.Lines, tok.Text)
	return stateDesc, false
}

// record returns the block content; Kind is set by the caller.
func (b *block) record() Record {
	return Record{Short: b.short, Tags: b.tags, Description: b.desc}
}

// Package cdoc extracts structured documentation from `///` comment blocks.
//
// A doc-block begins with a line containing only `///` and continues with
// lines beginning with `//` followed by a space, a tab or nothing; the
// first space after `//` is ignored. Function doc-blocks follow the layout
//
//	///
//	// <mandatory short one-line description>
//	// <optional blank line>
//	// @<1st parameter's name>: <description>
//	// @<2nd parameter's name>: ...
//	// @return: <description> (absent for void functions)
//	// <optional blank line>
//	// <optional long multi-line description>
//	int somefunction(void *ptr, int count);
//
// and must directly precede the function they document. A doc on a single
// line is written `/// text`.
package cdoc

import (
	"regexp"
)

// Kind classifies a Record.
type Kind string

const (
	// KindSingleLine is a `/// text` doc on one physical line.
	KindSingleLine Kind = "single-line"
	// KindFunction is a multi-line block followed by a declaration.
	KindFunction Kind = "function"
	// KindBareBlock is a multi-line block with no declaration after it.
	KindBareBlock Kind = "bare-block"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSingleLine, KindFunction, KindBareBlock:
		return true
	}
	return false
}

// Text is a line of text together with the line it starts on.
type Text struct {
	Line int    `json:"line" yaml:"line"`
	Text string `json:"text" yaml:"text"`
}

// Tag is one `@name: text` line of a function doc-block.
type Tag struct {
	Line int    `json:"line" yaml:"line"`
	Name string `json:"name" yaml:"name"`
	// Sep is the raw separator between the name and the text, normally ": ".
	Sep  string `json:"-" yaml:"-"`
	Text string `json:"text" yaml:"text"`
}

// Description is the free-form long description of a block.
type Description struct {
	Line  int      `json:"line" yaml:"line"`
	Lines []string `json:"lines" yaml:"lines"`
}

// Record is the documentation extracted from one doc-block.
type Record struct {
	Kind        Kind         `json:"kind" yaml:"kind"`
	Short       *Text        `json:"short,omitempty" yaml:"short,omitempty"`
	Tags        []Tag        `json:"tags,omitempty" yaml:"tags,omitempty"`
	Description *Description `json:"description,omitempty" yaml:"description,omitempty"`
	Declaration *Text        `json:"declaration,omitempty" yaml:"declaration,omitempty"`
}

// Tag returns the first tag called name.
func (r Record) Tag(name string) (Tag, bool) {
	for _, t := range r.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// Reference is an `@name` mention inside a description.
type Reference struct {
	Line int
	Name string
}

// referenceRe skips an @ preceded by a word character, as in an address.
var referenceRe = regexp.MustCompile(`(?:^|[^\w])@([\w-]+)`)

// References returns the `@name` mentions found in the description, in
// order of appearance.
func (r Record) References() []Reference {
	if r.Description == nil {
		return nil
	}
	var refs []Reference
	for i, l := range r.Description.Lines {
		for _, m := range referenceRe.FindAllStringSubmatch(l, -1) {
			refs = append(refs, Reference{Line: r.Description.Line + i, Name: m[1]})
		}
	}
	return refs
}

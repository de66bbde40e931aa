// Package validator checks extracted documentation: Lint reports style
// problems in the records of a source file, ValidateDump checks the
// structure of a dump written by `cdoc extract`.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/cdoc/internal/cdoc"
	"github.com/example/cdoc/internal/extractor"
)

// Lint rule names.
const (
	RuleTagSeparator     = "tag-separator"
	RuleDuplicateTag     = "duplicate-tag"
	RuleUnknownReference = "unknown-reference"
	RuleMissingSummary   = "missing-summary"
)

// canonicalSep is the separator expected between a tag name and its text.
const canonicalSep = ": "

// returnTag documents the return value and is never a parameter.
const returnTag = "return"

// Issue is one lint finding.
type Issue struct {
	Path    string `json:"path" yaml:"path"`
	Line    int    `json:"line" yaml:"line"`
	Rule    string `json:"rule" yaml:"rule"`
	Message string `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d: %s (%s)", i.Path, i.Line, i.Message, i.Rule)
}

// Lint returns the issues found in the records of f, ordered by line.
func Lint(f extractor.File) []Issue {
	var issues []Issue
	report := func(line int, rule, format string, args ...interface{}) {
		issues = append(issues, Issue{
			Path:    f.Path,
			Line:    line,
			Rule:    rule,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for _, rec := range f.Records {
		if rec.Kind == cdoc.KindSingleLine {
			continue
		}

		if rec.Short == nil || strings.TrimSpace(rec.Short.Text) == "" {
			report(blockLine(rec), RuleMissingSummary, "doc-block has no short description")
		}

		for _, t := range rec.Tags {
			// A tag with no text has nothing to separate.
			if t.Sep != canonicalSep && t.Text != "" {
				report(t.Line, RuleTagSeparator, "tag @%s should be followed by %q, got %q", t.Name, canonicalSep, t.Sep)
			}
			if first, _ := rec.Tag(t.Name); first.Line != t.Line {
				report(t.Line, RuleDuplicateTag, "tag @%s already documented on line %d", t.Name, first.Line)
			}
		}

		for _, ref := range rec.References() {
			if ref.Name == returnTag {
				continue
			}
			if _, ok := rec.Tag(ref.Name); !ok {
				report(ref.Line, RuleUnknownReference, "description references @%s which is not a documented tag", ref.Name)
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

// blockLine returns the best line to attach a block-level issue to.
func blockLine(rec cdoc.Record) int {
	switch {
	case rec.Short != nil:
		return rec.Short.Line
	case len(rec.Tags) > 0:
		return rec.Tags[0].Line
	case rec.Description != nil:
		return rec.Description.Line
	case rec.Declaration != nil:
		return rec.Declaration.Line
	}
	return 0
}

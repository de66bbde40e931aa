// Package render writes extracted records as a plain text dump, JSON or
// YAML.
package render

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/cdoc/internal/cdoc"
	"github.com/example/cdoc/internal/extractor"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for an unknown Format.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat maps a user supplied name to a Format. "yml" is accepted as
// an alias of "yaml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s (use text, json or yaml)", ErrUnsupportedFormat, s)
}

// Write encodes files to w.
func Write(w io.Writer, format Format, files []extractor.File) error {
	switch format {
	case FormatText:
		return writeText(w, files)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nonNil(files))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nonNil(files)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// nonNil keeps empty results encoded as [] rather than null.
func nonNil(files []extractor.File) []extractor.File {
	if files == nil {
		return []extractor.File{}
	}
	out := make([]extractor.File, len(files))
	for i, f := range files {
		if f.Records == nil {
			f.Records = []cdoc.Record{}
		}
		out[i] = f
	}
	return out
}

func writeText(w io.Writer, files []extractor.File) error {
	bw := bufio.NewWriter(w)
	for _, f := range files {
		if len(files) > 1 {
			fmt.Fprintf(bw, "==> %s <==\n", f.Path)
		}
		for _, rec := range f.Records {
			WriteRecord(bw, rec)
		}
	}
	return bw.Flush()
}

// WriteRecord writes the text dump of a single record.
func WriteRecord(w io.Writer, rec cdoc.Record) {
	fmt.Fprintln(w, "###")
	fmt.Fprintf(w, "type: %s\n", rec.Kind)
	if rec.Short != nil {
		fmt.Fprintf(w, "short:%4d: %s\n", rec.Short.Line, rec.Short.Text)
	}
	for _, t := range rec.Tags {
		fmt.Fprintf(w, "tags: %4d: @%s: %s\n", t.Line, t.Name, t.Text)
	}
	if d := rec.Description; d != nil {
		fmt.Fprintf(w, "desc: %4d:\n\t%s\n", d.Line, strings.Join(d.Lines, "\n\t"))
	}
	if rec.Declaration != nil {
		fmt.Fprintf(w, "decl: %4d: %s\n", rec.Declaration.Line, rec.Declaration.Text)
	}
}

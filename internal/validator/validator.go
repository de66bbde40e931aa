package validator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/example/cdoc/internal/cdoc"
)

// ErrInvalidDump reports a dump whose structure does not match what
// `cdoc extract` produces.
var ErrInvalidDump = errors.New("invalid dump")

// Summary counts what a valid dump contains.
type Summary struct {
	Files   int
	Records int
	Kinds   map[cdoc.Kind]int
}

// ValidateDump checks a JSON or YAML dump written by `cdoc extract`.
func ValidateDump(filename string) (Summary, error) {
	data, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read file: %w", err)
	}
	return ValidateDumpBytes(data)
}

// ValidateDumpBytes is ValidateDump over an in-memory document. JSON is
// accepted since it is a subset of YAML.
func ValidateDumpBytes(data []byte) (Summary, error) {
	var dump []interface{}
	if err := yaml.Unmarshal(data, &dump); err != nil {
		return Summary{}, fmt.Errorf("%w: failed to parse as YAML or JSON: %v", ErrInvalidDump, err)
	}

	sum := Summary{Kinds: make(map[cdoc.Kind]int)}
	for i, f := range dump {
		if err := validateFile(f, &sum); err != nil {
			return Summary{}, fmt.Errorf("%w: file %d: %v", ErrInvalidDump, i, err)
		}
		sum.Files++
	}
	return sum, nil
}

func validateFile(file interface{}, sum *Summary) error {
	f, ok := file.(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid file entry")
	}
	if _, ok := f["path"].(string); !ok {
		return fmt.Errorf("missing or invalid 'path' field")
	}

	records, ok := f["records"].([]interface{})
	if !ok && f["records"] != nil {
		return fmt.Errorf("invalid 'records' field")
	}
	for i, r := range records {
		kind, err := validateRecord(r)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		sum.Records++
		sum.Kinds[kind]++
	}
	return nil
}

func validateRecord(record interface{}) (cdoc.Kind, error) {
	r, ok := record.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid record")
	}

	s, _ := r["kind"].(string)
	kind := cdoc.Kind(s)
	if !kind.Valid() {
		return "", fmt.Errorf("invalid 'kind' value: %q", s)
	}

	if short, ok := r["short"]; ok {
		if _, err := validateText(short); err != nil {
			return "", fmt.Errorf("short: %w", err)
		}
	}

	lastTag := 0
	if tags, ok := r["tags"]; ok {
		list, ok := tags.([]interface{})
		if !ok {
			return "", fmt.Errorf("invalid 'tags' field")
		}
		for i, tag := range list {
			line, err := validateTag(tag)
			if err != nil {
				return "", fmt.Errorf("tag %d: %w", i, err)
			}
			if line <= lastTag {
				return "", fmt.Errorf("tag %d: line %d out of order", i, line)
			}
			lastTag = line
		}
	}

	if desc, ok := r["description"]; ok {
		line, err := validateDescription(desc)
		if err != nil {
			return "", fmt.Errorf("description: %w", err)
		}
		if line <= lastTag {
			return "", fmt.Errorf("description starts on line %d, before the last tag", line)
		}
	}

	_, hasDecl := r["declaration"]
	switch kind {
	case cdoc.KindSingleLine:
		for _, field := range []string{"tags", "description", "declaration"} {
			if _, ok := r[field]; ok {
				return "", fmt.Errorf("single-line record has '%s'", field)
			}
		}
	case cdoc.KindFunction:
		if !hasDecl {
			return "", fmt.Errorf("function record without 'declaration'")
		}
		if _, err := validateText(r["declaration"]); err != nil {
			return "", fmt.Errorf("declaration: %w", err)
		}
	case cdoc.KindBareBlock:
		if hasDecl {
			return "", fmt.Errorf("bare-block record has 'declaration'")
		}
	}
	return kind, nil
}

func validateText(text interface{}) (int, error) {
	t, ok := text.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("invalid text")
	}
	if _, ok := t["text"].(string); !ok {
		return 0, fmt.Errorf("missing 'text' field")
	}
	return validateLine(t)
}

func validateTag(tag interface{}) (int, error) {
	t, ok := tag.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("invalid tag")
	}
	if name, ok := t["name"].(string); !ok || name == "" {
		return 0, fmt.Errorf("missing 'name' field")
	}
	if _, ok := t["text"].(string); !ok {
		return 0, fmt.Errorf("missing 'text' field")
	}
	return validateLine(t)
}

func validateDescription(desc interface{}) (int, error) {
	d, ok := desc.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("invalid description")
	}
	lines, ok := d["lines"].([]interface{})
	if !ok || len(lines) == 0 {
		return 0, fmt.Errorf("missing or empty 'lines' field")
	}
	for i, l := range lines {
		if _, ok := l.(string); !ok {
			return 0, fmt.Errorf("line %d is not a string", i)
		}
	}
	return validateLine(d)
}

func validateLine(m map[string]interface{}) (int, error) {
	line, ok := m["line"].(int)
	if !ok || line < 1 {
		return 0, fmt.Errorf("missing or invalid 'line' field")
	}
	return line, nil
}

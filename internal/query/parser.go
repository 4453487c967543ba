package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads a query list from a .json, .yaml or .yml file. Queries
// without a name are named by their position.
func Parse(path string) ([]Query, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("query: read %s: %w", path, err)
	}

	var qs []Query
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(raw, &qs)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &qs)
	default:
		return nil, fmt.Errorf("query: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("query: parse %s: %w", path, err)
	}

	seen := make(map[string]int, len(qs))
	for i := range qs {
		if qs[i].Name == "" {
			qs[i].Name = fmt.Sprintf("query-%03d", i)
		}
		if err := qs[i].Validate(); err != nil {
			return nil, fmt.Errorf("query: %s: %w", path, err)
		}
		if j, ok := seen[qs[i].Name]; ok {
			return nil, fmt.Errorf("query: %s: %w: %q at %d and %d", path, ErrDuplicateName, qs[i].Name, j, i)
		}
		seen[qs[i].Name] = i
	}
	return qs, nil
}

// Validate checks the name and that both endpoints use exactly one
// supported form.
func (q Query) Validate() error {
	if err := ValidateName(q.Name); err != nil {
		return err
	}
	if err := q.Source.Validate(); err != nil {
		return fmt.Errorf("%s: source: %w", q.Name, err)
	}
	if err := q.Target.Validate(); err != nil {
		return fmt.Errorf("%s: target: %w", q.Name, err)
	}
	return nil
}

func (e Endpoint) Validate() error {
	forms := 0
	if e.Face != nil {
		forms++
		if e.Bary != nil && e.Point != nil {
			return errors.New("bary and point are exclusive")
		}
	} else {
		if e.Bary != nil {
			return errors.New("bary requires face")
		}
		if e.Point != nil {
			forms++
		}
	}
	if e.Ray != nil {
		forms++
	}
	if e.Pixel != nil {
		forms++
	}
	switch {
	case forms == 0:
		return errors.New("empty endpoint")
	case forms > 1:
		return errors.New("endpoint mixes face, point, ray and pixel forms")
	}

	if err := checkLen("bary", e.Bary, 3); err != nil {
		return err
	}
	if err := checkBary(e.Bary); err != nil {
		return err
	}
	if err := checkLen("point", e.Point, 3); err != nil {
		return err
	}
	if err := checkLen("pixel", e.Pixel, 2); err != nil {
		return err
	}
	if e.Ray != nil {
		if err := checkLen("ray origin", e.Ray.Origin, 3); err != nil {
			return err
		}
		if err := checkLen("ray dir", e.Ray.Dir, 3); err != nil {
			return err
		}
	}
	return nil
}

func checkLen(name string, v []float64, n int) error {
	if v != nil && len(v) != n {
		return fmt.Errorf("%s has %d components, want %d", name, len(v), n)
	}
	return nil
}

// ValidateName checks that name can be used as a file name inside the
// output directory.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrBadName)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrBadName, name)
	case name == "." || strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains a relative path element", ErrBadName, name)
	}
	return nil
}

// checkBary rejects weights that would place the point off its face.
func checkBary(w []float64) error {
	if w == nil {
		return nil
	}
	var sum float64
	for _, v := range w {
		if !(v >= 0) {
			return fmt.Errorf("%w: barycentric weight %v", ErrFaceOutside, v)
		}
		sum += v
	}
	if !(sum > 0) {
		return fmt.Errorf("%w: barycentric weights sum to %v", ErrFaceOutside, sum)
	}
	return nil
}

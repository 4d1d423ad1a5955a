package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
)

// ErrNoTemplateRoot is returned by Resolve when neither a templates
// directory nor a loader root is configured.
var ErrNoTemplateRoot = errors.New("MOCK_ITR_LOADER_PATH environment variable not set")

// Resolve returns the templates directory. An explicit override wins;
// otherwise templates live under <root>/mock_lambda/templates.
func Resolve(root, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if root == "" {
		return "", ErrNoTemplateRoot
	}
	return filepath.Join(root, "mock_lambda", "templates"), nil
}

var templateExts = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// LoadDir reads every TPL_* template file in dir in lexical filename order.
// The id is the filename without extension. A missing directory yields an
// empty catalog and a warning; an unreadable or malformed file is an error.
func LoadDir(dir string) (*Catalog, []string, error) {
	ents, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), []string{"templates directory not found: " + dir}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: read dir: %w", err)
	}

	var names []string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "TPL_") || !templateExts[filepath.Ext(name)] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	var warnings []string
	seen := make(map[string]string, len(names))
	for _, name := range names {
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if prev, dup := seen[id]; dup {
			warnings = append(warnings, fmt.Sprintf("template %s: %s overrides %s", id, name, prev))
		}
		seen[id] = name
		data, err := readTemplate(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, Entry{ID: id, Data: data})
	}
	return New(entries...), warnings, nil
}

func readTemplate(path string) (scenario.Representation, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", filepath.Base(path), err)
	}
	if filepath.Ext(path) == ".json" {
		data, err := scenario.ParseText(b)
		if err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", filepath.Base(path), err)
		}
		return data, nil
	}
	var data map[string]any
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", filepath.Base(path), err)
	}
	if data == nil {
		return nil, fmt.Errorf("catalog: parse %s: empty document", filepath.Base(path))
	}
	return data, nil
}

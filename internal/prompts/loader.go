// Package prompts loads the AI prompt templates. Templates live in JSON files
// embedded at compile time and are read once into an immutable Library.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.json
var promptFiles embed.FS

// Library is a read-only set of prompt files, each mapping keys to templates.
// It is safe for concurrent use.
type Library struct {
	files map[string]map[string]string
}

// Load reads the embedded prompt files.
func Load() (*Library, error) {
	return LoadFS(promptFiles)
}

// MustLoad is Load for program start-up; it panics on a broken embed.
func MustLoad() *Library {
	lib, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load prompts: %v", err))
	}
	return lib
}

// LoadFS reads every top-level *.json file in fsys.
func LoadFS(fsys fs.FS) (*Library, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}

	lib := &Library{files: make(map[string]map[string]string, len(names))}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		lib.files[path.Base(name)] = prompts
	}
	return lib, nil
}

// Get retrieves a prompt by filename (e.g. "ats.json") and key.
func (l *Library) Get(filename, key string) (string, error) {
	prompts, ok := l.files[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", filename)
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts required at construction time.
func (l *Library) MustGet(filename, key string) string {
	prompt, err := l.Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// List returns the sorted keys in a prompt file.
func (l *Library) List(filename string) ([]string, error) {
	prompts, ok := l.files[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", filename)
	}
	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Format replaces {{.Key}} placeholders with values from data in a single
// pass, so placeholders inside substituted values stay literal. Unknown
// placeholders are left in place.
func Format(template string, data map[string]string) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

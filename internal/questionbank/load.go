package questionbank

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a question bank.
type File struct {
	Questions []Entry `yaml:"questions"`
}

// Decode converts an untyped configuration value (as produced by viper) into entries.
func Decode(raw any) ([]Entry, error) {
	if raw == nil {
		return nil, nil
	}

	var entries []Entry
	if err := mapstructure.Decode(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	return entries, nil
}

// LoadFile reads entries from a YAML file.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %q: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse question bank %q: %w", path, err)
	}

	if len(file.Questions) == 0 {
		return nil, fmt.Errorf("%q: %w", path, errNoEntries)
	}

	return file.Questions, nil
}

// SaveFile writes entries to a YAML file, replacing its content.
func SaveFile(path string, entries []Entry) error {
	data, err := yaml.Marshal(File{Questions: entries})
	if err != nil {
		return fmt.Errorf("encode question bank: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write question bank %q: %w", path, err)
	}

	return nil
}

// Build resolves the bank from configuration: file entries first, then inline
// entries merged on top. The reference bank is used when neither is set.
func Build(inline any, path string) (*Bank, error) {
	var entries []Entry

	if path != "" {
		fromFile, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		entries = fromFile
	}

	decoded, err := Decode(inline)
	if err != nil {
		return nil, err
	}
	entries = Merge(entries, decoded)

	if len(entries) == 0 {
		return Default(), nil
	}

	return New(entries)
}

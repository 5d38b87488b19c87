package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var dataExtensions = []string{".json", ".yaml", ".yml"}

// FileSource reads interns, destinations and faqs files from a directory.
// Each file wraps its list under the relation name, e.g. {"faqs": [...]}.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Name() string { return "file:" + s.dir }

func (s *FileSource) Load(ctx context.Context) (*Dataset, error) {
	var data Dataset
	for _, relation := range []string{"interns", "destinations", "faqs"} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var part Dataset
		if err := s.readRelation(relation, &part); err != nil {
			return nil, err
		}
		switch relation {
		case "interns":
			data.Interns = part.Interns
		case "destinations":
			data.Destinations = part.Destinations
		case "faqs":
			data.FAQs = part.FAQs
		}
	}
	return &data, nil
}

func (s *FileSource) readRelation(relation string, out *Dataset) error {
	path, err := s.find(relation)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(raw, out)
	} else {
		err = yaml.Unmarshal(raw, out)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (s *FileSource) find(relation string) (string, error) {
	for _, ext := range dataExtensions {
		path := filepath.Join(s.dir, relation+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("no %s data file in %s: %w", relation, s.dir, os.ErrNotExist)
}

// pkg/config/history.go
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arc-language/pyman/pkg/core"
)

// History returns every default creation path ever used.
// An unreadable history is reported as empty.
func (s *Store) History() (*History, error) {
	data, err := afero.ReadFile(s.fs, s.HistoryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &History{}, nil
		}
		return nil, &core.Error{Op: "read history", Path: s.HistoryPath(), Err: err}
	}

	var f historyFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Printf("⚠️  %s is corrupt, starting over: %v", HistoryFileName, err)
		return &History{}, nil
	}
	return &History{UsedPaths: f.Path}, nil
}

// RecordPath adds path to the history if it is not already there
func (s *Store) RecordPath(path string) error {
	h, err := s.History()
	if err != nil {
		return err
	}

	path = filepath.Clean(path)
	if contains(h.UsedPaths, path) {
		return nil
	}

	data, err := json.MarshalIndent(historyFile{Path: append(h.UsedPaths, path)}, "", "    ")
	if err != nil {
		return err
	}
	if err := atomicWriteFile(s.fs, s.HistoryPath(), data, 0644); err != nil {
		return &core.Error{Op: "write history", Path: s.HistoryPath(), Err: err}
	}
	s.logger.Printf("Recorded %s in history", path)
	return nil
}

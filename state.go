package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const stateFileName = "last_ips.json"

// loadState reads the last-seen snapshot from path. A missing, unreadable
// or corrupt file yields an empty snapshot; a run must never fail or
// complain because of stale state.
func loadState(path string) map[string][]string {
	b, err := os.ReadFile(path)
	if err != nil {
		return map[string][]string{}
	}

	state := map[string][]string{}
	if err := json.Unmarshal(b, &state); err != nil {
		return map[string][]string{}
	}

	return state
}

// saveState replaces the snapshot at path atomically. The temporary file is
// a sibling of the target so the final rename never crosses filesystems;
// a crash in between leaves the previous snapshot intact.
func saveState(path string, state map[string][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

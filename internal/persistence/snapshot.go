package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/ohi-sim/internal/game"
)

// EncodeState serializes s as zstd-compressed JSON.
func EncodeState(s game.State) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

// DecodeState reverses EncodeState.
func DecodeState(data []byte) (game.State, error) {
	var s game.State
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return s, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return s, fmt.Errorf("decompress snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("unmarshal state: %w", err)
	}
	return s, nil
}

// WriteSnapshot writes s to path, creating parent directories. The file is
// written beside the target and renamed into place.
func WriteSnapshot(path string, s game.State) error {
	data, err := EncodeState(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// ReadSnapshot loads a state written by WriteSnapshot.
func ReadSnapshot(path string) (game.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return game.State{}, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeState(data)
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const PRESET_FILE = ".clack.json"

// Preset is a named power-on tempo and time signature.
type Preset struct {
	Key     string `json:"key"`
	Tempo   int64  `json:"tempo"`
	Timesig string `json:"timesig"`
}

// DefaultPresetPath is ~/.clack.json.
func DefaultPresetPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locating home directory")
	}
	return filepath.Join(home, PRESET_FILE), nil
}

// LoadPresets reads the presets file. A missing or empty file holds no
// presets.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading presets %s", path)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var presets []Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, errors.Wrapf(err, "decoding presets %s", path)
	}
	return presets, nil
}

func FindPreset(presets []Preset, key string) (Preset, error) {
	for _, p := range presets {
		if p.Key == key {
			return p, nil
		}
	}
	return Preset{}, errors.Errorf("`%v` preset not found", key)
}

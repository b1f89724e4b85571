package apu

import (
	"encoding/json"
	"fmt"
	"os"
)

// MixerConfig mirrors the arguments to SetupMixer.
type MixerConfig struct {
	LowCut   int `json:"low_cut"`
	HighCut  int `json:"high_cut"`
	HighDamp int `json:"high_damp"`
	Volume   int `json:"volume"`
}

// Config is a JSON-serializable description of a sound setup, following
// the teacher's config.go struct-tree-plus-encoding/json shape
// (internal/app/config.go). It exists so a host application can persist
// and replay the call sequence that brings an APU up, rather than
// hand-wiring SetupSound/SetExternalSound/SetupMixer at every startup.
type Config struct {
	SampleRate    int         `json:"sample_rate"`
	Channels      int         `json:"channels"`
	Machine       Machine     `json:"machine"`
	ExternalChips Chip        `json:"external_chips"`
	Mixer         MixerConfig `json:"mixer"`
}

// DefaultConfig returns a Config matching common tracker/player defaults:
// 44.1kHz mono NTSC, no expansion chips, a mild low/high cut and unity
// volume.
func DefaultConfig() Config {
	return Config{
		SampleRate:    44100,
		Channels:      1,
		Machine:       MachineNTSC,
		ExternalChips: 0,
		Mixer: MixerConfig{
			LowCut:   37,
			HighCut:  14000,
			HighDamp: 24,
			Volume:   100,
		},
	}
}

// LoadConfig reads a Config from a JSON file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("apu: load config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("apu: parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the Config to a JSON file.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("apu: marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("apu: save config: %w", err)
	}
	return nil
}

// Apply brings an APU up per this Config: SetupSound, SetExternalSound
// and SetupMixer, in that order.
func (c Config) Apply(a *APU) bool {
	if !a.SetupSound(c.SampleRate, c.Channels, c.Machine) {
		return false
	}
	a.SetExternalSound(c.ExternalChips)
	a.SetupMixer(c.Mixer.LowCut, c.Mixer.HighCut, c.Mixer.HighDamp, c.Mixer.Volume)
	return true
}

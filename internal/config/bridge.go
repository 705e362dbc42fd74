package config

import (
	"os"
	"sync"
)

// BridgeConfig points at the local model bridge script.
type BridgeConfig struct {
	Python string
	Script string
	Dir    string
}

var (
	bridgeConfig *BridgeConfig
	bridgeOnce   sync.Once
)

func LoadBridgeConfig() *BridgeConfig {
	bridgeOnce.Do(func() {
		python := os.Getenv("BRIDGE_PYTHON")
		if python == "" {
			python = "python"
		}
		script := os.Getenv("BRIDGE_SCRIPT")
		if script == "" {
			script = "scripts/intern_bridge.py"
		}
		bridgeConfig = &BridgeConfig{
			Python: python,
			Script: script,
			Dir:    os.Getenv("BRIDGE_DIR"),
		}
	})
	return bridgeConfig
}

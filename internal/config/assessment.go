package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

type AssessmentConfig struct {
	GenerationTimeout time.Duration
	DefaultExpiry     time.Duration
}

var (
	assessmentConfig *AssessmentConfig
	assessmentOnce   sync.Once
)

func LoadAssessmentConfig() *AssessmentConfig {
	assessmentOnce.Do(func() {
		assessmentConfig = &AssessmentConfig{
			GenerationTimeout: time.Duration(intEnv("GENERATION_TIMEOUT_SECONDS", 30)) * time.Second,
			DefaultExpiry:     time.Duration(intEnv("TEST_EXPIRY_HOURS", 24)) * time.Hour,
		}
	})
	return assessmentConfig
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s=%q, defaulting to %d", key, raw, fallback)
		return fallback
	}
	return v
}

package config

import (
	"log"
	"os"
	"sync"
)

type AuthConfig struct {
	JWTSecret string
}

var (
	authConfig *AuthConfig
	authOnce   sync.Once
)

func LoadAuthConfig() *AuthConfig {
	authOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			secret = "talent-assessment-dev-secret"
			log.Println("Warning: JWT_SECRET not set, using development secret")
		}
		authConfig = &AuthConfig{JWTSecret: secret}
	})
	return authConfig
}

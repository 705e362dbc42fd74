package config

import (
	"os"
	"sync"
)

type MailConfig struct {
	APIURL string
	APIKey string
	From   string
}

var (
	mailConfig *MailConfig
	mailOnce   sync.Once
)

func LoadMailConfig() *MailConfig {
	mailOnce.Do(func() {
		mailConfig = &MailConfig{
			APIURL: os.Getenv("MAIL_API_URL"),
			APIKey: os.Getenv("MAIL_API_KEY"),
			From:   os.Getenv("MAIL_FROM"),
		}
	})
	return mailConfig
}

package boot

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env           string `env:"ENV,default=dev"`
	ListenAddress string `env:"LISTEN_ADDRESS,default=:8080"`
	MetricsAddr   string `env:"METRICS_ADDRESS,default=:8081"`
	DataDirectory string `env:"DATA_DIR,default=./data"`

	// TokenSecret signs session and pending-email tokens.
	TokenSecret string `env:"TOKEN_SECRET,required"`

	// AdminListPath points at the env-style file holding ADMIN_EMAILS.
	// It is re-read on every privilege check so edits apply live.
	AdminListPath string `env:"ADMIN_LIST_PATH,default=.env"`

	OTPExpiryMinutes int `env:"OTP_EXPIRY_MINUTES,default=10"`
	OTPLength        int `env:"OTP_LENGTH,default=6"`

	MailHost     string `env:"MAIL_SERVER,default=smtp.gmail.com"`
	MailPort     int    `env:"MAIL_PORT,default=587"`
	MailUsername string `env:"MAIL_USERNAME"`
	MailPassword string `env:"MAIL_PASSWORD"`
	MailSender   string `env:"MAIL_DEFAULT_SENDER"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

func Load() (Config, error) {
	config := Config{}
	if err := envconfig.Process(context.Background(), &config); err != nil {
		return Config{}, fmt.Errorf("parsing env vars: %w", err)
	}
	if config.MailSender == "" {
		config.MailSender = config.MailUsername
	}
	return config, nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c Config) IsProduction() bool {
	return c.Env == "prod"
}

package mailer

// Config holds email delivery configuration. The Postmark tokens are
// optional so development environments can fall back to the DevSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"MAILER_SENDER_EMAIL" envDefault:"no-reply@taskmanagement.local"`
	SupportEmail         string `env:"MAILER_SUPPORT_EMAIL" envDefault:"support@taskmanagement.local"`
	DevOutputDir         string `env:"MAILER_DEV_DIR" envDefault:"./tmp/emails"`
}

// UsesPostmark reports whether the config carries Postmark credentials.
func (c Config) UsesPostmark() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}

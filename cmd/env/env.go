package env

// Prefix is the env-var prefix shared by all subcommands
const Prefix = "RATESYNC"

// Suffixes of well-known environment variables
const (
	DBURLSuffix        = "_DB_URL"
	SMTPPasswordSuffix = "_SMTP_PASSWORD"
)

package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ConfigFlagName is the flag naming the optional JSON or YAML file.
const ConfigFlagName = "config"

// RegisterFlags declares the server flags on fs. Flag defaults are taken
// from a defaults-loaded Config so that --help shows real values; the
// values themselves are only copied by Load when a flag was set.
func RegisterFlags(fs *pflag.FlagSet) {
	d := &Config{}
	d.LoadDefaults()

	fs.StringP(ConfigFlagName, "c", "", "path to a JSON or YAML config file")
	fs.StringP("address", "a", d.HTTPAddress, "address and port to run the HTTP server")
	fs.String("store", d.StoreDriver, "document store driver: postgres, mongo or memory")
	fs.StringP("database-dsn", "d", d.DatabaseDSN, "database DSN (postgres) or connection URI (mongo)")
	fs.String("mongo-database", d.MongoDatabase, "mongo database name")
	fs.String("tag-storage", d.TagStorage, "tag storage strategy: embedded or collection")
	fs.StringP("secret-key", "s", d.SecretKey, "JWT signing secret")
	fs.Duration("access-token-ttl", d.AccessTokenValidityDuration, "access token lifetime")
	fs.Duration("refresh-token-ttl", d.RefreshTokenValidityDuration, "refresh token lifetime")
	fs.Duration("verify-token-ttl", d.VerifyTokenValidityDuration, "email verification token lifetime")
	fs.String("s3-user", d.S3RootUser, "S3 access key")
	fs.String("s3-password", d.S3RootPassword, "S3 secret key")
	fs.String("s3-bucket", d.S3Bucket, "S3 bucket for avatars")
	fs.String("s3-region", d.S3Region, "S3 region")
	fs.String("s3-endpoint", d.S3BaseEndpoint, "S3 base endpoint")
	fs.String("s3-public-url", d.S3PublicBaseURL, "public base URL of uploaded avatars")
	fs.String("default-avatar-url", d.DefaultAvatarURL, "avatar URL for new accounts")
	fs.String("mail-transport", d.MailTransport, "mail transport: smtp, resend or log")
	fs.String("mail-from", d.MailFrom, "sender address")
	fs.String("smtp-host", d.SMTPHost, "SMTP host")
	fs.Int("smtp-port", d.SMTPPort, "SMTP port")
	fs.String("smtp-user", d.SMTPUser, "SMTP user")
	fs.String("smtp-password", d.SMTPPassword, "SMTP password")
	fs.String("resend-api-key", d.ResendAPIKey, "Resend API key")
	fs.String("app-url", d.AppURL, "public client URL used in email links")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.String("log-format", d.LogFormat, "log format: json, text or console")
	fs.String("cors-origin", d.CORSOrigin, "allowed CORS origin")
	fs.Float64("login-rate", d.LoginRateLimit, "auth requests per second per client")
	fs.Int("login-burst", d.LoginRateBurst, "auth request burst per client")
}

// parseFlags copies every flag that was explicitly set onto config.
func parseFlags(config *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = applyFlag(config, fs, f.Name)
	})
	return err
}

func applyFlag(c *Config, fs *pflag.FlagSet, name string) error {
	var err error
	switch name {
	case "address":
		c.HTTPAddress, err = fs.GetString(name)
	case "store":
		c.StoreDriver, err = fs.GetString(name)
	case "database-dsn":
		c.DatabaseDSN, err = fs.GetString(name)
	case "mongo-database":
		c.MongoDatabase, err = fs.GetString(name)
	case "tag-storage":
		c.TagStorage, err = fs.GetString(name)
	case "secret-key":
		c.SecretKey, err = fs.GetString(name)
	case "access-token-ttl":
		c.AccessTokenValidityDuration, err = fs.GetDuration(name)
	case "refresh-token-ttl":
		c.RefreshTokenValidityDuration, err = fs.GetDuration(name)
	case "verify-token-ttl":
		c.VerifyTokenValidityDuration, err = fs.GetDuration(name)
	case "s3-user":
		c.S3RootUser, err = fs.GetString(name)
	case "s3-password":
		c.S3RootPassword, err = fs.GetString(name)
	case "s3-bucket":
		c.S3Bucket, err = fs.GetString(name)
	case "s3-region":
		c.S3Region, err = fs.GetString(name)
	case "s3-endpoint":
		c.S3BaseEndpoint, err = fs.GetString(name)
	case "s3-public-url":
		c.S3PublicBaseURL, err = fs.GetString(name)
	case "default-avatar-url":
		c.DefaultAvatarURL, err = fs.GetString(name)
	case "mail-transport":
		c.MailTransport, err = fs.GetString(name)
	case "mail-from":
		c.MailFrom, err = fs.GetString(name)
	case "smtp-host":
		c.SMTPHost, err = fs.GetString(name)
	case "smtp-port":
		c.SMTPPort, err = fs.GetInt(name)
	case "smtp-user":
		c.SMTPUser, err = fs.GetString(name)
	case "smtp-password":
		c.SMTPPassword, err = fs.GetString(name)
	case "resend-api-key":
		c.ResendAPIKey, err = fs.GetString(name)
	case "app-url":
		c.AppURL, err = fs.GetString(name)
	case "log-level":
		c.LogLevel, err = fs.GetString(name)
	case "log-format":
		c.LogFormat, err = fs.GetString(name)
	case "cors-origin":
		c.CORSOrigin, err = fs.GetString(name)
	case "login-rate":
		c.LoginRateLimit, err = fs.GetFloat64(name)
	case "login-burst":
		c.LoginRateBurst, err = fs.GetInt(name)
	}
	if err != nil {
		return fmt.Errorf("flag --%s: %w", name, err)
	}
	return nil
}

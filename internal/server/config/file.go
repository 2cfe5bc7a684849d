package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/dailyroutine/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Every field is
// optional: only keys present in the file override the current value.
// Durations accept "15m" style strings or integer nanoseconds.
type FileConfig struct {
	HTTPAddress *string `json:"http_address" yaml:"http_address"`

	StoreDriver   *string `json:"store_driver" yaml:"store_driver"`
	DatabaseDSN   *string `json:"database_dsn" yaml:"database_dsn"`
	MongoDatabase *string `json:"mongo_database" yaml:"mongo_database"`
	TagStorage    *string `json:"tag_storage" yaml:"tag_storage"`

	SecretKey                    *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	VerifyTokenValidityDuration  *timex.Duration `json:"verify_token_validity_duration" yaml:"verify_token_validity_duration"`

	S3RootUser       *string `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword   *string `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket         *string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region         *string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   *string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PublicBaseURL  *string `json:"s3_public_base_url" yaml:"s3_public_base_url"`
	DefaultAvatarURL *string `json:"default_avatar_url" yaml:"default_avatar_url"`

	MailTransport *string `json:"mail_transport" yaml:"mail_transport"`
	MailFrom      *string `json:"mail_from" yaml:"mail_from"`
	SMTPHost      *string `json:"smtp_host" yaml:"smtp_host"`
	SMTPPort      *int    `json:"smtp_port" yaml:"smtp_port"`
	SMTPUser      *string `json:"smtp_user" yaml:"smtp_user"`
	SMTPPassword  *string `json:"smtp_password" yaml:"smtp_password"`
	ResendAPIKey  *string `json:"resend_api_key" yaml:"resend_api_key"`
	AppURL        *string `json:"app_url" yaml:"app_url"`

	LogLevel  *string `json:"log_level" yaml:"log_level"`
	LogFormat *string `json:"log_format" yaml:"log_format"`

	CORSOrigin     *string  `json:"cors_origin" yaml:"cors_origin"`
	LoginRateLimit *float64 `json:"login_rate_limit" yaml:"login_rate_limit"`
	LoginRateBurst *int     `json:"login_rate_burst" yaml:"login_rate_burst"`
}

// parseFile reads path and overlays its values onto config. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func parseFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddress, fc.HTTPAddress)
	setString(&c.StoreDriver, fc.StoreDriver)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.MongoDatabase, fc.MongoDatabase)
	setString(&c.TagStorage, fc.TagStorage)
	setString(&c.SecretKey, fc.SecretKey)
	if fc.AccessTokenValidityDuration != nil {
		c.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.RefreshTokenValidityDuration != nil {
		c.RefreshTokenValidityDuration = fc.RefreshTokenValidityDuration.Duration
	}
	if fc.VerifyTokenValidityDuration != nil {
		c.VerifyTokenValidityDuration = fc.VerifyTokenValidityDuration.Duration
	}
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.S3PublicBaseURL, fc.S3PublicBaseURL)
	setString(&c.DefaultAvatarURL, fc.DefaultAvatarURL)
	setString(&c.MailTransport, fc.MailTransport)
	setString(&c.MailFrom, fc.MailFrom)
	setString(&c.SMTPHost, fc.SMTPHost)
	if fc.SMTPPort != nil {
		c.SMTPPort = *fc.SMTPPort
	}
	setString(&c.SMTPUser, fc.SMTPUser)
	setString(&c.SMTPPassword, fc.SMTPPassword)
	setString(&c.ResendAPIKey, fc.ResendAPIKey)
	setString(&c.AppURL, fc.AppURL)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	setString(&c.CORSOrigin, fc.CORSOrigin)
	if fc.LoginRateLimit != nil {
		c.LoginRateLimit = *fc.LoginRateLimit
	}
	if fc.LoginRateBurst != nil {
		c.LoginRateBurst = *fc.LoginRateBurst
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

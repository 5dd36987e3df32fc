// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels     = []string{"debug", "info", "warn", "error", "fatal"}
	validDatabaseTypes = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.cors", "host_cors")

	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.ssl.certificate_path", "host_ssl_certificate_path")
	v.BindEnv("host.ssl.certificate_key_path", "host_ssl_certificate_key_path")

	v.BindEnv("database.type", "database_type")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("security.rate_limit", "security_rate_limit")

	v.BindEnv("mail.enabled", "mail_enabled")
	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender_address", "mail_sender_address")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("verify.lifetime_minutes", "verify_lifetime_minutes")
	v.BindEnv("verify.sweep_interval_hours", "verify_sweep_interval_hours")

	v.BindEnv("quiz.session_ttl_minutes", "quiz_session_ttl_minutes")
	v.BindEnv("quiz.sweep_interval_minutes", "quiz_sweep_interval_minutes")
	v.BindEnv("quiz.max_questions", "quiz_max_questions")
	v.BindEnv("quiz.trust_client_grading", "quiz_trust_client_grading")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors", []string{"http://localhost:5173"})

	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("security.rate_limit", 20)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)

	v.SetDefault("verify.lifetime_minutes", 30)
	v.SetDefault("verify.sweep_interval_hours", 24)

	v.SetDefault("quiz.session_ttl_minutes", 10)
	v.SetDefault("quiz.sweep_interval_minutes", 1)
	v.SetDefault("quiz.max_questions", 10)
	v.SetDefault("quiz.trust_client_grading", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDatabaseTypes, v.GetString("database.type")) {
		return errors.New("invalid database type provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("mail host can't be empty")
		}

		if v.GetString("mail.sender_address") == "" {
			return errors.New("mail sender address can't be empty")
		}
	} else {
		fmt.Println("[WARNING]: Mail delivery is disabled. Verification challenges will only be logged")
	}

	if v.GetInt("verify.lifetime_minutes") <= 0 {
		return errors.New("verify.lifetime_minutes must be bigger than 0")
	}

	if v.GetInt("quiz.session_ttl_minutes") <= 0 {
		return errors.New("quiz.session_ttl_minutes must be bigger than 0")
	}

	if v.GetInt("quiz.max_questions") <= 0 {
		return errors.New("quiz.max_questions must be bigger than 0")
	}

	return nil
}

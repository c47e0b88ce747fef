package logger_test

import (
	"errors"

	"github.com/wonny/investor/pkg/config"
	"github.com/wonny/investor/pkg/logger"
)

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"metric": "ROE",
		"limit":  10,
	}).Info("Ranking computed")
}

// Example_withError demonstrates error logging
func Example_withError() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "console",
	}

	log := logger.New(cfg)

	err := errors.New("companies.csv: no such file")
	log.WithError(err).
		WithField("data_dir", "data").
		Error("Bootstrap failed")
}

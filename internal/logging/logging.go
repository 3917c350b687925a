// Package logging builds the logrus logger shared by commands and the daemon.
package logging

import (
	"io"
	"strings"

	"github.com/theirongolddev/orgchart/internal/config"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to w with the configured level and format.
// Unknown levels fall back to info.
func New(cfg config.LoggingConfig, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

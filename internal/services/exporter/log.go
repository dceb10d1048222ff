package exporter

import "github.com/sirupsen/logrus"

var log = logrus.New()

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

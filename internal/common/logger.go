package common

import (
	"github.com/sirupsen/logrus"
)

// InitLogger receives the log level to be set in logrus as a string and installs a
// timestamped text formatter. An empty level means "info".
func InitLogger(logLevel string) error {
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	logrus.SetLevel(level)
	return nil
}

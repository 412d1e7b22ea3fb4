// Package logging configures the process-wide logrus logger.
package logging

import (
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat/go-file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

const logFileName = "pixhub.log"

type utcFormatter struct {
	logrus.Formatter
}

func (f utcFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Time = entry.Time.UTC()
	return f.Formatter.Format(entry)
}

// Setup sets the level and format of the standard logger. When dir is not
// empty (and not "-"), log lines are also written to a daily rotated file in
// dir, kept for 14 days.
func Setup(dir string, json bool, level string) error {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	formatter := newFormatter(json)
	logrus.SetFormatter(formatter)
	logrus.SetOutput(os.Stdout)

	if dir == "" || dir == "-" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	logFile := filepath.Join(dir, logFileName)
	writer, err := rotatelogs.New(
		logFile+".%Y%m%d",
		rotatelogs.WithLinkName(logFile),
		rotatelogs.WithMaxAge((24*time.Hour)*14),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return err
	}

	logrus.AddHook(lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, formatter))

	return nil
}

func newFormatter(json bool) logrus.Formatter {
	if json {
		return &utcFormatter{&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000 Z07:00",
		}}
	}
	return &utcFormatter{&logrus.TextFormatter{
		TimestampFormat:  "2006-01-02 15:04:05.000 Z07:00",
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	}}
}

package logger

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger emits structured JSON lines: one action per entry plus free-form
// fields. Every entry carries the service name and a session id so that
// log streams from parallel terminal sessions stay distinguishable.
type Logger struct {
	entry *logrus.Entry
}

func New(service string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	if os.Getenv("PIZZA_LOG_DEBUG") != "" {
		l.SetLevel(logrus.DebugLevel)
	}
	return &Logger{entry: l.WithFields(logrus.Fields{
		"service":    service,
		"session_id": uuid.NewString(),
		"hostname":   hostname(),
	})}
}

// SessionID returns the id attached to every entry of this logger.
func (l *Logger) SessionID() string {
	return l.entry.Data["session_id"].(string)
}

func (l *Logger) Info(action string, fields map[string]any) {
	l.entry.WithFields(logrus.Fields(fields)).Info(action)
}

func (l *Logger) Debug(action string, fields map[string]any) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(action)
}

func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.entry.WithFields(logrus.Fields(fields)).WithError(err).Error(action)
}

func hostname() string { h, _ := os.Hostname(); return h }

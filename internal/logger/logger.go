package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init настраивает глобальный логгер: JSON в production, текст в остальных окружениях.
// Пустой или неизвестный level даёт debug для development и info для остальных.
func Init(env, level string) *logrus.Logger {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		if env == "development" {
			lvl = logrus.DebugLevel
		}
	}
	Log.SetLevel(lvl)

	if env == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return Log
}

// Get возвращает глобальный логгер или стандартный, если Init ещё не вызывался.
func Get() *logrus.Logger {
	if Log == nil {
		return logrus.StandardLogger()
	}
	return Log
}

// Component возвращает логгер с полем component.
func Component(name string) *logrus.Entry {
	return Get().WithField("component", name)
}

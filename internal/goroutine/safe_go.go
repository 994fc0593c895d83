package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/arbitration-backend/internal/logger"
)

// PanicLogger получает паники фоновых горутин. По умолчанию - глобальный logrus.
var PanicLogger = func() logrus.FieldLogger { return logger.Get() }

// SafeGo запускает именованную горутину. Паника логируется и не роняет процесс.
func SafeGo(name string, fn func()) {
	go func() {
		defer recoverPanic(name)
		fn()
	}()
}

// SafeGoWithContext запускает именованную горутину с контекстом.
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer recoverPanic(name)
		fn(ctx)
	}()
}

func recoverPanic(name string) {
	if r := recover(); r != nil {
		PanicLogger().WithFields(logrus.Fields{
			"goroutine": name,
			"panic":     r,
			"stack":     string(debug.Stack()),
		}).Error("goroutine: паника перехвачена")
	}
}

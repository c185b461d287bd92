package safe

import (
	"log/slog"
	"runtime/debug"
)

// Run executes fn and turns any panic into an error log with the stack
// attached. Cron jobs and detached goroutines go through here so a single
// bad record never takes the process down.
func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn()
}

// RunWithComponent is Run with a component tag for grepping logs.
func RunWithComponent(fn func(), component string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", component),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn()
}

package safe

import (
	"log/slog"
	"runtime/debug"
	"strings"
)

// Run executes fn and turns any panic into an error log with a trimmed stack
// instead of tearing the process down.
func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", "safe.Run"),
				slog.String("stack", stackTrace()),
			)
		}
	}()

	fn()
}

// Go runs fn on its own goroutine with the same panic recovery as Run.
func Go(fn func()) {
	go Run(fn)
}

func stackTrace() string {
	lines := strings.Split(string(debug.Stack()), "\n")

	// skip the frames introduced by the recover plumbing itself
	const skip = 3
	var formatted []string
	formatted = append(formatted, "Stack trace:")
	if len(lines) > 0 {
		formatted = append(formatted, "  "+lines[0])
	}
	for i := skip; i < len(lines) && i < skip+20; i++ {
		line := strings.TrimSpace(lines[i])
		if line != "" {
			formatted = append(formatted, "  "+line)
		}
	}
	if len(lines) > skip+20 {
		formatted = append(formatted, "  ... (truncated)")
	}
	return strings.Join(formatted, "\n")
}

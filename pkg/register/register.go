// Package register collects init-time constructor hooks so packages can
// contribute setup steps without import cycles. Stores register themselves
// against the provider's key and the provider replays the hooks once its
// connections exist.
package register

import "sync"

var (
	mu       sync.RWMutex
	handlers = make(map[any][]any)
)

type Handler[T any] func(T)

func RegisterFunc[T any](key any, handler Handler[T]) {
	mu.Lock()
	defer mu.Unlock()
	handlers[key] = append(handlers[key], handler)
}

// ResolveFuncHandlers returns the hooks registered under key whose type
// matches T, in registration order.
func ResolveFuncHandlers[T any](key any) []Handler[T] {
	mu.RLock()
	defer mu.RUnlock()

	var result []Handler[T]
	for _, v := range handlers[key] {
		if h, ok := v.(Handler[T]); ok {
			result = append(result, h)
		}
	}
	return result
}

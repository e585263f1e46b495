// Package lifecycle sequences graceful shutdown: the server, the observer
// hub's stores and the database pools are registered as hooks and stopped
// in reverse registration order once a termination signal arrives.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc stops one component. It should respect ctx's deadline.
type ShutdownFunc func(ctx context.Context) error

type shutdownHook struct {
	name string
	stop ShutdownFunc
}

// Manager collects shutdown hooks and runs them under a shared deadline.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	hooks []shutdownHook
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Register adds a named hook. Registration order matters: components are
// stopped last-registered first, so dependents go down before their
// dependencies.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, shutdownHook{name: name, stop: fn})
}

// Shutdown runs every hook in reverse order under the configured timeout.
// A failing hook is logged and does not stop the remaining ones; the
// joined error is returned at the end.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result error
	for i := len(m.hooks) - 1; i >= 0; i-- {
		h := m.hooks[i]
		if err := h.stop(ctx); err != nil {
			m.logger.Error("component failed to stop",
				zap.String("component", h.name), zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped", zap.String("component", h.name))
	}
	return result
}

// Listen watches for SIGTERM/SIGINT in the background and invokes cancel
// when one arrives, letting main fall through to Shutdown.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}

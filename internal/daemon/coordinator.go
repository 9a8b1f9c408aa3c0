package daemon

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// maxWakeLine bounds how much a single connection may send.
const maxWakeLine = 256

// CoordinatorConfig holds single-instance coordination timings.
type CoordinatorConfig struct {
	DialTimeout time.Duration // client connect timeout
	ReadTimeout time.Duration // per-connection read deadline on the owner
	RetryDelay  time.Duration // wait before re-opening a failed listener
}

// DefaultCoordinatorConfig returns default coordination timings.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		DialTimeout: 200 * time.Millisecond,
		ReadTimeout: 2 * time.Second,
		RetryDelay:  time.Second,
	}
}

// Coordinator decides whether this process owns the app and, as owner,
// listens for wake commands from later instances.
type Coordinator struct {
	config    CoordinatorConfig
	lock      domain.InstanceLock
	transport domain.WakeTransport
	logger    *zap.Logger
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(
	config CoordinatorConfig,
	lock domain.InstanceLock,
	transport domain.WakeTransport,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		config:    config,
		lock:      lock,
		transport: transport,
		logger:    logger,
	}
}

// Acquire takes the instance lock. A held lock means RoleClient, not an error.
func (c *Coordinator) Acquire() (domain.InstanceRole, error) {
	ok, err := c.lock.TryAcquire()
	if err != nil {
		return "", fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	if !ok {
		return domain.RoleClient, nil
	}
	return domain.RoleOwner, nil
}

// NotifyOwner sends one wake command to the owner and disconnects.
func (c *Coordinator) NotifyOwner() error {
	conn, err := c.transport.Dial(c.config.DialTimeout)
	if err != nil {
		return fmt.Errorf("failed to reach running instance at %s: %w", c.transport.Address(), err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(c.config.ReadTimeout))
	if _, err := io.WriteString(conn, domain.WakeCommand+"\n"); err != nil {
		return fmt.Errorf("failed to send wake command: %w", err)
	}
	return nil
}

// Serve listens for wake commands until ctx is canceled, calling onWake for
// each one. onWake may run on several goroutines at once. Connection errors
// are swallowed and a failed listener is re-opened.
func (c *Coordinator) Serve(ctx context.Context, onWake func()) error {
	c.logger.Info("wake listener started", zap.String("address", c.transport.Address()))

	for {
		ln, err := c.transport.Listen()
		if err != nil {
			c.logger.Warn("failed to open wake channel", zap.Error(err))
		} else {
			stop := context.AfterFunc(ctx, func() { ln.Close() })
			err = c.acceptLoop(ctx, ln, onWake)
			stop()
			ln.Close()

			if ctx.Err() == nil {
				c.logger.Warn("wake listener failed, reopening", zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			c.logger.Info("wake listener stopping")
			return nil
		case <-time.After(c.config.RetryDelay):
		}
	}
}

// acceptLoop serves each connection on its own goroutine until the listener
// fails, so a client that never writes cannot hold up the next one.
func (c *Coordinator) acceptLoop(ctx context.Context, ln net.Listener, onWake func()) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.handle(ctx, conn, onWake)
		}()
	}
}

// handle reads lines until EOF, deadline or ctx cancellation. Anything but the
// wake command is ignored.
func (c *Coordinator) handle(ctx context.Context, conn net.Conn, onWake func()) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	_ = conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

	reader := bufio.NewReader(io.LimitReader(conn, maxWakeLine))
	for {
		line, err := reader.ReadString('\n')
		if cmd := strings.TrimRight(line, "\r\n"); cmd == domain.WakeCommand {
			onWake()
		} else if cmd != "" {
			c.logger.Debug("ignoring unknown wake message", zap.String("message", cmd))
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.logger.Debug("wake connection error", zap.Error(err))
			}
			return
		}
	}
}

// Close releases the instance lock.
func (c *Coordinator) Close() error {
	return c.lock.Release()
}

//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_app/internal/daemon"
	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
	"github.com/eliteGoblin/focusd/focus_app/internal/infra"
	"github.com/eliteGoblin/focusd/focus_app/internal/policy"
	"github.com/eliteGoblin/focusd/focus_app/internal/usecase"
	"github.com/eliteGoblin/focusd/focus_app/test/fixtures"
)

const ownerExecPath = "/opt/focusapp/focusapp"

// owner is a fully wired owner instance over a temporary data directory.
type owner struct {
	paths       *infra.Paths
	coordinator *daemon.Coordinator
	shell       *daemon.Shell
	loop        *daemon.Loop
	watchdog    *usecase.Watchdog
	allowList   *policy.AllowList
	store       *infra.JSONAllowListStore
	journal     *infra.EncryptedJournal
	desktop     *fixtures.FakeDesktop
	notifier    *fixtures.RecordingNotifier
	startup     *fixtures.StartupRecorder
	window      *infra.HeadlessWindow

	cancel context.CancelFunc
	done   chan error
}

// newDataDir returns a short temp dir so the wake socket path stays valid.
func newDataDir() string {
	dir, err := os.MkdirTemp("", "fa")
	Expect(err).NotTo(HaveOccurred())
	return dir
}

func newCoordinator(paths *infra.Paths) *daemon.Coordinator {
	return daemon.NewCoordinator(
		daemon.DefaultCoordinatorConfig(),
		infra.NewInstanceLock(paths),
		infra.NewWakeTransport(paths),
		zap.NewNop(),
	)
}

// startOwner acquires the instance lock in dataDir and runs the shell.
func startOwner(dataDir string, config daemon.ShellConfig) *owner {
	paths := infra.PathsFor(dataDir)
	o := &owner{
		paths:       paths,
		coordinator: newCoordinator(paths),
		loop:        daemon.NewLoop(daemon.DefaultLoopBuffer),
		store:       infra.NewAllowListStore(filepath.Join(paths.DataDir, infra.DefaultAllowListFile)),
		desktop:     fixtures.NewFakeDesktop(),
		notifier:    &fixtures.RecordingNotifier{},
		startup:     &fixtures.StartupRecorder{},
		window:      infra.NewHeadlessWindow(true),
		done:        make(chan error, 1),
	}

	role, err := o.coordinator.Acquire()
	Expect(err).NotTo(HaveOccurred())
	Expect(role).To(Equal(domain.RoleOwner))

	o.journal, err = infra.OpenJournal(dataDir)
	Expect(err).NotTo(HaveOccurred())

	o.allowList = policy.NewAllowList(daemon.LoadAllowList(o.store, zap.NewNop())...)
	o.watchdog = usecase.NewWatchdog(usecase.DefaultWatchdogConfig(), o.desktop, o.allowList, o.store,
		o.notifier, o.journal, o.loop, zap.NewNop())
	o.shell = daemon.NewShell(config, o.loop, o.coordinator, o.watchdog, o.allowList, o.store,
		o.window, o.startup, ownerExecPath, zap.NewNop())

	var ctx context.Context
	ctx, o.cancel = context.WithCancel(context.Background())
	go func() { o.done <- o.shell.Run(ctx) }()

	// The owner is ready once a client can reach it.
	Eventually(func() error {
		conn, err := infra.NewWakeTransport(paths).Dial(daemon.DefaultCoordinatorConfig().DialTimeout)
		if err != nil {
			return err
		}
		return conn.Close()
	}).Should(Succeed())
	return o
}

// onLoop runs fn on the owner's UI loop and waits for it.
func (o *owner) onLoop(fn func()) {
	Expect(o.loop.Call(fn)).To(BeTrue(), "owner loop is not running")
}

func (o *owner) state() domain.WatchState {
	var s domain.WatchState
	o.onLoop(func() { s = o.shell.State() })
	return s
}

// stop quits the owner and releases everything it holds.
func (o *owner) stop() {
	o.cancel()
	Eventually(o.done).Should(Receive())
	Expect(o.coordinator.Close()).To(Succeed())
	Expect(o.journal.Close()).To(Succeed())
}

//go:build integration

package integration

import (
	"errors"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eliteGoblin/focusd/focus_app/internal/daemon"
	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

const (
	editorPath = `C:\Program Files\Editor\editor.exe`
	gamePath   = `C:\Games\game.exe`
)

var _ = Describe("Watchdog", func() {
	var (
		dataDir string
		o       *owner
	)

	BeforeEach(func() {
		dataDir = newDataDir()
		o = startOwner(dataDir, daemon.ShellConfig{StartupOnClose: true})
		o.onLoop(func() { o.shell.AddApp(editorPath) })
	})

	AfterEach(func() {
		o.stop()
		os.RemoveAll(dataDir)
	})

	Context("when the foreground app is allowed", func() {
		It("should leave it alone, ignoring case", func() {
			o.desktop.Focus(1, 100, `c:\program files\EDITOR\Editor.EXE`)
			o.onLoop(func() { o.shell.StartWatching("1") })

			Consistently(o.desktop.Minimized, 2500*time.Millisecond).Should(BeEmpty())
			Expect(o.notifier.Messages()).To(BeEmpty())
		})
	})

	Context("when the foreground app is not allowed", func() {
		It("should notify, minimize and journal every tick", func() {
			o.desktop.Focus(7, 200, gamePath)
			o.onLoop(func() { o.shell.StartWatching("1") })

			Eventually(o.desktop.Minimized, 3*time.Second).Should(HaveLen(2))
			Expect(o.desktop.Minimized()).To(HaveEach(uintptr(7)))

			messages := o.notifier.Messages()
			Expect(len(messages)).To(BeNumerically(">=", 2))
			Expect(messages[0]).To(ContainSubstring("#1"))
			Expect(messages[1]).To(ContainSubstring("#2"))

			var summary *domain.DistractionSummary
			Eventually(func(g Gomega) {
				var err error
				summary, err = o.journal.Summary(time.Now().Add(-time.Minute))
				g.Expect(err).NotTo(HaveOccurred())
				g.Expect(summary.Total).To(BeNumerically(">=", 2))
			}, 2*time.Second).Should(Succeed())
			Expect(summary.Sessions).To(Equal(1))
			Expect(summary.TopPaths).NotTo(BeEmpty())
			Expect(summary.TopPaths[0].ExecutablePath).To(Equal(gamePath))
		})
	})

	Context("when the foreground cannot be resolved", func() {
		It("should skip the tick without counting", func() {
			o.desktop.Fail(errors.New("access denied"))
			o.onLoop(func() { o.shell.StartWatching("1") })

			Consistently(o.desktop.Minimized, 2500*time.Millisecond).Should(BeEmpty())
			var count int
			o.onLoop(func() { count = o.watchdog.Distractions() })
			Expect(count).To(Equal(0))
		})
	})

	Context("when watching stops", func() {
		It("should stop reacting", func() {
			o.desktop.Focus(7, 200, gamePath)
			o.onLoop(func() { o.shell.StartWatching("1") })
			Eventually(o.desktop.Minimized, 3*time.Second).ShouldNot(BeEmpty())

			o.onLoop(func() { o.shell.StopWatching() })
			seen := len(o.desktop.Minimized())

			Consistently(func() int { return len(o.desktop.Minimized()) }, 2500*time.Millisecond).Should(Equal(seen))
			Expect(o.state()).To(Equal(domain.StateIdle))
		})
	})

	Context("when the window is closed while idle", func() {
		It("should start watching and register launch at login", func() {
			o.onLoop(func() { o.shell.RequestClose() })

			Expect(o.state()).To(Equal(domain.StateWatching))
			Expect(o.startup.Target()).To(Equal(ownerExecPath))
		})
	})

	Context("when the allow-list is edited", func() {
		It("should persist it for the next run", func() {
			o.onLoop(func() { o.shell.AddApp(`C:\Tools\term.exe`) })

			entries, err := o.store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(Equal([]string{editorPath, `C:\Tools\term.exe`}))
		})
	})
})

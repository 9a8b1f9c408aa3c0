//go:build integration

package integration

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eliteGoblin/focusd/focus_app/internal/daemon"
	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
	"github.com/eliteGoblin/focusd/focus_app/internal/infra"
)

var _ = Describe("Single instance", func() {
	var (
		dataDir string
		first   *owner
	)

	BeforeEach(func() {
		dataDir = newDataDir()
		first = startOwner(dataDir, daemon.ShellConfig{})
	})

	AfterEach(func() {
		if first != nil {
			first.stop()
		}
		os.RemoveAll(dataDir)
	})

	Context("when a second instance starts", func() {
		It("should become a client", func() {
			second := newCoordinator(infra.PathsFor(dataDir))
			role, err := second.Acquire()
			Expect(err).NotTo(HaveOccurred())
			Expect(role).To(Equal(domain.RoleClient))
		})

		It("should bring the hidden owner window back", func() {
			first.onLoop(func() { first.shell.RequestClose() })
			Expect(first.window.IsVisible()).To(BeFalse())

			second := newCoordinator(infra.PathsFor(dataDir))
			Expect(second.NotifyOwner()).To(Succeed())

			Eventually(first.window.IsVisible, 2*time.Second).Should(BeTrue())
			Eventually(first.window.Activations, 2*time.Second).Should(Equal(1))
		})

		It("should keep serving later clients", func() {
			for i := 0; i < 3; i++ {
				Expect(newCoordinator(infra.PathsFor(dataDir)).NotifyOwner()).To(Succeed())
			}
			Eventually(first.window.Activations, 2*time.Second).Should(Equal(3))
		})
	})

	Context("when the owner exits", func() {
		It("should let the next instance take ownership", func() {
			first.stop()
			first = nil

			next := newCoordinator(infra.PathsFor(dataDir))
			role, err := next.Acquire()
			Expect(err).NotTo(HaveOccurred())
			Expect(role).To(Equal(domain.RoleOwner))
			Expect(next.Close()).To(Succeed())
		})
	})

	Context("when the window is closed", func() {
		It("should keep watching at the default interval and register startup", func() {
			first.onLoop(func() { first.shell.RequestClose() })

			Expect(first.state()).To(Equal(domain.StateWatching))
			Expect(first.shell.IntervalText()).To(Equal("20"))
			Expect(first.window.IsVisible()).To(BeFalse())
		})
	})
})

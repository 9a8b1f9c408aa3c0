package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/focus_app/internal/daemon"
	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
	"github.com/eliteGoblin/focusd/focus_app/internal/infra"
	"github.com/eliteGoblin/focusd/focus_app/internal/policy"
)

var allowCmd = &cobra.Command{
	Use:   "allow",
	Short: "Show or edit the allow-list",
	Long: `Shows or edits the list of executables that count as on-task.
Entries are full executable paths, matched case-insensitively.

Edits are refused while focusapp is running; use its window instead.`,
}

var allowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List allowed executables",
	Args:  cobra.NoArgs,
	RunE:  runAllowList,
}

var allowAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Allow an executable",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowAdd,
}

var allowRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove an executable from the allow-list",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowRemove,
}

func init() {
	allowCmd.AddCommand(allowListCmd)
	allowCmd.AddCommand(allowAddCmd)
	allowCmd.AddCommand(allowRemoveCmd)
}

func runAllowList(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	store := infra.NewAllowListStore(env.allowListPath())
	entries, err := store.Load()
	if err != nil {
		return err
	}

	fmt.Printf("Allow-list: %s\n", store.Path())
	if len(entries) == 0 {
		fmt.Println("  (empty - every app counts as a distraction)")
		return nil
	}
	for i, entry := range entries {
		fmt.Printf("  %3d  %s\n", i+1, entry)
	}
	return nil
}

func runAllowAdd(cmd *cobra.Command, args []string) error {
	return editAllowList(func(list *policy.AllowList) error {
		if !list.Add(args[0]) {
			return fmt.Errorf("invalid path %q: must be non-blank UTF-8", args[0])
		}
		fmt.Printf("Allowed %s\n", args[0])
		return nil
	})
}

func runAllowRemove(cmd *cobra.Command, args []string) error {
	return editAllowList(func(list *policy.AllowList) error {
		if !list.Remove(args[0]) {
			return fmt.Errorf("not in allow-list: %s", args[0])
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	})
}

// editAllowList holds the instance lock while it loads, edits and saves the
// allow-list, so no owner can start and overwrite the change.
func editAllowList(edit func(list *policy.AllowList) error) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	release, err := holdInstanceLock(env)
	if err != nil {
		return err
	}
	defer release()

	store := infra.NewAllowListStore(env.allowListPath())
	entries, err := store.Load()
	if err != nil {
		return fmt.Errorf("%w (fix or delete %s)", err, store.Path())
	}

	list := policy.NewAllowList(entries...)
	if err := edit(list); err != nil {
		return err
	}
	return store.Save(list.Items())
}

// holdInstanceLock takes the single-instance lock or fails with
// domain.ErrInstanceRunning.
func holdInstanceLock(env *appEnv) (func(), error) {
	lock := infra.NewInstanceLock(env.paths)
	acquired, err := lock.TryAcquire()
	if err != nil {
		return nil, fmt.Errorf("failed to check instance lock: %w", err)
	}
	if !acquired {
		return nil, domain.ErrInstanceRunning
	}
	return func() { _ = lock.Release() }, nil
}

// ownerRunning reports whether an owner is running. An owner answering on
// the wake channel settles it; the lock is only taken when nobody answers,
// which keeps status from turning a concurrent launch into a client.
func ownerRunning(env *appEnv) (bool, error) {
	conn, err := infra.NewWakeTransport(env.paths).Dial(daemon.DefaultCoordinatorConfig().DialTimeout)
	if err == nil {
		conn.Close()
		return true, nil
	}

	release, err := holdInstanceLock(env)
	if errors.Is(err, domain.ErrInstanceRunning) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	release()
	return false, nil
}

package daemon

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const consoleHelp = `commands:
  start [seconds]   start watching (default: current interval)
  stop              stop watching
  add <path>        allow an executable
  remove <path>     disallow an executable
  list              show the allow-list
  status            show the watch state
  close             hide and keep watching in the background
  show              bring the window back
  quit              exit
`

// Console drives the shell from line commands, standing in for the window's
// buttons when the app runs in a terminal.
type Console struct {
	shell *Shell
	in    io.Reader
	out   io.Writer
	quit  func()
}

// NewConsole creates a console reading in and writing to out. quit ends the app.
func NewConsole(shell *Shell, in io.Reader, out io.Writer, quit func()) *Console {
	return &Console{shell: shell, in: in, out: out, quit: quit}
}

// Run reads commands until EOF or quit. Each command runs on the UI loop.
func (c *Console) Run() {
	fmt.Fprint(c.out, "focusapp ready. type 'help' for commands.\n")

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			c.quit()
			return
		}
		if !c.shell.loop.Call(func() { c.execute(line) }) {
			return
		}
	}
}

func (c *Console) execute(line string) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "help", "?":
		fmt.Fprint(c.out, consoleHelp)

	case "start":
		text := arg
		if text == "" {
			text = c.shell.IntervalText()
		}
		c.shell.StartWatching(text)
		fmt.Fprintf(c.out, "watching every %ss\n", c.shell.IntervalText())

	case "stop":
		c.shell.StopWatching()
		fmt.Fprintln(c.out, "stopped")

	case "add":
		if c.shell.AddApp(arg) {
			fmt.Fprintf(c.out, "allowed %s\n", arg)
		} else {
			fmt.Fprintln(c.out, "usage: add <path>")
		}

	case "remove", "rm":
		if c.shell.RemoveApp(arg) {
			fmt.Fprintf(c.out, "removed %s\n", arg)
		} else {
			fmt.Fprintf(c.out, "not in allow-list: %s\n", arg)
		}

	case "list", "ls":
		items := c.shell.allowList.Items()
		if len(items) == 0 {
			fmt.Fprintln(c.out, "allow-list is empty")
		}
		for i, item := range items {
			fmt.Fprintf(c.out, "%3d  %s\n", i+1, item)
		}

	case "status":
		fmt.Fprintf(c.out, "state: %s, interval: %ss, distractions: %d\n",
			c.shell.State(), c.shell.IntervalText(), c.shell.watchdog.Distractions())

	case "close":
		c.shell.RequestClose()
		fmt.Fprintln(c.out, "running in background")

	case "show":
		c.shell.OnWake()

	default:
		fmt.Fprintf(c.out, "unknown command %q, type 'help'\n", cmd)
	}
}

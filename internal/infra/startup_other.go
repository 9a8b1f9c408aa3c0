//go:build !windows

package infra

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
)

// LaunchAgentLabel identifies the macOS login item.
const LaunchAgentLabel = "com.focusd.focusapp"

// AutostartFormat selects the login-item file format.
type AutostartFormat string

const (
	FormatLaunchAgent AutostartFormat = "launchagent" // macOS ~/Library/LaunchAgents
	FormatDesktop     AutostartFormat = "desktop"     // XDG ~/.config/autostart
)

// LaunchAgent plist template (runs as user at login, never kept alive)
const launchAgentTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>

    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
{{- range .Args}}
        <string>{{.}}</string>
{{- end}}
    </array>

    <key>WorkingDirectory</key>
    <string>{{.WorkingDirectory}}</string>

    <key>RunAtLoad</key>
    <true/>

    <key>ProcessType</key>
    <string>Interactive</string>
</dict>
</plist>
`

// XDG desktop entry template
const desktopEntryTemplate = `[Desktop Entry]
Type=Application
Name=Focus App
Comment=Keeps you on the apps you allowed
Exec={{.Exec}}
Path={{.WorkingDirectory}}
Terminal=false
X-GNOME-Autostart-enabled=true
`

type autostartConfig struct {
	Label            string
	ExecutablePath   string
	Args             []string
	Exec             string
	WorkingDirectory string
}

// AutostartRegistrar implements domain.StartupRegistrar with a templated login item.
type AutostartRegistrar struct {
	format AutostartFormat
	path   string
}

// NewStartupRegistrar picks the login-item format for this OS.
func NewStartupRegistrar() domain.StartupRegistrar {
	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return NewAutostartRegistrar(FormatLaunchAgent,
			filepath.Join(home, "Library/LaunchAgents", LaunchAgentLabel+".plist"))
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = filepath.Join(home, ".config")
	}
	return NewAutostartRegistrar(FormatDesktop, filepath.Join(configDir, "autostart", "focusapp.desktop"))
}

// NewAutostartRegistrar creates a registrar writing format at path.
func NewAutostartRegistrar(format AutostartFormat, path string) *AutostartRegistrar {
	return &AutostartRegistrar{format: format, path: path}
}

// generateContent renders the entry for execPath.
func (r *AutostartRegistrar) generateContent(execPath string) ([]byte, error) {
	var tmplStr string
	switch r.format {
	case FormatLaunchAgent:
		tmplStr = launchAgentTemplate
	case FormatDesktop:
		tmplStr = desktopEntryTemplate
	default:
		return nil, fmt.Errorf("unknown autostart format %q", r.format)
	}

	config := autostartConfig{
		Label:            LaunchAgentLabel,
		ExecutablePath:   execPath,
		Args:             startupArgv,
		Exec:             desktopExec(execPath, startupArgv),
		WorkingDirectory: filepath.Dir(execPath),
	}

	tmpl, err := template.New(string(r.format)).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse autostart template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, config); err != nil {
		return nil, fmt.Errorf("failed to execute autostart template: %w", err)
	}
	return buf.Bytes(), nil
}

// Register writes the entry. An identical existing entry is left untouched.
func (r *AutostartRegistrar) Register(execPath string) error {
	content, err := r.generateContent(execPath)
	if err != nil {
		return err
	}

	if current, err := os.ReadFile(r.path); err == nil && bytes.Equal(current, content) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(r.path, content, 0644)
}

// NeedsUpdate reports whether an existing entry points somewhere other than execPath.
func (r *AutostartRegistrar) NeedsUpdate(execPath string) bool {
	current, err := os.ReadFile(r.path)
	if err != nil {
		return false // Doesn't exist, needs register not update
	}
	expected, err := r.generateContent(execPath)
	if err != nil {
		return true
	}
	return !bytes.Equal(current, expected)
}

// Unregister removes the entry if present.
func (r *AutostartRegistrar) Unregister() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsRegistered checks if the entry exists.
func (r *AutostartRegistrar) IsRegistered() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// EntryPath returns the entry path.
func (r *AutostartRegistrar) EntryPath() string {
	return r.path
}

// desktopExec builds an Exec= value, quoting the program per the desktop entry spec.
func desktopExec(execPath string, args []string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`).Replace(execPath)
	return `"` + quoted + `" ` + strings.Join(args, " ")
}

// Ensure AutostartRegistrar implements domain.StartupRegistrar.
var _ domain.StartupRegistrar = (*AutostartRegistrar)(nil)

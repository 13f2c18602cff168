package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Launcher opens trailer links in a configured player or the system browser
type Launcher struct {
	command string   // configured player command, empty for system default
	args    []string // additional arguments for the player
	logger  *slog.Logger

	goos     string
	lookPath func(file string) (string, error)
	start    func(name string, args ...string) error
}

// macApps maps player commands to their macOS app bundle and the flags
// `open` needs for them
var macApps = map[string]struct {
	app       string
	openFlags []string
}{
	"iina": {app: "IINA", openFlags: []string{"-n"}}, // IINA needs -n for new windows
	"vlc":  {app: "VLC"},
	"mpv":  {app: "mpv"},
}

// NewLauncher creates a launcher from the player settings
func NewLauncher(cfg PlayerConfig, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  strings.TrimSpace(cfg.Command),
		args:     cfg.Args,
		logger:   logger,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Open launches url without waiting for the player to exit. It returns the
// command that was started.
func (l *Launcher) Open(url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("no url to open")
	}
	if l.command != "" {
		return l.openConfigured(url)
	}
	return l.openDefault(url)
}

func (l *Launcher) openConfigured(url string) (string, error) {
	args := append(append([]string{}, l.args...), url)

	// On macOS, fall back to 'open -a' for GUI apps that aren't on PATH
	if l.goos == "darwin" {
		if _, err := l.lookPath(l.command); err != nil {
			base := strings.ToLower(strings.TrimSuffix(filepath.Base(l.command), filepath.Ext(l.command)))
			app := l.command
			var openFlags []string
			if known, ok := macApps[base]; ok {
				app = known.app
				openFlags = known.openFlags
			}

			cmdArgs := append(append([]string{}, openFlags...), "-a", app)
			if len(l.args) > 0 {
				cmdArgs = append(cmdArgs, "--args")
				cmdArgs = append(cmdArgs, l.args...)
			}
			cmdArgs = append(cmdArgs, url)
			l.logger.Info("using macOS 'open -a' to launch GUI app", "app", app, "args", cmdArgs)
			return "open", l.start("open", cmdArgs...)
		}
	}

	l.logger.Info("launching player", "command", l.command, "args", args)
	if err := l.start(l.command, args...); err != nil {
		return "", fmt.Errorf("failed to start %s: %w", l.command, err)
	}
	return l.command, nil
}

// openDefault opens the URL using the system default handler
func (l *Launcher) openDefault(url string) (string, error) {
	var name string
	var args []string
	switch l.goos {
	case "darwin":
		name, args = "open", []string{url}
	case "windows":
		name, args = "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		name, args = "xdg-open", []string{url}
	}

	l.logger.Info("launching with system default", "os", l.goos, "url", url)
	if err := l.start(name, args...); err != nil {
		return "", fmt.Errorf("failed to open %s: %w", url, err)
	}
	return name, nil
}

// Package browser opens pages of the running server in the desktop browser.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Commander starts external programs
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander starts processes with os/exec
type RealCommander struct{}

// Start launches the program without waiting for it
func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Opener launches URLs with the platform's default handler. A non-empty
// $BROWSER wins over the platform default.
type Opener struct {
	Commander Commander
	GOOS      string
	Getenv    func(string) string
}

// New returns an Opener for the current platform
func New() *Opener {
	return &Opener{
		Commander: RealCommander{},
		GOOS:      runtime.GOOS,
		Getenv:    os.Getenv,
	}
}

// Open opens url in the default browser
func Open(url string) error {
	return New().Open(url)
}

// Open opens url, preferring $BROWSER when set
func (o *Opener) Open(url string) error {
	name, args, err := o.command(url)
	if err != nil {
		return err
	}
	if err := o.Commander.Start(name, args...); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	return nil
}

// command resolves the program and arguments used to open url
func (o *Opener) command(url string) (string, []string, error) {
	if o.Getenv != nil {
		if fields := strings.Fields(o.Getenv("BROWSER")); len(fields) > 0 {
			return fields[0], append(fields[1:], url), nil
		}
	}

	switch o.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", o.GOOS)
	}
}

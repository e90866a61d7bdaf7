//go:build linux || darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/abrezinsky/ecoheroes/internal/logger"
)

// startKeyboard puts the terminal in cbreak mode and runs the bound shortcut
// for every keystroke. quit is called when the user asks to stop the server.
// The returned function restores the terminal.
func startKeyboard(baseURL string, appLog *logger.SlogLogger, quit func()) (restore func()) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}

	oldState, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return func() {}
	}

	// Disable canonical mode and echo but keep output processing, so log
	// lines still end where they should
	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &newState); err != nil {
		return func() {}
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			if !handleKey(buf[0], baseURL, appLog) {
				quit()
				return
			}
		}
	}()

	return func() {
		unix.IoctlSetTermios(fd, ioctlSetTermios, oldState)
	}
}

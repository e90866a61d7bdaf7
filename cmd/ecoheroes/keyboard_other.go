//go:build !linux && !darwin

package main

import (
	"os"

	"golang.org/x/term"

	"github.com/abrezinsky/ecoheroes/internal/logger"
)

// startKeyboard reads stdin one byte at a time. Without cbreak support each
// key needs Enter.
func startKeyboard(baseURL string, appLog *logger.SlogLogger, quit func()) (restore func()) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return func() {}
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 || buf[0] == '\n' || buf[0] == '\r' {
				continue
			}
			if !handleKey(buf[0], baseURL, appLog) {
				quit()
				return
			}
		}
	}()
	return func() {}
}

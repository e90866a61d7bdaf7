package main

import (
	"fmt"
	"strings"

	"github.com/abrezinsky/ecoheroes/internal/browser"
	"github.com/abrezinsky/ecoheroes/internal/logger"
)

func openInBrowser(label, url string) {
	fmt.Printf("%sOpening %s in browser...%s\r\n", cyan, label, reset)
	if err := browser.Open(url); err != nil {
		fmt.Printf("%sError opening browser: %v%s\r\n", red, err, reset)
	}
}

// handleKey runs the shortcut bound to key. It returns false once the
// server should stop.
func handleKey(key byte, baseURL string, appLog *logger.SlogLogger) bool {
	switch strings.ToLower(string(key)) {
	case "a":
		openInBrowser("admin page", baseURL+"/admin")
	case "r":
		openInBrowser("resident app", baseURL+"/")
	case "h":
		if appLog.IsHTTPLoggingEnabled() {
			appLog.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\r\n", yellow, reset)
		} else {
			appLog.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\r\n", green, reset)
		}
	case "l":
		cycleLogLevel(appLog)
	case "?":
		printKeyboardHelp()
	case "q", "\x03": // Ctrl+C arrives as a byte while the terminal is in cbreak mode
		fmt.Printf("%sShutting down server...%s\r\n", yellow, reset)
		return false
	}
	return true
}

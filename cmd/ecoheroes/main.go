package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abrezinsky/ecoheroes/internal/app"
	"github.com/abrezinsky/ecoheroes/internal/auth"
	"github.com/abrezinsky/ecoheroes/internal/chat"
	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/pkg/catalogfeed"
	"github.com/abrezinsky/ecoheroes/web"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	blue      = "\033[34m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	bold      = "\033[1m"
)

// showStartupAnimation displays the EcoHeroes logo, then a collection truck
// picking up the sorted bins along its route
func showStartupAnimation(skipRoute bool) {
	width := 62
	border := strings.Repeat("═", width)

	logo := []string{
		"    _____           _   _                               ",
		"   | ____|___ ___  | | | | ___ _ __ ___   ___  ___      ",
		"   |  _| / __/ _ \\ | |_| |/ _ \\ '__/ _ \\ / _ \\/ __|     ",
		"   | |__| (_| (_) ||  _  |  __/ | | (_) |  __/\\__ \\     ",
		"   |_____\\___\\___/ |_| |_|\\___|_|  \\___/ \\___||___/     ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", green, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-62s%s║%s\n", green, yellow, line, green, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n", green, border, reset)

	if skipRoute {
		fmt.Print("\n")
		return
	}

	fmt.Printf(moveUp, 1)
	fmt.Printf("%s  %s╠%s╣%s\n", clearLine, green, border, reset)

	// One bin per sorting stream
	bins := []struct {
		art   string
		color string
	}{
		{"[O]", green},
		{"[P]", blue},
		{"[K]", yellow},
		{"[E]", red},
	}
	truck := "[==]o>"
	binGap := width / (len(bins) + 1)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	collected := make([]bool, len(bins))
	pos := 0

	for frame := 0; pos < width-len(truck); frame++ {
		pos += 2 + rng.Intn(2)
		if pos > width-len(truck) {
			pos = width - len(truck)
		}

		road := []rune(strings.Repeat(" ", width))
		for i, b := range bins {
			at := binGap * (i + 1)
			if at+len(b.art) <= pos {
				collected[i] = true
			}
			if !collected[i] {
				copy(road[at:], []rune(b.art))
			}
		}
		copy(road[pos:], []rune(truck))

		line := string(road)
		for i, b := range bins {
			if !collected[i] {
				line = strings.Replace(line, b.art, b.color+b.art+reset, 1)
			}
		}
		line = strings.Replace(line, truck, cyan+truck+reset, 1)

		fmt.Printf("%s  %s║%s%s║%s\n", clearLine, green, line, green, reset)
		fmt.Printf("%s  %s╚%s╝%s\n", clearLine, green, border, reset)
		fmt.Printf(moveUp, 2)
		time.Sleep(70 * time.Millisecond)
	}

	status := fmt.Sprintf(" %d bins collected, route complete", len(bins))
	fmt.Printf("%s  %s║%s%-62s%s║%s\n", clearLine, green, yellow, status, green, reset)
	fmt.Printf("%s  %s╚%s╝%s\n\n", clearLine, green, border, reset)
}

var (
	version = "dev"
)

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string

	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\r\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\r\n%s%s  Keyboard Shortcuts:%s\r\n", bold, green, reset)
	fmt.Printf("    %sa%s      - Open admin page in browser\r\n", cyan, reset)
	fmt.Printf("    %sr%s      - Open resident app in browser\r\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\r\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\r\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\r\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\r\n\r\n", cyan, reset)
}

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "ecoheroes.db", "SQLite database path")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("logformat", "text", "Log format (text, json)")
	catalogPath := flag.String("catalog", "", "YAML file with waste categories and presets")
	catalogURL := flag.String("catalog-url", "", "URL of a JSON catalog feed")
	catalogToken := flag.String("catalog-token", "", "Bearer token for the catalog feed")
	chatStrategy := flag.String("chat", "", "EcoBot strategy: keyword or gemini (default: saved setting)")
	geminiModel := flag.String("gemini-model", chat.DefaultGeminiModel, "Gemini model for the gemini strategy")
	noAnimate := flag.Bool("noanimate", false, "Show logo only, skip truck animation")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `EcoHeroes - Neighborhood Waste Reporting

Usage:
  ecoheroes [options]

Options:
  -port int            HTTP server port (default 8080)
  -db string           SQLite database path (default "ecoheroes.db")
  -adminpw str         Admin password (auto-generated if not set)
  -loglevel str        Log level: debug, info, warn, error (default "info")
  -logformat str       Log format: text, json (default "text")
  -catalog path        YAML file with waste categories and presets
  -catalog-url url     JSON catalog feed (ignored when -catalog is set)
  -catalog-token str   Bearer token for the catalog feed
  -chat str            EcoBot strategy: keyword, gemini (default: saved setting)
  -gemini-model str    Gemini model (default %q)
  -noanimate           Show logo only, skip truck animation
  -nokeyboard          Disable keyboard shortcuts
  -version             Show version and exit
  -help                Show this help message

Environment:
  GEMINI_API_KEY       API key for the gemini strategy

Keyboard Shortcuts (when enabled):
  a              Open admin page in browser
  r              Open resident app in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  ecoheroes                                   # Run on port 8080 with ecoheroes.db
  ecoheroes -catalog bank-sampah.yaml         # Use a local price list
  ecoheroes -chat gemini                      # Answer with Gemini (needs GEMINI_API_KEY)
  ecoheroes -logformat json -nokeyboard       # Run as a service

`, chat.DefaultGeminiModel)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("ecoheroes %s\n", version)
		os.Exit(0)
	}

	showStartupAnimation(*noAnimate)

	password := *adminPw
	if password == "" {
		password = auth.GeneratePassword()
	}

	appLog := logger.NewWithOptions(os.Stdout, logger.ParseLevel(*logLevel), logger.ParseFormat(*logFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var feed catalogfeed.Client
	if *catalogURL != "" {
		client := catalogfeed.NewHTTPClient(*catalogURL, appLog)
		client.SetToken(*catalogToken)
		feed = client
	}
	cat, err := app.LoadCatalog(ctx, appLog, *catalogPath, feed)
	if err != nil {
		log.Fatal("Failed to load catalog: ", err)
	}

	a, err := app.New(appLog, app.Config{
		DBPath:        *dbPath,
		AdminPassword: password,
		Catalog:       cat,
		ChatStrategy:  *chatStrategy,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   *geminiModel,
		TemplatesFS:   web.GetTemplatesFS(),
		StaticFS:      web.GetStaticFS(),
	})
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", *port)
	appLog.Info("Admin password", "password", password)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	// Wait a moment for server to start
	time.Sleep(100 * time.Millisecond)

	baseURL := fmt.Sprintf("http://localhost:%d", *port)

	if !*noKeyboard {
		printKeyboardHelp()
		restore := startKeyboard(baseURL, appLog, stop)
		defer restore()
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled (use -nokeyboard=false to enable)%s\n\n", yellow, reset)
	}

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		appLog.Info("Shutting down")
		a.Close()
		<-serverErr
	}
}

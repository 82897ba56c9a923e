package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// ServerConfig contains all of the server settings
type ServerConfig struct {
	RenderDPI          int           // resolution used when rasterizing PDF pages
	DefaultBorderWidth int           // gutter border width when the client omits one
	MaxBorderWidth     int           // upper bound on client-supplied border widths
	RenderTimeout      time.Duration // bound on a single page rasterization
	RendererBackend    string        // "pdfium" or "fitz"
	ServerName         string
	ServerVersion      string
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// SetupServer loads configuration and returns ServerConfig and Logger
func SetupServer() (ServerConfig, *slog.Logger) {
	serverConfigLive := ServerConfig{}

	// Load .env file (silently ignore if doesn't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")

	logger := setupLogging()
	Logger = logger

	// Load configuration from environment variables with defaults

	// Rendering configuration. 200 DPI keeps book-layout text legible
	// without making the encoded spread unreasonably large.
	serverConfigLive.RenderDPI = getEnvInt("RENDER_DPI", 200)
	serverConfigLive.RendererBackend = getEnv("PDF_RENDERER", "pdfium")

	renderTimeout := getEnvInt("RENDER_TIMEOUT_SECONDS", 60)
	if renderTimeout < 1 {
		logger.Warn("Ignoring non-positive render timeout", "seconds", renderTimeout)
		renderTimeout = 60
	}
	serverConfigLive.RenderTimeout = time.Duration(renderTimeout) * time.Second

	// Spread composition configuration
	serverConfigLive.DefaultBorderWidth = getEnvInt("DEFAULT_BORDER_WIDTH", 2)
	if serverConfigLive.DefaultBorderWidth < 0 {
		logger.Warn("Ignoring negative default border width", "value", serverConfigLive.DefaultBorderWidth)
		serverConfigLive.DefaultBorderWidth = 2
	}
	serverConfigLive.MaxBorderWidth = getEnvInt("MAX_BORDER_WIDTH", 500)

	serverConfigLive.ServerName = getEnv("SERVER_NAME", "pdf-spread-viewer")
	serverConfigLive.ServerVersion = "1.0.0"

	logger.Info("Render configuration loaded",
		"backend", serverConfigLive.RendererBackend,
		"dpi", serverConfigLive.RenderDPI,
		"renderTimeout", serverConfigLive.RenderTimeout)

	return serverConfigLive, logger
}

// setupLogging configures the application logger
func setupLogging() *slog.Logger {
	logLevel := getEnv("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	// stdout carries the wire protocol, so logs default to stderr
	logOutput := getEnv("LOG_OUTPUT", "stderr")
	var logWriter io.Writer

	if logOutput == "file" {
		logPath, err := filepath.Abs(filepath.ToSlash(getEnv("LOG_FILE", "gospread.log")))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating log file path: %v\n", err)
			logWriter = os.Stderr
		} else {
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
				logWriter = os.Stderr
			} else {
				logWriter = logFile
				fmt.Fprintln(os.Stderr, "Logging to file: ", logPath)
			}
		}
	} else {
		logWriter = os.Stderr
	}

	handler := slog.NewTextHandler(logWriter, handlerOptions)
	return slog.New(handler)
}

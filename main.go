// Command gospread is an MCP (Model Context Protocol) stdio server for
// viewing PDF double-page spreads. It exposes one tool, get_spread,
// which rasterizes two pages of a PDF and returns them composed side
// by side with a black gutter border, as facing pages of an open book.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/drummonds/gospread/config"
	"github.com/drummonds/gospread/mcp"
	"github.com/drummonds/gospread/pdfrenderer"
	"github.com/drummonds/gospread/spread"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// injectGlobals injects all of our globals into their packages
func injectGlobals(logger *slog.Logger) {
	Logger = logger
	config.Logger = logger
	pdfrenderer.Logger = logger
	spread.Logger = logger
	mcp.Logger = logger
}

func main() {
	envFile := pflag.String("env-file", "", "additional env file to load before configuration")
	showVersion := pflag.BoolP("version", "v", false, "print version and exit")
	pflag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load env file %s: %v\n", *envFile, err)
			os.Exit(1)
		}
	}

	serverConfig, logger := config.SetupServer()
	injectGlobals(logger) //inject the logger into all of the packages

	if *showVersion {
		fmt.Printf("%s %s\n", serverConfig.ServerName, serverConfig.ServerVersion)
		return
	}

	renderer, err := pdfrenderer.NewRenderer(serverConfig.RendererBackend)
	if err != nil {
		Logger.Error("Failed to create PDF renderer", "backend", serverConfig.RendererBackend, "error", err)
		os.Exit(1)
	}
	defer renderer.Close()
	Logger.Info("PDF renderer ready", "backend", serverConfig.RendererBackend)

	service := spread.NewService(serverConfig, renderer)

	server := mcp.NewServer(serverConfig.ServerName, serverConfig.ServerVersion)
	server.RegisterTool(service.Tool())
	Logger.Info("Serving MCP on stdio", "server", serverConfig.ServerName, "tool", spread.ToolName)

	if err := server.Run(context.Background(), os.Stdin, os.Stdout); err != nil {
		Logger.Error("Server terminated with error", "error", err)
		os.Exit(1)
	}
	Logger.Info("Stdin closed, shutting down")
}

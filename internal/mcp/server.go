// Package mcp exposes the trajectory simulator as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"burnsim/internal/forecast"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server wraps the MCP SDK server around a Forecaster.
type Server struct {
	server     *sdk.Server
	forecaster *forecast.Forecaster
	dataPath   string
}

// Config holds server configuration.
type Config struct {
	Name       string
	Version    string
	DataPath   string // root for records_file lookups
	Forecaster *forecast.Forecaster
}

// NewServer creates an MCP server with the simulator tools registered.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.Forecaster == nil {
		return nil, fmt.Errorf("forecaster is required")
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			log.Info().Msg("MCP client initialized")
		},
	})

	s := &Server{
		server:     mcpServer,
		forecaster: cfg.Forecaster,
		dataPath:   cfg.DataPath,
	}
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	return s, nil
}

// Run serves over stdio until the client disconnects, the context is
// cancelled or the process receives SIGINT/SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			log.Info().Msg("Shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info().Msg("Starting MCP server on stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

package main

import (
	"fmt"
	"log"

	"github.com/jonathan/cv-studio/internal/config"
	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/observability"
	"github.com/jonathan/cv-studio/internal/server"
	"github.com/jonathan/cv-studio/internal/types"
	"github.com/spf13/cobra"
)

var (
	servePort          int
	serveChromePath    string
	serveSecureCookies bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor server",
	Long:  `Start an HTTP server with the CV editor, the live preview stream and PNG export.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080, or PORT)")
	serveCmd.Flags().StringVar(&serveChromePath, "chrome", "", "Chrome/Chromium binary used for export")
	serveCmd.Flags().BoolVar(&serveSecureCookies, "secure-cookies", false, "Mark the session cookie Secure (behind HTTPS)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if serveChromePath != "" {
		cfg.ChromePath = serveChromePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	srvCfg, err := serverConfig(cfg)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		source := "configured"
		if srvCfg.Session.Generated {
			source = "generated"
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintServerInfo(observability.ServerInfo{
			Addr:          fmt.Sprintf(":%d", cfg.Port),
			Theme:         srvCfg.Defaults.Theme,
			Language:      srvCfg.Defaults.Language,
			SessionTTL:    srvCfg.Session.TTL.String(),
			ExportTimeout: srvCfg.Export.Timeout.String(),
			MaxPhotoBytes: srvCfg.MaxPhotoBytes,
			ChromePath:    cfg.ChromePath,
			SecretSource:  source,
		})
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if srvCfg.Session.Generated {
		log.Printf("[session] sessions will not survive a restart; set SESSION_SECRET to keep them")
	}

	return srv.Start(cmd.Context())
}

// serverConfig turns the merged CLI configuration into a server.Config.
func serverConfig(cfg config.Config) (server.Config, error) {
	sessionCfg, err := config.NewSessionConfig(cfg.SessionSecret, cfg.SessionTTLDuration())
	if err != nil {
		return server.Config{}, fmt.Errorf("invalid session config: %w", err)
	}

	return server.Config{
		Port:          cfg.Port,
		MaxPhotoBytes: cfg.MaxPhotoBytes,
		Session:       sessionCfg,
		Defaults: types.UiState{
			Theme:    cfg.Theme(),
			Language: cfg.Language(),
		},
		Capturer:      newCapturer(cfg.ChromePath, cfg.Verbose),
		Export:        export.Options{Timeout: cfg.ExportTimeoutDuration(), Retries: 1},
		SecureCookies: serveSecureCookies,
	}, nil
}

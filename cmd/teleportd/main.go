package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/oriumgames/teleport"
	"github.com/oriumgames/teleport/bedrock"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configFile  string
		address     string
		triggerItem string
		watch       bool
		debug       bool
	)
	c := &cobra.Command{
		Use:     "teleportd",
		Short:   "Bedrock server with point-and-teleport locomotion",
		Version: teleport.Version,
		RunE: func(_ *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(log)

			return run(log, configFile, address, triggerItem, watch)
		},
	}
	c.Flags().StringVar(&configFile, "config", "teleport.yaml", "teleport config file")
	c.Flags().StringVar(&address, "address", ":19132", "address to listen on")
	c.Flags().StringVar(&triggerItem, "trigger-item", bedrock.DefaultTriggerItem, "item whose use teleports, empty for any")
	c.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")
	c.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return c
}

func run(log *slog.Logger, configFile, address, triggerItem string, watch bool) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	uc := server.DefaultConfig()
	uc.Network.Address = address
	conf, err := uc.Config(log)
	if err != nil {
		return fmt.Errorf("teleportd: failed to build server config: %w", err)
	}

	mngr := bedrock.NewBuilder().
		Config(cfg).
		Logger(log).
		TriggerItem(triggerItem).
		Init()
	defer mngr.Shutdown()

	if watch {
		w, err := teleport.Watch(configFile, bedrock.DefaultConfig(), func(cfg teleport.Config) {
			if err := mngr.SetConfig(cfg); err != nil {
				log.Warn("teleportd: config rejected", "error", err)
			}
		}, log)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	cmd.Register(bedrock.NewCommand())

	srv := conf.New()
	srv.CloseOnProgramEnd()
	srv.Listen()

	log.Info("teleportd: listening", "address", address, "mode", cfg.Mode)
	for p := range srv.Accept() {
		if _, err := mngr.Attach(p); err != nil {
			log.Error("teleportd: failed to attach session", "player", p.Name(), "error", err)
			p.Disconnect("Teleport is unavailable.")
		}
	}
	return nil
}

// loadConfig reads the config file on top of the Bedrock defaults. A missing
// file yields the defaults.
func loadConfig(path string) (teleport.Config, error) {
	cfg, err := teleport.LoadConfig(path, bedrock.DefaultConfig())
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("teleportd: config not found, using defaults", "path", path)
		return bedrock.DefaultConfig(), nil
	}
	return cfg, err
}

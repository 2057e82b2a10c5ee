package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rushteam/bundlerec/logging"
	"github.com/rushteam/bundlerec/registry"
)

var publishFile string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Validate a registry file and publish it to Redis for other instances",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.Registry.Redis.Addr == "" {
			return fmt.Errorf("registry.redis.addr is required to publish")
		}

		doc, err := registry.ReadDocument(publishFile)
		if err != nil {
			return err
		}
		reg, err := doc.Build(filepath.Dir(publishFile))
		if err != nil {
			return fmt.Errorf("invalid registry %s: %w", publishFile, err)
		}

		a := &app{cfg: cfg, logger: logging.New(cfg.Log.Level, cfg.Log.Pretty)}
		defer a.Close()
		src, err := a.storeSource(cmd.Context())
		if err != nil {
			return err
		}
		if err := src.Publish(cmd.Context(), doc); err != nil {
			return err
		}
		a.logger.Info().Str("key", src.Key).Int("entries", reg.Len()).Msg("registry published")
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVarP(&publishFile, "file", "f", "", "registry file to publish (YAML or JSON)")
	_ = publishCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(publishCmd)
}

package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/stash-folderid/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration after all overrides",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if resolvedCfg == nil {
		return errors.New("no configuration loaded")
	}

	out := cmd.OutOrStdout()

	if flagJSON {
		shown := resolvedCfg.Config
		if shown.Catalog.APIKey != "" {
			shown.Catalog.APIKey = "********"
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(shown)
	}

	return config.RenderEffective(resolvedCfg, out)
}

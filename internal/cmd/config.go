package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gravitrone/oophub/internal/config"
)

// RunInteractiveInit prompts for the API URL and persists a config file.
func RunInteractiveInit(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Fprintf(out, "api url [%s]: ", cfg.APIURL)
	line, _ := reader.ReadString('\n')
	if url := strings.TrimSpace(line); url != "" {
		cfg.APIURL = url
	}

	fmt.Fprint(out, "vim keys (y/N): ")
	line, _ = reader.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		cfg.VimKeys = true
	case "n", "no":
		cfg.VimKeys = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(""); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "using %s\n", cfg.Endpoint())
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// ConfigCmd returns the `oophub config` command.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the oophub config",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.Path())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Interactively write the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunInteractiveInit(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})

	return cmd
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dinecat/dinecat/internal/config"
)

func init() {
	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Write a starter configuration file",
		RunE:  runSetup,
	}

	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file %s already exists, refusing to overwrite", configFile)
	}

	if err := config.SaveToFile(config.DefaultConfig(), configFile); err != nil {
		return err
	}

	fmt.Printf("Wrote starter configuration to %s\n", configFile)
	return nil
}

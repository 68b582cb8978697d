package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnolang/pystyle/lint"
)

const defaultConfigFile = ".pystyle.yaml"

// initCmd: pystyle init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initConfigurationFile(cmd.OutOrStdout(), cfgFile)
	},
}

func initConfigurationFile(out io.Writer, configurationPath string) error {
	if configurationPath == "" {
		configurationPath = defaultConfigFile
	}

	if err := lint.WriteConfig(configurationPath, lint.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(out, "Configuration file created/updated: %s\n", configurationPath)
	return nil
}

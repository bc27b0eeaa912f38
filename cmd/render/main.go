// Command parish-render renders a script bundle offline, without the
// service or its database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yockii/parish_tools/pkg/config"
)

func newRootCmd() *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:           "parish-render",
		Short:         "Render liturgical scripts from JSON bundles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				return nil
			}
			return config.Init(configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file with render.* typography settings")
	root.AddCommand(newRenderCmd(), newLintCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

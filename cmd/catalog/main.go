package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

const service = "catalog"

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           service,
		Short:         "Product catalog backed by a JSON file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the YAML config file (default config.yaml)")

	rootCmd.AddCommand(newServeCommand(&cfgPath))
	rootCmd.AddCommand(newSelfTestCommand(&cfgPath))

	if err := rootCmd.Execute(); err != nil {
		log.Printf("%s: %v", service, err)
		os.Exit(1)
	}
}

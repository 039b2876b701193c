package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tts-mock-test",
		Short:        "Online exam platform API: mock and final tests over question banks",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to config file (default $CONFIG_PATH or config/config.yaml)")
	root.PersistentFlags().String("env-file", ".env", "Path to .env file")

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd(), exportAttemptsCmd(), recountCmd(), issueTokenCmd())

	// serve по умолчанию, если подкоманда не указана
	root.RunE = serve.RunE

	return root
}

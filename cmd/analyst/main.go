package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var envFile string

	root := &cobra.Command{
		Use:     "analyst",
		Short:   "AI content analyst: score and advise on resumes, plans and data write-ups",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(envFile); err != nil {
				log.Printf("Warning: %s file not found: %v", envFile, err)
			}
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCmd(),
		newBotCmd(),
		newAnalyzeCmd(),
		newStatsCmd(),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

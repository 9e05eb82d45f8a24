package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/roteiros/cmd/cli/catalog"
	"github.com/myrjola/roteiros/cmd/cli/content"
	"github.com/myrjola/roteiros/cmd/cli/scripts"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(catalog.Group)
	rootCmd.AddCommand(catalog.Characters, catalog.Episodes, catalog.Contents)
	catalog.Episodes.AddCommand(scripts.Generate)
	rootCmd.AddGroup(scripts.Group)
	rootCmd.AddCommand(scripts.Export)
	rootCmd.AddGroup(content.Group)
	rootCmd.AddCommand(content.Import)
}

var rootCmd = &cobra.Command{
	Use:           "roteiros-cli",
	Long:          `Command line utilities for the episode script drafting tool https://github.com/myrjola/roteiros`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

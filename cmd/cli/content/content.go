// Package content imports raw source material from files.
package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/myrjola/roteiros/cmd/cli/workspace"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/models"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "content",
	Title: "Raw content",
}

func init() {
	Import.Flags().String("type", "", "content type: pdf, script, video or other. Detected from the file name when empty")
	Import.Flags().String("name", "", "name of the content, defaults to the file name")
}

var Import = &cobra.Command{
	Use:     "import [file]",
	GroupID: "content",
	Short:   "Import a text file as raw content",
	Long:    `Stores the text of the file as raw content. Binary files should be converted to text first.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]
		contentType, err := cmd.Flags().GetString("type")
		if err != nil {
			return errors.Wrap(err, "invalid type flag")
		}
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return errors.Wrap(err, "invalid name flag")
		}
		if name == "" {
			name = filepath.Base(path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "read file", slog.String("path", path))
		}

		ws, err := workspace.Open(ctx, true)
		if err != nil {
			return err
		}
		defer func() {
			_ = ws.Close()
		}()

		created, err := ws.Repos.RawContents.Create(ctx, name, models.RawContentType(contentType), string(data))
		if err != nil {
			return errors.Wrap(err, "create raw content", slog.String("path", path))
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Conteúdo importado: %s (%s) %s\n",
			created.Name, created.Type.Label(), created.ID)
		return nil
	},
}

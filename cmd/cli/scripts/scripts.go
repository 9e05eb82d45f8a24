// Package scripts generates episode scripts and exports episodes from the command line.
package scripts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/roteiros/cmd/cli/workspace"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/myrjola/roteiros/internal/export"
	"github.com/myrjola/roteiros/internal/models"
	"github.com/myrjola/roteiros/internal/script"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "scripts",
	Title: "Scripts",
}

func init() {
	Generate.Flags().Bool("ai", false, "generate with the completion API instead of the template")
	Generate.Flags().Bool("print", false, "print the generated script")
	Export.Flags().String("format", string(export.FormatMarkdown), "export format: markdown or pdf")
	Export.Flags().String("out", "", "output file, defaults to the dated export file name, - writes to stdout")
	Export.Flags().Bool("all", false, "export every episode")
}

// Generate is attached to the episodes command as "episodes script".
var Generate = &cobra.Command{
	Use:   "script [episode id]",
	Short: "Generate and save the script of an episode",
	Long:  `Generates the script of the episode from the template, or with the completion API when --ai is set, and saves it as a new revision.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			ctx       = cmd.Context()
			episodeID = args[0]
			source    = models.ScriptSourceTemplate
		)
		useAI, err := cmd.Flags().GetBool("ai")
		if err != nil {
			return errors.Wrap(err, "invalid ai flag")
		}
		if useAI {
			source = models.ScriptSourceAI
		}
		printScript, err := cmd.Flags().GetBool("print")
		if err != nil {
			return errors.Wrap(err, "invalid print flag")
		}

		ws, err := workspace.Open(ctx, true)
		if err != nil {
			return err
		}
		defer func() {
			_ = ws.Close()
		}()

		episode, err := ws.Repos.Episodes.Get(ctx, episodeID)
		if err != nil {
			return errors.Wrap(err, "get episode")
		}
		characters, err := ws.Repos.Episodes.ResolveCharacters(ctx, episode)
		if err != nil {
			if !errors.Is(err, models.ErrDanglingReference) {
				return errors.Wrap(err, "resolve characters")
			}
			ws.Logger.LogAttrs(ctx, slog.LevelWarn, "episode references unknown characters", errors.SlogError(err))
		}

		var generated string
		if useAI {
			aiCtx, cancel := context.WithTimeout(ctx, ws.GenerateTimeout)
			defer cancel()
			if generated, err = ws.AI.GenerateScript(aiCtx, script.ScriptData(episode, characters)); err != nil {
				return errors.Wrap(err, "generate script")
			}
		} else {
			var number int
			if number, err = ws.Repos.Episodes.Number(ctx, episodeID); err != nil {
				return errors.Wrap(err, "episode number")
			}
			generated = script.Generate(number, episode, characters)
		}

		_, revision, err := ws.Repos.Episodes.SaveScript(ctx, episodeID, episode.Version, generated, source)
		if err != nil {
			return errors.Wrap(err, "save script")
		}
		if printScript {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), generated)
			return nil
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Roteiro salvo: %s, revisão %d (%s)\n",
			episode.DisplayTitle(), revision.Revision, source)
		return nil
	},
}

var Export = &cobra.Command{
	Use:     "export [episode ids...]",
	GroupID: "scripts",
	Short:   "Export episodes to Markdown or a printable HTML page",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()
		format, err := flags.GetString("format")
		if err != nil {
			return errors.Wrap(err, "invalid format flag")
		}
		out, err := flags.GetString("out")
		if err != nil {
			return errors.Wrap(err, "invalid out flag")
		}
		all, err := flags.GetBool("all")
		if err != nil {
			return errors.Wrap(err, "invalid all flag")
		}

		ws, err := workspace.Open(ctx, false)
		if err != nil {
			return err
		}
		defer func() {
			_ = ws.Close()
		}()

		episodes, err := ws.Repos.Episodes.List(ctx)
		if err != nil {
			return errors.Wrap(err, "list episodes")
		}
		characters, err := ws.Repos.Characters.List(ctx)
		if err != nil {
			return errors.Wrap(err, "list characters")
		}
		ids := args
		if all {
			ids = make([]string, 0, len(episodes))
			for _, e := range episodes {
				ids = append(ids, e.ID)
			}
		}

		doc, err := export.Export(episodes, characters, ids, export.Format(format), time.Now())
		if err != nil {
			return errors.Wrap(err, "export")
		}
		if out == "-" {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), doc.Body)
			return nil
		}
		if out == "" {
			out = doc.Filename
		}
		if err = os.WriteFile(out, []byte(doc.Body), 0o600); err != nil { //nolint:mnd // owner read/write
			return errors.Wrap(err, "write export", slog.String("path", out))
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d episódio(s) exportado(s) para %s\n", doc.Episodes, out)
		return nil
	},
}

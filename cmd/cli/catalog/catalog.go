// Package catalog lists the stored characters, episodes and raw content.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/myrjola/roteiros/cmd/cli/workspace"
	"github.com/myrjola/roteiros/internal/errors"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "catalog",
	Title: "Catalog",
}

var Characters = &cobra.Command{
	Use:     "characters",
	GroupID: "catalog",
	Short:   "Character operations",
}

var Episodes = &cobra.Command{
	Use:     "episodes",
	GroupID: "catalog",
	Short:   "Episode operations",
}

var Contents = &cobra.Command{
	Use:     "contents",
	GroupID: "catalog",
	Short:   "Raw content operations",
}

func init() {
	Characters.AddCommand(listCharacters)
	Episodes.AddCommand(listEpisodes)
	Contents.AddCommand(listContents)
}

var listCharacters = &cobra.Command{
	Use:   "list",
	Short: "List characters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := workspace.Open(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer func() {
			_ = ws.Close()
		}()

		characters, err := ws.Repos.Characters.List(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "list characters")
		}
		rows := make([][]string, 0, len(characters))
		for _, c := range characters {
			rows = append(rows, []string{c.ID, c.Name, c.Role, strings.Join(c.Traits, ", ")})
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Nome", "Papel", "Características"}, rows)
		return nil
	},
}

var listEpisodes = &cobra.Command{
	Use:   "list",
	Short: "List episodes with their number and status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := workspace.Open(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer func() {
			_ = ws.Close()
		}()

		episodes, err := ws.Repos.Episodes.List(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "list episodes")
		}
		rows := make([][]string, 0, len(episodes))
		for i, e := range episodes {
			script := "não"
			if strings.TrimSpace(e.Script) != "" {
				script = "sim"
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				e.ID,
				e.DisplayTitle(),
				string(e.Status),
				script,
				e.UpdatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		renderTable(cmd.OutOrStdout(), []string{"Nº", "ID", "Título", "Status", "Roteiro", "Atualizado"}, rows)
		return nil
	},
}

var listContents = &cobra.Command{
	Use:   "list",
	Short: "List raw content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := workspace.Open(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer func() {
			_ = ws.Close()
		}()

		contents, err := ws.Repos.RawContents.List(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "list raw content")
		}
		rows := make([][]string, 0, len(contents))
		for _, c := range contents {
			rows = append(rows, []string{c.ID, c.Name, c.Type.Label(), fmt.Sprintf("%d", len([]rune(c.Content)))})
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Nome", "Tipo", "Caracteres"}, rows)
		return nil
	},
}

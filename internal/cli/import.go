package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Lego1st/quizzess/internal/app"
	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/spf13/cobra"
)

func newImportCmd(opts *options) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Decode a question sheet into draft questions",
		Long: "A .json FILE is read as an upload response already fetched from the backend.\n" +
			"Any other file is uploaded to the backend and the returned table is decoded.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var questions []domain.Question
			if strings.EqualFold(filepath.Ext(args[0]), ".json") {
				table, err := app.ParseUpload(data)
				if err != nil {
					return err
				}
				if questions, err = app.Decode(table); err != nil {
					return err
				}
			} else {
				d, err := buildDeps(cmd.Context(), opts.cfg)
				if err != nil {
					return err
				}
				defer d.Close()
				if user == "" {
					user = opts.cfg.Auth.Username
				}
				questions, err = d.authoring().Upload(cmd.Context(), user, filepath.Base(args[0]), data)
				if err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), questions)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "session user (defaults to auth.username)")
	return cmd
}

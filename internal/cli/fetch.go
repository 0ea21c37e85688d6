package cli

import (
	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/spf13/cobra"
)

type fetchedQuiz struct {
	domain.Quiz
	CategoryName string `json:"categoryName"`
}

func newFetchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch QUIZ_ID",
		Short: "Fetch a quiz through the cache and mirror and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			play := d.play()
			player, err := play.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			quiz := player.Quiz()
			return printJSON(cmd.OutOrStdout(), fetchedQuiz{Quiz: quiz, CategoryName: play.CategoryName(quiz.Category)})
		},
	}
}

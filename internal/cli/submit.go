package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Lego1st/quizzess/internal/app"
	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/spf13/cobra"
)

// draftFile is the on-disk form of a draft for headless submission.
type draftFile struct {
	Title     string            `json:"title"`
	Brief     string            `json:"brief"`
	Category  string            `json:"category"`
	Rating    int               `json:"rating"`
	Shuffle   bool              `json:"shuffle"`
	Questions []domain.Question `json:"questions"`
}

func (f draftFile) store() (*app.DraftStore, error) {
	draft := app.NewDraftStore()
	if f.Title != "" {
		draft.SetTitle(f.Title)
	}
	if f.Brief != "" {
		draft.SetBrief(f.Brief)
	}
	if f.Category != "" {
		draft.SetCategory(f.Category)
	}
	if f.Rating != 0 {
		if err := draft.SetRating(f.Rating); err != nil {
			return nil, err
		}
	}
	draft.SetShuffle(f.Shuffle)
	if err := draft.ReplaceAllQuestions(f.Questions); err != nil {
		return nil, err
	}
	return draft, nil
}

func readDraftFile(path string) (draftFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return draftFile{}, err
	}
	var f draftFile
	if err := json.Unmarshal(data, &f); err != nil {
		return draftFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

func newSubmitCmd(opts *options) *cobra.Command {
	var (
		user   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "submit DRAFT.json",
		Short: "Validate a draft file and send it to the create-quiz endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readDraftFile(args[0])
			if err != nil {
				return err
			}
			draft, err := f.store()
			if err != nil {
				return err
			}

			d, err := buildDeps(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer d.Close()
			authoring := d.authoring()

			var payload domain.Payload
			if dryRun {
				payload, err = authoring.Prepare(draft.Snapshot())
			} else {
				if user == "" {
					user = opts.cfg.Auth.Username
				}
				payload, err = authoring.Submit(cmd.Context(), user, draft.Snapshot())
			}
			if err != nil {
				return err
			}
			slog.Info("draft accepted", "title", payload.Title, "questions", len(payload.Questions), "sent", !dryRun)
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "session user (defaults to auth.username)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "encode and validate without sending")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

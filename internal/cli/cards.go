package cli

import (
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/nhle/pocketboard/internal/model"
	"github.com/nhle/pocketboard/internal/source"
)

// withRemedy appends the suggested fix for classified failures.
func withRemedy(err error) error {
	status := source.StatusOf(err)
	if status == model.StatusUnknownError {
		return err
	}
	return fmt.Errorf("%w\n%s", err, model.Describe(status).Suggestion)
}

func newListCmd(a *App) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the cards of the configured list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(a, log.New(cmd.ErrOrStderr(), "", 0))
			if err != nil {
				return err
			}
			defer b.Close()

			ctx := cmd.Context()
			cards, origin, err := b.FetchCardList(ctx, offline)
			if source.StatusOf(err) == model.StatusNetworkError {
				if cached, cerr := b.CachedCardList(ctx); cerr == nil {
					cards, origin, err = cached, source.OriginCache, nil
				}
			}
			if err != nil {
				return withRemedy(err)
			}
			if origin == source.OriginCache {
				fmt.Fprintln(cmd.ErrOrStderr(), "(offline: showing cached list)")
			}
			printCards(cmd.OutOrStdout(), cards)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "use the cached list when there is one")
	return cmd
}

func printCards(w io.Writer, cards []model.CardSummary) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards.")
		return
	}
	for _, c := range cards {
		var marks []string
		if c.HasDueDate {
			marks = append(marks, "due")
		}
		if c.IsDone {
			marks = append(marks, "done")
		}
		line := c.ID + "  " + c.Name
		if len(marks) > 0 {
			line += "  [" + strings.Join(marks, ", ") + "]"
		}
		fmt.Fprintln(w, line)
	}
}

func newShowCmd(a *App) *cobra.Command {
	var (
		offline bool
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "show <card-id>",
		Short: "Print a card with its checklist and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(a, log.New(cmd.ErrOrStderr(), "", 0))
			if err != nil {
				return err
			}
			defer b.Close()

			ctx := cmd.Context()
			card, origin, err := b.FetchCardDetails(ctx, args[0], offline)
			if source.StatusOf(err) == model.StatusNetworkError {
				if cached, cerr := b.CachedCardDetails(ctx, args[0]); cerr == nil {
					card, origin, err = cached, source.OriginCache, nil
				}
			}
			if err != nil {
				return withRemedy(err)
			}
			if origin == source.OriginCache {
				fmt.Fprintln(cmd.ErrOrStderr(), "(offline: showing cached card)")
			}
			printCard(cmd.OutOrStdout(), card, plain, a.cfg.Display.Theme)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "use the cached card when there is one")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the description without markdown rendering")
	return cmd
}

func printCard(w io.Writer, card *model.FullCard, plain bool, theme string) {
	fmt.Fprintln(w, card.Summary.Name)
	if len(card.Summary.LabelColors) > 0 {
		fmt.Fprintf(w, "Labels: %s\n", strings.Join(card.Summary.LabelColors, ", "))
	}
	if card.DueDate != "" {
		fmt.Fprintf(w, "Due: %s\n", card.DueDate)
	}

	if desc := strings.TrimSpace(card.Description); desc != "" {
		fmt.Fprintln(w)
		if !plain {
			style := "dark"
			if theme == "light" {
				style = "light"
			}
			if out, err := glamour.Render(desc, style); err == nil {
				desc = strings.Trim(out, "\n")
			}
		}
		fmt.Fprintln(w, desc)
	}

	if len(card.Checklist) > 0 {
		fmt.Fprintf(w, "\nChecklist (%d/%d)\n", card.CompletedItems(), len(card.Checklist))
		for _, item := range card.Checklist {
			box := "[ ]"
			if item.Complete {
				box = "[x]"
			}
			fmt.Fprintf(w, "  %s %s\n", box, item.Name)
		}
	}

	if len(card.Comments) > 0 {
		fmt.Fprintf(w, "\nComments (%d)\n", len(card.Comments))
		for _, c := range card.Comments {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
}

// checkText applies the input rules of the interactive editor: text
// must be non-blank and within the configured length.
func checkText(a *App, what, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s is empty", what)
	}
	if n, limit := utf8.RuneCountInString(text), a.cfg.Display.MaxTextLength; n > limit {
		return "", fmt.Errorf("%s is %d characters; the limit is %d", what, n, limit)
	}
	return text, nil
}

func newCommentCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <card-id> <text>...",
		Short: "Add a comment to a card",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := checkText(a, "comment", strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			b, err := openBoard(a, log.New(cmd.ErrOrStderr(), "", 0))
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.AddComment(cmd.Context(), args[0], text); err != nil {
				return withRemedy(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Comment added.")
			return nil
		},
	}
}

func newCreateCmd(a *App) *cobra.Command {
	var desc string

	cmd := &cobra.Command{
		Use:   "create <name>...",
		Short: "Create a card in the configured list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := checkText(a, "card name", strings.Join(args, " "))
			if err != nil {
				return err
			}
			desc = strings.TrimSpace(desc)
			if n := utf8.RuneCountInString(desc); n > a.cfg.Display.MaxTextLength {
				return fmt.Errorf("description is %d characters; the limit is %d", n, a.cfg.Display.MaxTextLength)
			}

			b, err := openBoard(a, log.New(cmd.ErrOrStderr(), "", 0))
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.CreateCard(cmd.Context(), name, desc); err != nil {
				return withRemedy(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %q.\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "card description")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wtusfo/song-and-singer/internal/console"
	"github.com/wtusfo/song-and-singer/internal/models"
	"github.com/wtusfo/song-and-singer/internal/review"
)

func newSongsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "songs",
		Short: "Review submitted lyrics",
	}

	cmd.AddCommand(newSongsListCommand(ctx))
	cmd.AddCommand(newSongsShowCommand(ctx))
	cmd.AddCommand(newSongsDecideCommand(ctx, review.ActionApprove))
	cmd.AddCommand(newSongsDecideCommand(ctx, review.ActionReject))
	cmd.AddCommand(newSongsActionCommand(ctx, review.ActionUnpublish, "Take a published submission down"))
	cmd.AddCommand(newSongsActionCommand(ctx, review.ActionDelete, "Delete a submission"))
	return cmd
}

type listFlags struct {
	query  string
	page   int
	limit  int
	values map[string]*string
}

func newSongsListCommand(ctx *commandContext) *cobra.Command {
	flags := listFlags{values: make(map[string]*string)}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of the review table",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if _, err := ctx.adminSession(cmd.Context(), client); err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			view := console.NewListView(client, ctx.bus, cfg.PageSize)
			defer view.Close()

			if flags.query != "" {
				if err := view.Restore(flags.query); err != nil {
					return err
				}
			}
			for _, field := range console.AdminFields {
				if cmd.Flags().Changed(flagName(field.Key)) {
					if err := view.SetFilter(field.Key, *flags.values[field.Key]); err != nil {
						return err
					}
				}
			}
			if cmd.Flags().Changed("page") || cmd.Flags().Changed("limit") {
				if err := view.Restore(positionQuery(view.QueryString(), flags.page, flags.limit)); err != nil {
					return err
				}
			}

			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			printSongTable(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.query, "query", "", "Restore filters and position from a previous listing")
	cmd.Flags().IntVar(&flags.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Rows per page (default from config)")
	for _, field := range console.AdminFields {
		value := new(string)
		flags.values[field.Key] = value
		cmd.Flags().StringVar(value, flagName(field.Key), "", "Filter by "+strings.ToLower(field.Label))
	}
	return cmd
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// positionQuery overrides page and limit in an encoded listing query.
func positionQuery(raw string, page, limit int) string {
	parts := strings.Split(raw, "&")
	kept := parts[:0]
	for _, p := range parts {
		if strings.HasPrefix(p, "page=") || (limit > 0 && strings.HasPrefix(p, "limit=")) {
			continue
		}
		kept = append(kept, p)
	}
	kept = append(kept, "page="+strconv.Itoa(page))
	if limit > 0 {
		kept = append(kept, "limit="+strconv.Itoa(limit))
	}
	return strings.Join(kept, "&")
}

func printSongTable(out io.Writer, view *console.ListView) {
	rows := view.Rows()
	table := make([][]string, 0, len(rows))
	for i := range rows {
		s := rows[i]
		table = append(table, []string{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			s.ArtistName,
			string(review.StateOf(&s)),
			formatTime(&s.CreatedAt),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Name", "Artist", "State", "Created"},
		table,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))

	pager := view.Pager()
	from, to := pager.Showing()
	fmt.Fprintf(out, "Showing %d-%d of %d (page %d of %d)\n", from, to, pager.Count, pager.Page, pager.TotalPages())
	if pager.HasNext() {
		fmt.Fprintf(out, "Next page: lyricsctl songs list --query %q\n", positionQuery(view.QueryString(), pager.Page+1, 0))
	}
}

func parseSongID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid song id %q", arg)
	}
	return id, nil
}

func newSongsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one submission and the actions available for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSongID(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			session, err := ctx.adminSession(cmd.Context(), client)
			if err != nil {
				return err
			}

			view := console.NewDetailView(client, ctx.bus, session, id)
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			printSongDetail(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func printSongDetail(out io.Writer, view *console.DetailView) {
	r := view.Record()
	rows := [][]string{
		{"ID", strconv.FormatInt(r.ID, 10)},
		{"Name", r.Name},
		{"Translated name", deref(r.NameTranslation)},
		{"Artist", r.ArtistName},
		{"Genre", referenceName(r.Genre)},
		{"Language", referenceName(r.Language)},
		{"Translation language", referenceName(r.TranslationLanguage)},
		{"State", string(review.StateOf(&r.Submission))},
		{"Created", formatTime(&r.CreatedAt)},
		{"Published", formatTime(r.PublishedAt)},
		{"Note", deref(r.Note)},
		{"Uploader", deref(r.UploaderEmail)},
	}
	fmt.Fprint(out, renderTable([]string{"Field", "Value"}, rows, nil))
	fmt.Fprintf(out, "\n%s\n\n%s\n\n", r.Lyrics, r.LyricsTranslation)

	actions := view.Actions()
	labels := make([]string, 0, len(actions))
	for _, a := range actions {
		labels = append(labels, view.Label(a))
	}
	fmt.Fprintf(out, "Actions: %s\n", strings.Join(labels, ", "))
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func referenceName(ref *models.Reference) string {
	if ref == nil {
		return "-"
	}
	return ref.Name
}

var pastTense = map[review.Action]string{
	review.ActionApprove:   "approved",
	review.ActionReject:    "rejected",
	review.ActionUnpublish: "unpublished",
	review.ActionDelete:    "deleted",
}

func newSongsDecideCommand(ctx *commandContext, action review.Action) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   string(action) + " ID",
		Short: strings.ToUpper(string(action[:1])) + string(action[1:]) + " a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSongAction(cmd, ctx, args[0], action, func(c context.Context, v *console.DetailView) (*console.Navigation, error) {
				if action == review.ActionApprove {
					return v.Approve(c, note)
				}
				return v.Reject(c, note)
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Review note stored with the decision")
	return cmd
}

func newSongsActionCommand(ctx *commandContext, action review.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSongAction(cmd, ctx, args[0], action, func(c context.Context, v *console.DetailView) (*console.Navigation, error) {
				if action == review.ActionUnpublish {
					return v.Unpublish(c)
				}
				return v.Delete(c)
			})
		},
	}
}

// runSongAction performs one transition and, on success, follows the
// navigation back to the first page of the review table.
func runSongAction(cmd *cobra.Command, ctx *commandContext, arg string, action review.Action, call func(context.Context, *console.DetailView) (*console.Navigation, error)) error {
	id, err := parseSongID(arg)
	if err != nil {
		return err
	}
	client, err := ctx.client()
	if err != nil {
		return err
	}
	session, err := ctx.adminSession(cmd.Context(), client)
	if err != nil {
		return err
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	list := console.NewListView(client, ctx.bus, cfg.PageSize)
	defer list.Close()

	detail := console.NewDetailView(client, ctx.bus, session, id)
	nav, err := call(cmd.Context(), detail)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Submission %d %s\n", id, pastTense[action])
	if nav == nil || nav.Path != console.ListPath {
		return nil
	}
	if err := list.Load(cmd.Context()); err != nil {
		return err
	}
	printSongTable(out, list)
	return nil
}

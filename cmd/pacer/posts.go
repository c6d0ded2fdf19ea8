package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pacer/internal/blog"
)

func newPostsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect the blog catalog",
	}
	cmd.AddCommand(newPostsListCmd(root), newPostsShowCmd(root))
	return cmd
}

func newPostsListCmd(root *rootOptions) *cobra.Command {
	var (
		tag   string
		query string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List published posts, newest first",
		Long: `List published posts, newest first.

Examples:
  pacer posts list
  pacer posts list --tag nutrition
  pacer posts list --query "long run"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, err := root.container(ctx, nil)
			if err != nil {
				return err
			}
			defer container.Close()

			svc := container.BlogService()
			var posts []*blog.Post
			switch {
			case query != "":
				posts, err = svc.Search(ctx, query)
			case tag != "":
				posts, err = svc.ByTag(ctx, tag)
			default:
				posts, err = svc.All(ctx)
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tTITLE\tDATE\tMIN\tTAGS")
			for _, post := range posts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					post.Slug,
					post.Title,
					post.PublishedAt.Format("2006-01-02"),
					post.ReadingTime,
					strings.Join(post.Tags, ","),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only posts carrying this tag")
	cmd.Flags().StringVarP(&query, "query", "q", "", "full text search terms")
	return cmd
}

func newPostsShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Print one post as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := root.container(ctx, nil)
			if err != nil {
				return err
			}
			defer container.Close()

			post, err := container.BlogService().Get(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(post)
		},
	}
}

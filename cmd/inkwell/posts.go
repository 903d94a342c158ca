package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hypergopher/inkwell"
)

func (a *app) newListCmd() *cobra.Command {
	var (
		page     int
		pageSize int
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *inkwell.Service) error {
				var p inkwell.Paginator
				if admin {
					p = svc.ListAdmin(cmd.Context(), page, pageSize)
				} else {
					p = svc.List(cmd.Context(), page, pageSize)
				}

				printPage(cmd.OutOrStdout(), "Posts", p)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "posts per page (default from config)")
	cmd.Flags().BoolVar(&admin, "admin", false, "use the admin page size")

	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *inkwell.Service) error {
				post, ok := svc.GetByID(cmd.Context(), args[0])
				if !ok {
					return fmt.Errorf("post %s not found", args[0])
				}

				printPost(cmd.OutOrStdout(), post)
				return nil
			})
		},
	}
}

func (a *app) newCreateCmd() *cobra.Command {
	var data inkwell.CreatePostData

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := data.Validate(); err != nil {
				return err
			}

			return a.withService(func(svc *inkwell.Service) error {
				post := svc.Create(cmd.Context(), data)
				fmt.Fprintf(cmd.OutOrStdout(), "Created post %s\n", post.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&data.Title, "title", "", "post title")
	cmd.Flags().StringVar(&data.Body, "body", "", "post body (HTML)")

	return cmd
}

func (a *app) newUpdateCmd() *cobra.Command {
	var title, body string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the title or body of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data inkwell.UpdatePostData
			if cmd.Flags().Changed("title") {
				data.Title = &title
			}
			if cmd.Flags().Changed("body") {
				data.Body = &body
			}

			if data.IsEmpty() {
				return errors.New("nothing to update: set --title or --body")
			}
			if err := data.Validate(); err != nil {
				return err
			}

			return a.withService(func(svc *inkwell.Service) error {
				post, ok := svc.Update(cmd.Context(), args[0], data)
				if !ok {
					return fmt.Errorf("post %s not found", args[0])
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Updated post %s\n", post.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&body, "body", "", "new body (HTML)")

	return cmd
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *inkwell.Service) error {
				if !svc.Delete(cmd.Context(), args[0]) {
					return fmt.Errorf("post %s not found", args[0])
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %s\n", args[0])
				return nil
			})
		},
	}
}

func (a *app) newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *inkwell.Service) error {
				fmt.Fprintln(cmd.OutOrStdout(), svc.Count(cmd.Context()))
				return nil
			})
		},
	}
}

func (a *app) newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all posts without reseeding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *inkwell.Service) error {
				svc.ClearAll(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared all posts.")
				return nil
			})
		},
	}
}

func (a *app) newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard all posts and reseed from the remote source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *inkwell.Service) error {
				svc.ResetToSeed(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "Reset to %d seeded post(s).\n", svc.Count(cmd.Context()))
				return nil
			})
		},
	}
}

func (a *app) newSearchCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search post titles and content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return a.withService(func(svc *inkwell.Service) error {
				p := svc.Search(cmd.Context(), query, page, pageSize)
				printPage(cmd.OutOrStdout(), fmt.Sprintf("Results for %q", query), p)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page (default from config)")

	return cmd
}

func printPage(w io.Writer, heading string, p inkwell.Paginator) {
	fmt.Fprintln(w, headingStyle.Render(heading))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("page %d of %d, %d total", p.CurrentPage, p.TotalPages, p.TotalPosts)))

	if !p.HasPosts {
		fmt.Fprintln(w, "No posts.")
		return
	}

	for _, post := range p.Posts {
		fmt.Fprintf(w, "%s  %s  %s\n", idStyle.Render(post.ID), dimStyle.Render(post.CreatedDate()), post.Title)
	}
}

func printPost(w io.Writer, post *inkwell.Post) {
	fmt.Fprintln(w, headingStyle.Render(post.Title))

	meta := fmt.Sprintf("#%s, %s, %s read", post.ID, post.CreatedDate(), post.ReadingTime())
	if post.WasEdited() {
		meta += ", edited"
	}
	fmt.Fprintln(w, dimStyle.Render(meta))
	fmt.Fprintln(w)
	fmt.Fprintln(w, post.Body)
}

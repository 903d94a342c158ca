package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hypergopher/inkwell"
)

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.md>...",
		Short: "Create posts from markdown files with frontmatter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parse := inkwell.DefaultMarkdownParser()

			// Parse everything first so a bad file imports nothing
			items := make([]inkwell.CreatePostData, 0, len(args))
			for _, path := range args {
				data, err := inkwell.ReadMarkdownFile(parse, path)
				if err != nil {
					return err
				}
				if err := data.Validate(); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				items = append(items, data)
			}

			return a.withService(func(svc *inkwell.Service) error {
				for i, data := range items {
					post := svc.Create(cmd.Context(), data)
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as post %s\n", args[i], post.ID)
				}
				return nil
			})
		},
	}
}

func (a *app) newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every post to a markdown file with frontmatter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ff := inkwell.FrontmatterFormat(format)
			if ff != inkwell.FrontmatterYAML && ff != inkwell.FrontmatterTOML {
				return fmt.Errorf("unsupported format %q: use yaml or toml", format)
			}

			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}

			return a.withService(func(svc *inkwell.Service) error {
				written := 0
				for page := 1; ; page++ {
					p := svc.ListAdmin(cmd.Context(), page, 0)
					for _, post := range p.Posts {
						if _, err := inkwell.WriteMarkdownFile(dir, post, ff); err != nil {
							return err
						}
						written++
					}
					if !p.HasNext {
						break
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d post(s) to %s\n", written, dir)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", string(inkwell.FrontmatterYAML), "frontmatter format (yaml or toml)")

	return cmd
}

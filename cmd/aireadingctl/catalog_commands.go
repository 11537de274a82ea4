package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"aireading/internal/domain"
)

func newBookCommand(ctx *commandContext) *cobra.Command {
	bookCmd := &cobra.Command{
		Use:   "book",
		Short: "Manage the book catalog",
	}

	bookCmd.AddCommand(newBookAddCommand(ctx))
	bookCmd.AddCommand(newBookListCommand(ctx))

	return bookCmd
}

func newBookAddCommand(ctx *commandContext) *cobra.Command {
	var book domain.Book
	var unpublished bool

	addCmd := &cobra.Command{
		Use:   "add <slug>",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book.Slug = strings.TrimSpace(args[0])
			if book.Slug == "" {
				return fmt.Errorf("slug is required")
			}
			if book.Title == "" {
				return fmt.Errorf("--title is required")
			}
			book.IsPublished = !unpublished

			if err := ctx.ensureDB(cmd.Context()); err != nil {
				return err
			}

			if book.AudioKeyPrefix == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				book.AudioKeyPrefix = path.Join(cfg.Storage.KeyPrefix, book.Slug)
			}

			id, err := ctx.books.Create(cmd.Context(), &book)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added book %d (%s)\n", id, book.Slug)
			return nil
		},
	}

	flags := addCmd.Flags()
	flags.StringVar(&book.Title, "title", "", "Book title")
	flags.StringVar(&book.TitleZh, "title-zh", "", "Book title in Chinese")
	flags.StringVar(&book.Author, "author", "", "Author name")
	flags.StringVar(&book.Category, "category", "", "Catalog category")
	flags.StringVar(&book.Description, "description", "", "Description")
	flags.StringVar(&book.DescriptionZh, "description-zh", "", "Description in Chinese")
	flags.StringVar(&book.CoverURL, "cover-url", "", "Cover image URL")
	flags.StringVar(&book.AudioKeyPrefix, "audio-prefix", "", "Object key prefix for summary audio")
	flags.IntVar(&book.DurationShort, "duration-short", 0, "Short summary length in seconds")
	flags.IntVar(&book.DurationMedium, "duration-medium", 0, "Medium summary length in seconds")
	flags.IntVar(&book.DurationLong, "duration-long", 0, "Long summary length in seconds")
	flags.BoolVar(&unpublished, "unpublished", false, "Keep the book out of the public catalog")
	return addCmd
}

func newBookListCommand(ctx *commandContext) *cobra.Command {
	var category string
	var limit int

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List published books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensureDB(cmd.Context()); err != nil {
				return err
			}
			books, err := ctx.books.List(cmd.Context(), category, limit, 0)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(books) == 0 {
				fmt.Fprintln(out, "No books found")
				return nil
			}
			for _, book := range books {
				fmt.Fprintf(out, "%4d  %-30s %-40s %s\n", book.ID, book.Slug, book.Title, book.Category)
			}
			return nil
		},
	}

	listCmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum rows to print")
	return listCmd
}

func newRecommendationCommand(ctx *commandContext) *cobra.Command {
	recCmd := &cobra.Command{
		Use:   "recommendation",
		Short: "Manage celebrity recommendations",
	}

	recCmd.AddCommand(newRecommendationAddCommand(ctx))

	return recCmd
}

func newRecommendationAddCommand(ctx *commandContext) *cobra.Command {
	var rec domain.Recommendation

	addCmd := &cobra.Command{
		Use:   "add <book-slug>",
		Short: "Attach a celebrity recommendation to a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rec.CelebrityName == "" {
				return fmt.Errorf("--name is required")
			}
			if rec.Text == "" {
				return fmt.Errorf("--text is required")
			}

			if err := ctx.ensureDB(cmd.Context()); err != nil {
				return err
			}
			book, err := ctx.books.GetBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rec.BookID = book.ID
			rec.IsActive = true

			id, err := ctx.recs.Create(cmd.Context(), &rec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added recommendation %d for %s\n", id, book.Slug)
			return nil
		},
	}

	flags := addCmd.Flags()
	flags.StringVar(&rec.CelebrityName, "name", "", "Celebrity name")
	flags.StringVar(&rec.CelebrityTitle, "celebrity-title", "", "Celebrity title or role")
	flags.StringVar(&rec.CelebrityAvatarURL, "avatar-url", "", "Celebrity avatar URL")
	flags.StringVar(&rec.Text, "text", "", "Recommendation text")
	flags.StringVar(&rec.Source, "source", "", "Where the quote comes from")
	flags.StringVar(&rec.SourceURL, "source-url", "", "Link to the source")
	flags.IntVar(&rec.DisplayOrder, "order", 0, "Display order within the book page")
	flags.BoolVar(&rec.IsFeatured, "featured", false, "Show on the featured shelf")
	return addCmd
}

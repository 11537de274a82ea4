package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aireading/internal/domain"
)

func newAudioCommand(ctx *commandContext) *cobra.Command {
	audioCmd := &cobra.Command{
		Use:   "audio",
		Short: "Manage summary audio objects",
	}

	audioCmd.AddCommand(newAudioUploadCommand(ctx))
	audioCmd.AddCommand(newAudioListCommand(ctx))
	audioCmd.AddCommand(newAudioDeleteCommand(ctx))

	return audioCmd
}

func newAudioUploadCommand(ctx *commandContext) *cobra.Command {
	var summaryType string

	uploadCmd := &cobra.Command{
		Use:   "upload <book-slug> <file>",
		Short: "Upload one summary rendition for a book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rendition := domain.SummaryType(summaryType)
			if !rendition.Valid() {
				return fmt.Errorf("summary type must be one of: short, medium, long")
			}

			if err := ctx.ensureDB(cmd.Context()); err != nil {
				return err
			}
			book, err := ctx.books.GetBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			object, bucket, err := ctx.ensureStorage(cmd.Context())
			if err != nil {
				return err
			}

			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			key := book.AudioKey(rendition)
			if err := object.Upload(cmd.Context(), bucket, key, "audio/mpeg", file); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to s3://%s/%s\n", args[1], bucket, key)
			return nil
		},
	}

	uploadCmd.Flags().StringVarP(&summaryType, "type", "t", "short", "Summary rendition: short, medium, or long")
	return uploadCmd
}

func newAudioListCommand(ctx *commandContext) *cobra.Command {
	var prefix string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored audio objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			object, bucket, err := ctx.ensureStorage(cmd.Context())
			if err != nil {
				return err
			}

			if prefix == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				prefix = cfg.Storage.KeyPrefix
			}

			objects, err := object.ListObjects(cmd.Context(), bucket, prefix)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(objects) == 0 {
				fmt.Fprintln(out, "No objects found")
				return nil
			}
			for _, obj := range objects {
				updated := "unknown"
				if obj.LastModified != nil {
					updated = obj.LastModified.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(out, "%-60s %10d  %s\n", obj.Key, obj.Size, updated)
			}
			return nil
		},
	}

	listCmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Key prefix to list (defaults to the configured audio prefix)")
	return listCmd
}

func newAudioDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete one audio object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			object, bucket, err := ctx.ensureStorage(cmd.Context())
			if err != nil {
				return err
			}
			if err := object.DeleteObject(cmd.Context(), bucket, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted s3://%s/%s\n", bucket, args[0])
			return nil
		},
	}
}

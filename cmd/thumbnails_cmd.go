package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/showroom/internal/config"
	"github.com/oakwood-commons/showroom/internal/thumbnails"
	"github.com/oakwood-commons/showroom/pkg/loader"
	"github.com/oakwood-commons/showroom/pkg/logger"
)

var (
	thumbnailsDB    string
	thumbnailsDelay time.Duration
)

func newThumbnailsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "thumbnails",
		Short: "Resolve car and rims thumbnails and write their URLs into the dataset",
		Long: "Collect the asset ids of the car image and rims fields, resolve them through the\n" +
			"thumbnails API in paced batches and write the image URLs back into the dataset file.\n" +
			"Assets that never complete are written as null.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := thumbnailsDB
			if path == "" {
				path = cfg.Data.Source
			}
			if path == "" || path == "-" || loader.IsURL(path) {
				return usage(fmt.Errorf("thumbnails needs a local dataset file, got %q", path))
			}

			tc := cfg.Thumbnails
			if cmd.Flags().Changed("delay") {
				tc.Delay = thumbnailsDelay
			}
			client := newThumbnailsClient(tc, *logger.FromContext(rootCtx))

			sum, err := thumbnails.Update(rootCtx, client, path, cfg.Schema)
			if errors.Is(err, thumbnails.ErrNoAssets) {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "No assets found in %s\n", path)
				return err
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Resolved %d unique assets: %d fetched, %d failed\n", sum.Assets, sum.Fetched, sum.Failed)
			fmt.Fprintf(w, "Updated %d records in %s\n", sum.Updated, path)
			return nil
		},
	}
	c.Flags().StringVar(&thumbnailsDB, "db", "", "dataset file to update (default data.source from config)")
	c.Flags().DurationVar(&thumbnailsDelay, "delay", thumbnails.DefaultDelay, "minimum spacing between API requests (overrides thumbnails.delay)")
	return c
}

func newThumbnailsClient(tc config.ThumbnailsConfig, lgr logr.Logger) *thumbnails.Client {
	opts := []thumbnails.Option{
		thumbnails.WithHTTPClient(&http.Client{Timeout: tc.Timeout}),
		thumbnails.WithBatchSize(tc.BatchSize),
		thumbnails.WithMaxRetries(tc.MaxRetries),
		thumbnails.WithDelay(tc.Delay),
		thumbnails.WithLogger(lgr),
	}
	if tc.Endpoint != "" {
		opts = append(opts, thumbnails.WithEndpoint(tc.Endpoint))
	}
	if tc.Size != "" {
		opts = append(opts, thumbnails.WithSize(tc.Size))
	}
	if tc.Format != "" {
		opts = append(opts, thumbnails.WithFormat(tc.Format))
	}
	return thumbnails.NewClient(opts...)
}

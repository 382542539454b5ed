package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajharbinger/lotpilot/internal/identify"
)

func newIdentifyCmd(root *rootOptions) *cobra.Command {
	var (
		req         identify.Request
		listingFile string
	)
	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Identify a vehicle from a description, URL or saved listing page",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listingFile != "" {
				html, err := readInput(cmd, listingFile)
				if err != nil {
					return fmt.Errorf("read listing: %w", err)
				}
				req.ListingHTML = string(html)
			}

			var fetcher *identify.ListingFetcher
			if req.FetchListing {
				fetcher = identify.NewListingFetcher(1, 10*time.Second)
				defer fetcher.Close()
			}

			result, err := identify.NewIdentifier(fetcher, root.logger()).Identify(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "free-text vehicle description")
	cmd.Flags().StringVar(&req.URL, "url", "", "listing URL")
	cmd.Flags().StringVar(&listingFile, "listing-file", "", "saved listing HTML page, or - for stdin")
	cmd.Flags().BoolVar(&req.FetchListing, "fetch", false, "fetch the --url page and scan it too")
	return cmd
}

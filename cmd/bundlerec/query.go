package main

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/bundlerec/core"
)

var (
	booking core.BookingContext
	top     int
	curated bool
	bought  []string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank every registered bundle of a hotel for one booking",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var recs []core.Recommendation
		switch {
		case curated:
			recs, err = a.rec.CuratedBundles(cmd.Context(), booking)
		case top > 0:
			recs, err = a.rec.TopBundles(cmd.Context(), booking, top)
		default:
			recs, err = a.rec.RankBundles(cmd.Context(), booking)
		}
		if err != nil {
			return err
		}
		return printJSON(recs)
	},
}

var upsaleCmd = &cobra.Command{
	Use:   "upsale",
	Short: "Score bundles against the items a guest already bought",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		cands, err := a.rec.Upsale(cmd.Context(), booking, bought)
		if err != nil {
			return err
		}
		return printJSON(cands)
	},
}

var hotelsCmd = &cobra.Command{
	Use:   "hotels",
	Short: "List hotels in the registry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return printJSON(a.rec.Hotels())
	},
}

func bookingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&booking.Hotel, "hotel", "", "hotel name (required)")
	f.IntVar(&booking.Adults, "adults", 2, "number of adults")
	f.IntVar(&booking.Children, "children", 0, "number of children")
	f.IntVar(&booking.Infants, "infants", 0, "number of infants")
	f.IntVar(&booking.Month, "month", 1, "arrival month (1-12)")
	f.IntVar(&booking.Nights, "nights", 1, "number of nights")
	f.BoolVar(&booking.Weekend, "weekend", false, "stay includes a weekend")
	f.BoolVar(&booking.Holiday, "holiday", false, "stay includes a holiday")
	f.StringVar(&booking.Origin, "origin", core.OriginNorth, "customer origin: North, South, Middle or Oversea")
	_ = cmd.MarkFlagRequired("hotel")
}

func init() {
	bookingFlags(rankCmd)
	rankCmd.Flags().IntVar(&top, "top", 0, "only print the n most likely bundles")
	rankCmd.Flags().BoolVar(&curated, "curated", false, "apply the configured post-processing pipeline")

	bookingFlags(upsaleCmd)
	upsaleCmd.Flags().StringArrayVar(&bought, "bought", nil, "item the guest already bought (repeatable)")

	rootCmd.AddCommand(rankCmd, upsaleCmd, hotelsCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

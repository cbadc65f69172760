// Package report renders trip plans for people (text) and spreadsheets (CSV).
package report

import (
	"fmt"
	"fuel-stop-planner/internal/domain"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// Summary is the one-line result headline.
func Summary(plan *domain.TripPlan) string {
	if plan.NoStopsNeeded() {
		return fmt.Sprintf("With a range of ~%.0f miles, you don't need any fuel stops on this route.",
			plan.Params.RangeMiles)
	}
	return fmt.Sprintf("Estimated fuel stops needed: %d (range ≈ %.0f mi)",
		len(plan.Stops), plan.Params.RangeMiles)
}

// RatingLine formats "Rating: 4.3 (120 reviews)", or "" for unrated stops.
func RatingLine(s domain.StopRecord) string {
	if s.Rating == nil {
		return ""
	}
	total := 0
	if s.UserRatingsTotal != nil {
		total = *s.UserRatingsTotal
	}
	return fmt.Sprintf("Rating: %.1f (%d reviews)", *s.Rating, total)
}

// WriteText writes the human-readable plan: the trip summary followed by one card per stop.
func WriteText(w io.Writer, plan *domain.TripPlan) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Total trip distance: %.1f miles\n", plan.TotalDistanceMiles)
	b.WriteString(Summary(plan))
	b.WriteString("\n")

	for _, s := range plan.Stops {
		fmt.Fprintf(&b, "\nStop #%d: %s\n", s.Index, s.Name)
		if s.Address != "" {
			fmt.Fprintf(&b, "  %s\n", s.Address)
		}
		fmt.Fprintf(&b, "  Distance from start: ~%.1f miles\n", s.DistanceFromStartMiles)
		if line := RatingLine(s); line != "" {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type csvStop struct {
	Index            int    `csv:"stop"`
	DistanceMiles    string `csv:"distance_from_start_miles"`
	Lat              string `csv:"lat"`
	Lng              string `csv:"lng"`
	Name             string `csv:"name"`
	Address          string `csv:"address"`
	Rating           string `csv:"rating"`
	UserRatingsTotal string `csv:"user_ratings_total"`
	StationFound     bool   `csv:"station_found"`
}

// WriteCSV writes one row per stop with a header row. Unrated stops leave
// the rating columns empty.
func WriteCSV(w io.Writer, plan *domain.TripPlan) error {
	rows := make([]*csvStop, 0, len(plan.Stops))
	for _, s := range plan.Stops {
		row := &csvStop{
			Index:         s.Index,
			DistanceMiles: strconv.FormatFloat(s.DistanceFromStartMiles, 'f', 1, 64),
			Lat:           strconv.FormatFloat(s.Position.Lat, 'f', 6, 64),
			Lng:           strconv.FormatFloat(s.Position.Lng, 'f', 6, 64),
			Name:          s.Name,
			Address:       s.Address,
			StationFound:  s.StationFound,
		}
		if s.Rating != nil {
			row.Rating = strconv.FormatFloat(*s.Rating, 'f', 1, 64)
		}
		if s.UserRatingsTotal != nil {
			row.UserRatingsTotal = strconv.Itoa(*s.UserRatingsTotal)
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

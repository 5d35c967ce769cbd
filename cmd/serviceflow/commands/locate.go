package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"serviceflow/internal/domain"
	"serviceflow/internal/location"
)

// printSink writes picker callbacks to the terminal.
type printSink struct {
	out, errOut io.Writer
	confirmed   bool
}

func (s *printSink) ConfirmLocation(loc domain.GeoLocation) {
	s.confirmed = true
	fmt.Fprintln(s.out, loc.String())
}

func (s *printSink) Advise(a domain.LocationAdvisory) {
	fmt.Fprintln(s.errOut, "warning:", a.Message)
}

// errNoLocation is returned when no address could be produced.
var errNoLocation = errors.New("no location found")

func locateCmd(opts *rootOptions) *cobra.Command {
	var (
		current bool
		point   string
	)

	cmd := &cobra.Command{
		Use:   "locate [query]",
		Short: "Print address suggestions, or a single location with --current or --point",
		Args: func(cmd *cobra.Command, args []string) error {
			if current || point != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sink := &printSink{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			picker := opts.wire.Picker

			switch {
			case current:
				picker.RequestCurrentPosition(cmd.Context(), sink)
			case point != "":
				lat, lng, err := parsePoint(point)
				if err != nil {
					return err
				}
				picker.PickPoint(cmd.Context(), lat, lng, sink)
			}
			if current || point != "" {
				if !sink.confirmed {
					return errNoLocation
				}
				return nil
			}

			results, err := picker.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				sink.Advise(location.Advisory(err))
				return err
			}
			if len(results) == 0 {
				sink.Advise(location.Advisory(domain.ErrNoResults))
				return errNoLocation
			}
			for i, r := range results {
				fmt.Fprintf(sink.out, "%d. %s\n", i+1, r.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&current, "current", false, "use \"find my location\" instead of a search")
	cmd.Flags().StringVar(&point, "point", "", "name the address at \"lat,lng\" as if picked on the map")
	cmd.MarkFlagsMutuallyExclusive("current", "point")
	return cmd
}

func parsePoint(s string) (lat, lng float64, err error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("point %q: want lat,lng", s)
	}
	if lat, err = strconv.ParseFloat(strings.TrimSpace(latStr), 64); err != nil {
		return 0, 0, fmt.Errorf("point %q: latitude: %w", s, err)
	}
	if lng, err = strconv.ParseFloat(strings.TrimSpace(lngStr), 64); err != nil {
		return 0, 0, fmt.Errorf("point %q: longitude: %w", s, err)
	}
	return lat, lng, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/warp/holiday-engine/factory"
	"github.com/warp/holiday-engine/generic"
)

// row is the printable form of a holiday.
type row struct {
	Date     string `json:"date" yaml:"date"`
	Weekday  string `json:"weekday" yaml:"weekday"`
	Key      string `json:"key" yaml:"key"`
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Observes string `json:"observes,omitempty" yaml:"observes,omitempty"`
}

func toRows(hs []generic.Holiday) []row {
	rows := make([]row, len(hs))
	for i, h := range hs {
		rows[i] = row{
			Date:    h.Date.String(),
			Weekday: h.Date.Weekday().String(),
			Key:     h.Key,
			Name:    h.Name(),
			Type:    string(h.Type),
		}
		if h.Observed != nil {
			rows[i].Observes = h.Observed.Key
		}
	}
	return rows
}

// render writes v as json or yaml, or calls text for the default format.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	case "", "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		if err := text(tw); err != nil {
			return err
		}
		return tw.Flush()
	default:
		return &generic.InvalidArgumentError{Field: "format", Value: format}
	}
}

// =============================================================================
// LIST
// =============================================================================

func newListCmd(opts *options) *cobra.Command {
	var (
		timezone string
		typ      string
		format   string
	)

	cmd := &cobra.Command{
		Use:     "list <region> [year]",
		Short:   "Print the holidays of a region",
		Aliases: []string{"ls"},
		Example: "holidays list Chile 2017 --locale es_CL\nholidays list CL-AP --type official --format json",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := time.Now().Year()
			if len(args) == 2 {
				y, err := strconv.Atoi(args[1])
				if err != nil {
					return &generic.InvalidArgumentError{Field: "year", Value: args[1], Err: err}
				}
				year = y
			}
			var filter generic.Type
			if typ != "" {
				t, err := generic.ParseType(typ)
				if err != nil {
					return err
				}
				filter = t
			}

			e, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			set, err := e.registry.Holidays(args[0], generic.Params{Year: year, Timezone: timezone, Locale: opts.locale})
			if err != nil {
				return err
			}
			holidays := set.All()
			if filter != "" {
				holidays = set.ByType(filter)
			}

			rows := toRows(holidays)
			return render(cmd.OutOrStdout(), format, rows, func(w io.Writer) error {
				fmt.Fprintf(w, "%s %d (%s)\n", set.Region(), set.Year(), set.Locale())
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Date, r.Weekday[:3], r.Name, r.Type)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone (default: the region's)")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "only holidays of this type")
	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text, json, yaml")
	return cmd
}

// =============================================================================
// CHECK
// =============================================================================

type checkResult struct {
	Region    string `json:"region" yaml:"region"`
	Date      string `json:"date" yaml:"date"`
	IsHoliday bool   `json:"is_holiday" yaml:"is_holiday"`
	IsWorkday bool   `json:"is_workday" yaml:"is_workday"`
	Holidays  []row  `json:"holidays" yaml:"holidays"`
}

func newCheckCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "check <region> <YYYY-MM-DD>",
		Short:   "Report whether a date is a holiday",
		Example: "holidays check Chile 2017-01-02",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			p, err := e.registry.Lookup(args[0])
			if err != nil {
				return err
			}
			loc, err := generic.LoadLocation(p.Timezone())
			if err != nil {
				return err
			}
			date, err := generic.ParseDate(args[1], loc)
			if err != nil {
				return err
			}
			set, err := e.registry.Holidays(args[0], generic.Params{Year: date.Year(), Locale: opts.locale})
			if err != nil {
				return err
			}

			on := set.On(date)
			res := checkResult{
				Region:    set.Region(),
				Date:      date.String(),
				IsHoliday: len(on) > 0,
				IsWorkday: date.IsWorkday(set),
				Holidays:  toRows(on),
			}
			return render(cmd.OutOrStdout(), format, res, func(w io.Writer) error {
				if !res.IsHoliday {
					kind := "workday"
					if !res.IsWorkday {
						kind = "weekend"
					}
					fmt.Fprintf(w, "%s %s: no holiday (%s)\n", res.Region, res.Date, kind)
					return nil
				}
				for _, r := range res.Holidays {
					fmt.Fprintf(w, "%s %s:\t%s\t%s\n", res.Region, res.Date, r.Name, r.Type)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text, json, yaml")
	return cmd
}

// =============================================================================
// REGIONS
// =============================================================================

type regionRow struct {
	ID       string `json:"id" yaml:"id"`
	Region   string `json:"region" yaml:"region"`
	Timezone string `json:"timezone" yaml:"timezone"`
	Custom   bool   `json:"custom,omitempty" yaml:"custom,omitempty"`
}

func newRegionsCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List known regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			var rows []regionRow
			for _, p := range e.registry.List() {
				_, custom := p.(*factory.Calendar)
				rows = append(rows, regionRow{ID: p.ID(), Region: p.Region(), Timezone: p.Timezone(), Custom: custom})
			}
			return render(cmd.OutOrStdout(), format, rows, func(w io.Writer) error {
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Region, r.Timezone)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text, json, yaml")
	return cmd
}

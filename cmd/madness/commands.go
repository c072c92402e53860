package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/madness/internal/domain/bracket"
	"github.com/okian/madness/internal/domain/types"
)

const dateLayout = "2006-01-02"

func (c *cli) ratingsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Print the ratings table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			res, err := svc.Ratings(cmd.Context(), types.RatingsRequest{Limit: limit})
			if err != nil {
				return err
			}
			return printRatings(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Print only the top N teams (0 prints all)")
	return cmd
}

func (c *cli) simulateCmd() *cobra.Command {
	var (
		decider string
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate the bracket and print every game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			req := types.SimulationRequest{Decider: decider}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			res, err := svc.SimulateBracket(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printSimulation(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&decider, "decider", types.DeciderSeed, "Decision rule: seed or rating")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for equal-seed coin flips")
	return cmd
}

func (c *cli) segmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segments",
		Short: "Print the dates covered by each time segment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			opts := c.cfg.Ranking.Clone()
			res, err := svc.Segments(cmd.Context(), &opts)
			if err != nil {
				return err
			}
			return printSegments(cmd.OutOrStdout(), res)
		},
	}
}

func printRatings(out io.Writer, res types.RatingsResult) error {
	fmt.Fprintf(out, "%s ratings: %d teams, %d games\n\n", res.Algorithm, res.Teams, res.Games)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "RANK\tTEAM\tRATING\t")
	for _, r := range res.Ratings {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t\n", r.Rank, r.Team, r.Rating)
	}
	return tw.Flush()
}

func printSimulation(out io.Writer, res types.SimulationResult) error {
	fmt.Fprintf(out, "run %s (%s decider", res.RunID, res.Decider)
	if res.Algorithm != "" {
		fmt.Fprintf(out, ", %s", res.Algorithm)
	}
	fmt.Fprintln(out, ")")

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	round := 0
	for _, g := range res.Games {
		if g.Round != round {
			round = g.Round
			fmt.Fprintf(tw, "\nROUND %d\t\t\t\n", round)
		}
		fmt.Fprintf(tw, "%s\t%s\tvs %s\t-> %s\n",
			g.Region, side(g, bracket.Slot1), side(g, bracket.Slot2), winner(g))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\nchampion: (%d) %s\n", res.ChampionSeed, res.Champion)
	return err
}

func printSegments(out io.Writer, res types.SegmentsResult) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEGMENT\tDAYS\tFROM\tTO\tWEIGHT")
	for _, s := range res.Segments {
		if s.StartDay > s.EndDay {
			fmt.Fprintf(tw, "%d\t-\t-\t-\t%g\n", s.Index+1, s.Weight)
			continue
		}
		fmt.Fprintf(tw, "%d\t%d-%d\t%s\t%s\t%g\n", s.Index+1, s.StartDay, s.EndDay,
			s.StartDate.Format(dateLayout), s.EndDate.Format(dateLayout), s.Weight)
	}
	return tw.Flush()
}

func side(g bracket.Game, s bracket.Slot) string {
	name := g.Name(s)
	if name == nil {
		return "TBD"
	}
	if seed := g.Seed(s); seed != nil {
		return fmt.Sprintf("(%d) %s", *seed, *name)
	}
	return *name
}

func winner(g bracket.Game) string {
	s, ok := g.Winner()
	if !ok {
		return "-"
	}
	return side(g, s)
}


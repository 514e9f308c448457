// panels.go implements the plain-text renditions of the dashboard panels.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/render"
	"github.com/examcoach/examcoach/samples"
)

func newSubmitCmd(opts *options) *cobra.Command {
	var useSample bool

	cmd := &cobra.Command{
		Use:   "submit [file.json]",
		Short: "Submit a mock test for analysis",
		Long: `Submit a mock test read from a JSON file, or the built-in sample with
--sample. The student id in the file is replaced by the current one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			switch {
			case useSample:
				raw = samples.MockTest
			case len(args) == 1:
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("reading test: %w", err)
				}
				raw = data
			default:
				return fmt.Errorf("a test file or --sample is required")
			}

			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			test, err := api.DecodeMockTest(raw, s.studentID)
			if err != nil {
				return err
			}
			res, err := s.client.SubmitTest(cmd.Context(), test)
			if err != nil {
				fmt.Fprintln(out(cmd), render.SubmitFailure(api.Message(err)).Text())
				return err
			}
			fmt.Fprintln(out(cmd), render.SubmitSuccess(res).Text())
			return nil
		},
	}

	cmd.Flags().BoolVar(&useSample, "sample", false, "Submit the built-in sample test")
	return cmd
}

func newAnalysisCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analysis",
		Short: "Show weak and strong topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			a, err := s.client.Analysis(cmd.Context(), s.studentID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), render.BuildAnalysis(a).Render(renderWidth))
			return nil
		},
	}
}

func newPlanCmd(opts *options) *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the latest study plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			fetch := s.client.LatestPlan
			if generate {
				fetch = s.client.GeneratePlan
			}
			env, err := fetch(cmd.Context(), s.studentID)
			if err != nil {
				return err
			}

			// Print every day expanded; only the first starts open.
			plan := render.BuildPlan(env.Plan)
			for i := 1; i < len(plan.Days); i++ {
				plan.Toggle(i)
			}
			fmt.Fprintln(out(cmd), plan.Render(renderWidth, -1))
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "Generate a new 7-day plan first")
	return cmd
}

func newRecommendationsCmd(opts *options) *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "recommendations",
		Short: "Show the latest recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			fetch := s.client.LatestRecommendations
			if generate {
				fetch = s.client.GenerateRecommendations
			}
			env, err := fetch(cmd.Context(), s.studentID)
			if err != nil {
				return err
			}
			cards := render.BuildRecommendations(env.Recommendations)
			fmt.Fprintln(out(cmd), render.RenderRecommendations(cards, renderWidth))
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "Generate new recommendations first")
	return cmd
}

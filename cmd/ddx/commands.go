package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/setup"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Autocomplete a diagnosis name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			results, err := app.Service.SearchDiagnoses(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			for _, r := range results {
				if r.MatchedAbbreviation != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", r.Term, r.MatchedAbbreviation)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), r.Term)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "Maximum number of suggestions (default 8)")
	return cmd
}

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate --case <id> <diagnosis>...",
		Short: "Evaluate a differential against a stored case",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			caseID, _ := cmd.Flags().GetString("case")
			mode, _ := cmd.Flags().GetString("mode")
			withPrompt, _ := cmd.Flags().GetBool("prompt")

			if withPrompt {
				fp, err := app.Service.FeedbackPrompt(cmd.Context(), caseID, entriesFromArgs(args), domain.FeedbackMode(mode))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), fp.Prompt)
				return err
			}

			eval, err := app.Service.EvaluateCase(cmd.Context(), caseID, entriesFromArgs(args), domain.FeedbackMode(mode))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), eval)
		},
	}
	cmd.Flags().String("case", "", "Case id")
	cmd.Flags().String("mode", string(domain.COMBINED), "Feedback mode: breadth, cant_miss or combined")
	cmd.Flags().Bool("prompt", false, "Print the narrative feedback prompt instead of the structured result")
	_ = cmd.MarkFlagRequired("case")
	return cmd
}

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz --case <id> <diagnosis>...",
		Short: "Generate practice cards for a differential",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetInt64("seed")
			app, err := loadApp(cmd, func(cfg *domain.Config) {
				if seed != 0 {
					cfg.Quiz.Seed = seed
				}
			})
			if err != nil {
				return err
			}
			defer app.Close()

			caseID, _ := cmd.Flags().GetString("case")
			quiz, err := app.Service.PracticeQuiz(cmd.Context(), caseID, entriesFromArgs(args))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), quiz.Cards)
		},
	}
	cmd.Flags().String("case", "", "Case id")
	cmd.Flags().Int64("seed", 0, "Seed for card ordering (0 uses quiz.seed)")
	_ = cmd.MarkFlagRequired("case")
	return cmd
}

func newCasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cases",
		Short: "List stored cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			cases, err := app.Service.ListCases(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cases {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", c.ID, c.ChiefComplaint, c.Title)
			}
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check --correct <diagnosis> <answer>...",
		Short: "Check a single-answer practice attempt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			correct, _ := cmd.Flags().GetString("correct")
			ok, err := app.Service.CheckPracticeAnswer(cmd.Context(), args, correct)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), "correct")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "not quite: the answer was %s\n", correct)
			}
			return nil
		},
	}
	cmd.Flags().String("correct", "", "The correct diagnosis")
	_ = cmd.MarkFlagRequired("correct")
	return cmd
}

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with a desktop MCP client",
	}

	register := &cobra.Command{
		Use:   "register",
		Short: "Add or update the server entry in a client config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := setup.Options{}
			opts.ConfigPath, _ = cmd.Flags().GetString("client-config")
			opts.BinaryPath, _ = cmd.Flags().GetString("binary")
			opts.CasesDir, _ = cmd.Flags().GetString("cases-dir")
			opts.CatalogPath, _ = cmd.Flags().GetString("catalog")

			server, err := setup.Register(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s -> %s in %s\n", setup.ServerName, server.Command, opts.ConfigPath)
			return nil
		},
	}
	register.Flags().String("client-config", "", "MCP client config file to update")
	register.Flags().String("binary", "", "Path to the mcp-server binary (default: look it up)")
	_ = register.MarkFlagRequired("client-config")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the registration state in a client config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("client-config")
			st, err := setup.GetStatus(path)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}
	status.Flags().String("client-config", "", "MCP client config file to inspect")
	_ = status.MarkFlagRequired("client-config")

	cmd.AddCommand(register, status)
	return cmd
}

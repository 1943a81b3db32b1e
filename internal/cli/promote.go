package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vibepm/internal/config"
	"vibepm/internal/promotion"
)

func PromoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote <capture-id>",
		Short: "Turn a quick capture into a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := apiClient(cmd, config.Load())

			qc, err := c.GetCapture(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load capture: %w", err)
			}

			flow := promotion.NewFlow(c, promotion.Capture{ID: qc.ID, Content: qc.Content, Analysis: qc.Analysis})
			fmt.Println("Analyzing idea...")
			if err := flow.Start(ctx); err != nil {
				return err
			}

			skip, _ := cmd.Flags().GetBool("yes")
			in := bufio.NewReader(cmd.InOrStdin())
			if flow.Step() == promotion.StepQuestions {
				if skip {
					if err := flow.Skip(); err != nil {
						return err
					}
				} else if err := askQuestions(ctx, flow, in); err != nil {
					return err
				}
			}

			if name, _ := cmd.Flags().GetString("name"); strings.TrimSpace(name) != "" {
				flow.Draft.Name = strings.TrimSpace(name)
			}
			printDraft(flow.Draft)

			if err := flow.Create(ctx); err != nil {
				if flow.Err() == nil {
					return err
				}
				fmt.Printf("%s %v, retrying\n", warnMark, err)
				if err := flow.Retry(ctx); err != nil {
					return err
				}
			}
			p := flow.Project()
			fmt.Printf("%s Created project %s (%s)\n", okMark, p.Name, p.Slug)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "skip clarifying questions")
	cmd.Flags().String("name", "", "override the suggested project name")
	return cmd
}

// askQuestions reads one line per clarifying question and refines the
// suggestions when anything was answered.
func askQuestions(ctx context.Context, flow *promotion.Flow, in *bufio.Reader) error {
	answered := false
	for _, q := range flow.Suggestions().ClarifyingQuestions {
		fmt.Println(color.New(color.FgCyan).Sprint(q.Question))
		if q.Hint != "" {
			fmt.Printf("  (%s)\n", q.Hint)
		}
		fmt.Print("> ")
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if text := strings.TrimSpace(line); text != "" {
			flow.Answer(q.ID, text)
			answered = true
		}
		if err == io.EOF {
			break
		}
	}
	if !answered {
		return flow.Skip()
	}
	fmt.Println("Refining suggestions...")
	return flow.Refine(ctx)
}

func printDraft(d promotion.Draft) {
	bold := color.New(color.Bold)
	fmt.Printf("%s %s\n", bold.Sprint("Name:"), d.Name)
	if d.Problem != "" {
		fmt.Printf("%s %s\n", bold.Sprint("Problem:"), d.Problem)
	}
	if d.MvpDefinition != "" {
		fmt.Printf("%s %s\n", bold.Sprint("MVP:"), d.MvpDefinition)
	}
}

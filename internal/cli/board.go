package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vibepm/internal/board"
	"vibepm/internal/client"
	"vibepm/internal/config"
)

var laneTitles = map[board.Lane]string{
	board.LaneTodo:       "To Do",
	board.LanePrompts:    "Prompts",
	board.LaneInProgress: "In Progress",
	board.LaneDone:       "Done",
}

func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show and move cards on a project board",
	}

	show := &cobra.Command{
		Use:   "show <slug>",
		Short: "Print the four lanes of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := apiClient(cmd, config.Load()).GetBoard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printBoard(view.Lanes)
			return nil
		},
	}

	move := &cobra.Command{
		Use:   "move <slug> <task-id> <lane>",
		Short: "Drop a task on a lane (todo, prompts, in_progress, done)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, taskID, target := args[0], args[1], board.Lane(args[2])
			if !target.Valid() {
				return fmt.Errorf("unknown lane %q", target)
			}

			// refresh reprints the board after the drop lands
			var c *client.Client
			c = apiClient(cmd, config.Load(), client.WithRefresh(func(ctx context.Context) error {
				view, err := c.GetBoard(ctx, slug)
				if err != nil {
					return err
				}
				printBoard(view.Lanes)
				return nil
			}))

			view, err := c.GetBoard(cmd.Context(), slug)
			if err != nil {
				return err
			}
			item, from, ok := findCard(view.Lanes, taskID)
			if !ok {
				return fmt.Errorf("task %s is not on the board", taskID)
			}
			if !board.CanDrop(item, target) {
				return fmt.Errorf("%s cannot move from %s to %s", taskID, laneTitles[from], laneTitles[target])
			}

			if err := board.NewExecutor(c).Drop(cmd.Context(), item, target, view.Lanes, view.ProjectID); err != nil {
				return err
			}
			fmt.Printf("%s Moved %s to %s\n", okMark, taskID, laneTitles[target])
			return nil
		},
	}

	cmd.AddCommand(show, move)
	return cmd
}

// findCard locates a task on the board and returns it as the item a drag
// from its lane would carry.
func findCard(b board.Board, taskID string) (board.DraggedItem, board.Lane, bool) {
	for _, lane := range board.Lanes {
		for _, card := range b.Lane(lane) {
			if card.Task.ID == taskID {
				return board.CardItem(lane, card), lane, true
			}
		}
	}
	return board.NoItem, "", false
}

func printBoard(b board.Board) {
	header := color.New(color.Bold, color.FgBlue)
	for _, lane := range board.Lanes {
		cards := b.Lane(lane)
		fmt.Printf("%s (%d)\n", header.Sprint(laneTitles[lane]), len(cards))
		for _, card := range cards {
			fmt.Printf("  %s  %s [%s]\n", card.Task.ID, card.Title(), card.Task.Complexity)
		}
	}
}

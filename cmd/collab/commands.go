package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/collabridge/collabridge-api/internal/client"
	"github.com/collabridge/collabridge-api/internal/kanban"
	"github.com/collabridge/collabridge-api/internal/models"
	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <username-or-email>",
	Short: "Sign in and remember the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginPassword == "" {
			return errors.New("--password is required")
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		session, err := c.Login(cmd.Context(), args[0], loginPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (@%s)\n", session.User.Name, session.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		me, err := c.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (@%s) <%s>\n", me.Name, me.Username, me.Email)
		return nil
	},
}

var (
	tasksProject uint64
	tasksStatus  string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List visible tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		tasks, err := c.ListTasks(cmd.Context(), client.TaskQuery{
			ProjectID: tasksProject,
			Status:    models.TaskStatus(tasksStatus),
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tORDER\tPRIORITY\tCOMMENTS\tTITLE")
		for _, t := range tasks {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%s\n", t.ID, t.Status, t.Order, t.Priority, t.CommentsCount, t.Title)
		}
		return w.Flush()
	},
}

var moveBefore uint64

var moveCmd = &cobra.Command{
	Use:   "move <task-id> <status>",
	Short: "Move a task to a column, optionally before another task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}
		status := models.TaskStatus(args[1])
		if !status.Valid() {
			return fmt.Errorf("unknown status %q", args[1])
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		task, err := c.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		board, _, err := c.LoadBoard(ctx, task.Project)
		if err != nil {
			return err
		}

		target := kanban.Target{Status: status, TaskID: moveBefore}
		if err := board.DragStart(taskID); err != nil {
			return err
		}
		if err := board.DragOver(target); err != nil {
			board.Cancel()
			return err
		}
		move, err := board.DragEnd(target)
		if err != nil {
			board.Cancel()
			return err
		}
		if err := c.PersistMove(ctx, move); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s at position %d\n", move.TaskID, move.Status, move.Order)
		return nil
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <task-id> <text>...",
	Short: "Add a comment to a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		comment, err := c.AddComment(cmd.Context(), taskID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Comment %d added\n", comment.ID)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	tasksCmd.Flags().Uint64Var(&tasksProject, "project", 0, "only tasks of this project")
	tasksCmd.Flags().StringVar(&tasksStatus, "status", "", "only tasks with this status")
	moveCmd.Flags().Uint64Var(&moveBefore, "before", 0, "drop above this task instead of at the end")
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

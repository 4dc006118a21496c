package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var flagYes bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored prompt sessions",
}

var sessionsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-read prompt sessions from the project's export",
	RunE:  runSessionsRefresh,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the project's stored prompt sessions (exports are kept)",
	RunE:  runSessionsDelete,
}

func init() {
	sessionsDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	sessionsCmd.AddCommand(sessionsRefreshCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsRefresh(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	before := len(snap.PromptSessions)
	next, err := rt.mgr.RefreshSessions(context.Background())
	if err != nil {
		return fmt.Errorf("%w (previous %d sessions kept)", err, before)
	}

	fmt.Printf("  Refreshed %s: %d prompt sessions (was %d)\n",
		next.Repository.Name, len(next.PromptSessions), before)
	return nil
}

func runSessionsDelete(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	if len(snap.PromptSessions) == 0 {
		fmt.Println("  No prompt sessions stored.")
		return nil
	}

	if !flagYes {
		fmt.Printf("  Delete %d prompt sessions of %s? [y/N] ", len(snap.PromptSessions), snap.Repository.Name)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	n, err := rt.mgr.DeleteSessions(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("  Deleted %d prompt sessions of %s\n", n, snap.Repository.Name)
	fmt.Println("  Run `gitlore sessions refresh` to restore them from the export.")
	return nil
}

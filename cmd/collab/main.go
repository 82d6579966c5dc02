// Command collab is a terminal client for the Collabridge API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/collabridge/collabridge-api/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverURL   string
	sessionPath string
)

var rootCmd = &cobra.Command{
	Use:           "collab",
	Short:         "Work with Collabridge tasks from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultServer := os.Getenv("COLLABRIDGE_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:5000"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "session file (default: user config dir)")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, tasksCmd, moveCmd, commentCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newClient() (*client.Client, error) {
	path := sessionPath
	if path == "" {
		var err error
		path, err = client.DefaultSessionPath()
		if err != nil {
			return nil, fmt.Errorf("locate session file: %w", err)
		}
	}
	return client.New(serverURL, client.NewFileStorage(path))
}

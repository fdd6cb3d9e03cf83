package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and delete all locally stored data",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, _ []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	id, ok := e.m.Identity()
	e.m.Logout(cmd.Context())
	if ok {
		fmt.Printf("  Signed out %s. Local bills and settings were removed.\n", id.Email)
	} else {
		fmt.Println("  No session to sign out of; local data cleared.")
	}
	return nil
}

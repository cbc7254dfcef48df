// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-m365-admin",
	Short: "go-m365-admin is a Microsoft 365 tenant reporting service",
	Long: `go-m365-admin is a Microsoft 365 tenant reporting service that syncs
user, license, mailbox and OneDrive usage data from the Microsoft Graph API
into a relational store and serves it through a JSON dashboard API.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

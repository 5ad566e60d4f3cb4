/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "used to run the ischedulr service",
	Long: `The ischedulr service is a json server which exposes migrations,
undo and the migration history over http (this command is not ran directly)`,
}

func init() {
	rootCmd.AddCommand(appCmd)
}

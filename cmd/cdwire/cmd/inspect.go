/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/parkerhayes/cdwire/pkg/cdrec"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List the records of a composite stream",
	Long: `Inspect a binary composite-record stream and list each record's
signature, header width and length.

Example:
  cdwire inspect body.cd`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			cmd.Printf("Error reading file: %v\n", err)
			os.Exit(1)
		}

		offset := 0
		count := 0
		walkErr := cdrec.WalkRecords(data, func(rec cdrec.Record) bool {
			cmd.Printf("%08x  %-16s  %5d bytes (%d payload)\n",
				offset, rec.Sig, rec.TotalLen(), len(rec.Payload))
			offset += rec.TotalLen()
			count++
			return true
		})
		if walkErr != nil {
			cmd.Printf("Error at offset %08x: %v\n", offset, walkErr)
			os.Exit(1)
		}
		cmd.Printf("%d records, %d bytes\n", count, len(data))
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

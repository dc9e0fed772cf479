/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/parkerhayes/cdwire/pkg/item"
	"github.com/parkerhayes/cdwire/pkg/view"
)

// decodeCmd groups the buffer decoding commands
var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode lookup buffers and item tables",
}

// decodeViewCmd represents the decode view command
var decodeViewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Decode a view lookup-result buffer",
	Long: `Decode a view lookup-result buffer and print each entry.

The read mask must match the one the buffer was produced with.

Example:
  cdwire decode view lookup.bin --entries=25 --mask=0x180f`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			cmd.Printf("Error reading file: %v\n", err)
			os.Exit(1)
		}
		entries, _ := cmd.Flags().GetInt("entries")
		mask, _ := cmd.Flags().GetUint32("mask")

		decoder := view.Decoder{Zone: zoneFlags(cmd)}
		decoded, err := decoder.Decode(data, entries, view.ReadMask(mask))
		if err != nil {
			cmd.Printf("Error decoding buffer: %v\n", err)
			os.Exit(1)
		}

		for i := range decoded {
			printEntry(cmd, &decoded[i])
		}
	},
}

// decodeTableCmd represents the decode itemtable command
var decodeTableCmd = &cobra.Command{
	Use:   "itemtable <file>",
	Short: "Decode a standalone item table",
	Long: `Decode a standalone item table and print each item.

Example:
  cdwire decode itemtable summary.bin --named`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			cmd.Printf("Error reading file: %v\n", err)
			os.Exit(1)
		}
		named, _ := cmd.Flags().GetBool("named")

		zone := zoneFlags(cmd)
		var table *item.Table
		if named {
			table, err = item.DecodeItemTable(data, zone)
		} else {
			table, err = item.DecodeValueTable(data, zone)
		}
		if err != nil {
			cmd.Printf("Error decoding table: %v\n", err)
			os.Exit(1)
		}

		for i, e := range table.Entries {
			name := fmt.Sprintf("[%d]", i)
			if named && i < len(table.Names) {
				name = table.Names[i]
			}
			cmd.Printf("%-24s  %-12s  %s\n", name, e.Type, formatValue(e.Value))
		}
	},
}

func zoneFlags(cmd *cobra.Command) item.Zone {
	offset, _ := cmd.Flags().GetInt("gmt-offset")
	dst, _ := cmd.Flags().GetBool("dst")
	return item.Zone{GMTOffset: offset, DST: dst}
}

func printEntry(cmd *cobra.Command, e *view.Entry) {
	if e.Mask.Has(view.ReadNoteID) {
		cmd.Printf("note 0x%08x", e.NoteID)
	} else {
		cmd.Printf("entry")
	}
	if e.Mask.Has(view.ReadPosition) {
		cmd.Printf("  pos %s", e.PositionString())
	}
	if e.Mask.Has(view.ReadUNID) {
		cmd.Printf("  unid %s", e.UNID)
	}
	cmd.Printf("\n")
	for i, col := range e.Columns {
		cmd.Printf("  col %d: %s\n", i, formatValue(col.Value))
	}
	names := make([]string, 0, len(e.Summary))
	for name := range e.Summary {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.Printf("  %s: %s\n", name, formatValue(e.Summary[name]))
	}
}

func formatValue(v item.Value) string {
	switch val := v.(type) {
	case item.Text:
		return fmt.Sprintf("%q", string(val))
	case item.TextList:
		return fmt.Sprintf("%q", []string(val))
	case item.Number:
		return fmt.Sprintf("%g", float64(val))
	case item.Time:
		return item.Timestamp(val).String()
	case item.NumberRange:
		parts := make([]string, len(val))
		for i, e := range val {
			if e.IsPair {
				parts[i] = fmt.Sprintf("%g..%g", e.Lower, e.Upper)
			} else {
				parts[i] = fmt.Sprintf("%g", e.Lower)
			}
		}
		return fmt.Sprintf("%v", parts)
	case item.TimeRange:
		parts := make([]string, len(val))
		for i, e := range val {
			if e.IsPair {
				parts[i] = e.Lower.String() + ".." + e.Upper.String()
			} else {
				parts[i] = e.Lower.String()
			}
		}
		return fmt.Sprintf("%v", parts)
	case item.Empty:
		return "(empty)"
	case item.Unsupported:
		return fmt.Sprintf("(%s, %d bytes)", val.Type, len(val.Raw))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.AddCommand(decodeViewCmd)
	decodeCmd.AddCommand(decodeTableCmd)

	decodeCmd.PersistentFlags().Int("gmt-offset", 0, "Hours east of GMT for timestamp decoding")
	decodeCmd.PersistentFlags().Bool("dst", false, "Apply a daylight saving hour to timestamps")
	decodeViewCmd.Flags().Int("entries", 1, "Number of entries in the buffer")
	decodeViewCmd.Flags().Uint32("mask", uint32(view.ReadNoteID), "Read mask the buffer was produced with")
	decodeTableCmd.Flags().Bool("named", false, "Decode an item table with names rather than a bare value table")
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alec-rabold/zipbuddy/pkg/reader"
	"github.com/alec-rabold/zipbuddy/pkg/zipfile"
	humanize "github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <zip_file>",
	Short: "Print the end of central directory record of a zip archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := zipfile.OpenLocation(context.Background(), args[0], archiveOptions)
		if err != nil {
			log.Debugf("error opening archive (name: %s), err: %v", args[0], err)
			return err
		}
		defer a.Close()

		return printDirectoryEnd(cmd.OutOrStdout(), a.Size(), a.DirectoryEnd())
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printDirectoryEnd(w io.Writer, size int64, d *reader.DirectoryEnd) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Archive size:\t%d (%s)\n", size, humanize.Bytes(uint64(size)))
	fmt.Fprintf(tw, "Record offset:\t%d\n", d.Offset())
	fmt.Fprintf(tw, "Signature:\t0x%08x\n", d.Signature)
	fmt.Fprintf(tw, "Disk number:\t%d\n", d.DiskNumber)
	fmt.Fprintf(tw, "Directory start disk:\t%d\n", d.StartDiskNumber)
	fmt.Fprintf(tw, "Entries on disk:\t%d\n", d.EntriesOnDisk)
	fmt.Fprintf(tw, "Entries in directory:\t%d\n", d.EntriesTotal)
	fmt.Fprintf(tw, "Directory size:\t%d (%s)\n", d.DirectorySize, humanize.Bytes(uint64(d.DirectorySize)))
	fmt.Fprintf(tw, "Directory offset:\t%d\n", d.DirectoryOffset)
	fmt.Fprintf(tw, "Comment length:\t%d (%d bytes follow the record)\n", d.CommentLength, d.ScannedCommentLen())
	fmt.Fprintf(tw, "Comment:\t%q\n", d.Comment())
	return tw.Flush()
}

package cmd

import (
	"context"

	"github.com/alec-rabold/zipbuddy/pkg/zipfile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var lsCmd = &cobra.Command{
	Use:   "ls <zip_file>",
	Short: "List the entries of a zip archive",
	Long: `Lists every central directory entry of the archive: its name, whether
	it is a directory, its uncompressed size, its modification time and its comment.

	ex:
	zipbuddy ls archive.zip
	zipbuddy ls --human s3://myBucket/archive.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := zipfile.OpenLocation(context.Background(), args[0], archiveOptions)
	if err != nil {
		log.Debugf("error opening archive (name: %s), err: %v", args[0], err)
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Errorf("error closing archive (name: %s), err: %v", args[0], err)
		}
	}()

	t := newEntryTable(viper.GetBool("human"))
	return t.render(cmd.OutOrStdout(), a.Entries())
}

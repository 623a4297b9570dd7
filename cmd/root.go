package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/alec-rabold/zipbuddy/pkg/aws"
	"github.com/alec-rabold/zipbuddy/pkg/zipfile"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// VERSION is set during build
	VERSION string
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zipbuddy <zip_file>",
	Short: "Inspect the central directory of zip archives",
	Long: `zipbuddy reads the end of central directory record and the central
	directory of a zip archive and lists what it holds, without extracting anything.
	Archives can be local files or S3 objects, which are read with ranged requests.

	example:

		zipbuddy archive.zip
		zipbuddy ls s3://myBucket/path/to/archive.zip
		zipbuddy info --strict archive.zip`,
	Args:          cobra.ExactArgs(1),
	RunE:          runList,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version string) {
	VERSION = version
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.zipbuddy.yaml)")
	pf.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	pf.Bool("verbose", false, "shorthand for --log-level=debug")
	pf.Bool("strict", false, "reject archives whose comment length field disagrees with the file")
	pf.String("aws-region", "", "AWS region for s3:// archives")
	pf.String("aws-profile", "", "AWS shared config profile for s3:// archives")
	pf.Bool("human", false, "print sizes in human readable form")
	pf.Int64("aws-block-size", aws.DefaultBlockSize, "bytes fetched per ranged request for s3:// archives")

	for key, flag := range map[string]string{
		"log-level":      "log-level",
		"verbose":        "verbose",
		"strict":         "strict",
		"human":          "human",
		"aws.region":     "aws-region",
		"aws.profile":    "aws-profile",
		"aws.block-size": "aws-block-size",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".zipbuddy" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".zipbuddy")
	}

	viper.SetEnvPrefix("zipbuddy")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	readErr := viper.ReadInConfig()

	if err := configureLogging(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if readErr == nil {
		log.Debugf("using config file: %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Warnf("error reading config file (name: %s), err: %v", cfgFile, readErr)
	}
}

func configureLogging() error {
	log.SetOutput(os.Stderr)
	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
		return nil
	}
	level, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	return nil
}

// archiveOptions carries the resolved configuration into zipfile.Options.
func archiveOptions(opts *zipfile.Options) {
	opts.Strict = viper.GetBool("strict")
	opts.AWSRegion = viper.GetString("aws.region")
	opts.AWSProfile = viper.GetString("aws.profile")
	opts.BlockSize = viper.GetInt64("aws.block-size")
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/appsworld/go-rpath"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rpath",
	Short: "Edit Mach-O run-path load commands",
}

func init() {
	log.SetHandler(clihander.Default)

	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	addCmd.Flags().BoolP("overwrite", "f", false, "Overwrite file in place")
	addCmd.Flags().StringP("output", "o", "", "Directory to save the patched file to")
	viper.BindPFlag("add.overwrite", addCmd.Flags().Lookup("overwrite"))
	viper.BindPFlag("add.output", addCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(infoCmd)
}

func confirm(path string) bool {
	yes := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("You are about to overwrite %s. Continue?", filepath.Base(path)),
	}
	survey.AskOne(prompt, &yes)
	return yes
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:           "info <MACHO>",
	Short:         "Print the Mach-O header and load command table",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := rpath.Open(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("failed to open MachO file: %v", err)
		}
		fmt.Println(f.String())
		return nil
	},
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:           "add <MACHO> <PATH>",
	Short:         "Add an LC_RPATH load command",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}

		overwrite := viper.GetBool("add.overwrite")

		machoPath := filepath.Clean(args[0])
		runPath := args[1]

		if _, err := os.Stat(machoPath); os.IsNotExist(err) {
			return fmt.Errorf("file %s does not exist", machoPath)
		}

		f, err := rpath.Open(machoPath)
		if err != nil {
			return fmt.Errorf("failed to open MachO file: %v", err)
		}

		for _, p := range f.Rpaths() {
			if p == runPath {
				log.Warnf("%s already contains run path %s", machoPath, runPath)
			}
		}

		log.WithFields(log.Fields{
			"macho": machoPath,
			"path":  runPath,
		}).Info("adding LC_RPATH")

		if err := f.AddRpath(runPath); err != nil {
			return fmt.Errorf("failed to add LC_RPATH: %v", err)
		}

		folder := filepath.Dir(machoPath) // default to folder of macho file
		if len(viper.GetString("add.output")) > 0 {
			folder = viper.GetString("add.output")
		}
		outPath := filepath.Join(folder, filepath.Base(machoPath))

		if overwrite {
			if outPath == machoPath && !confirm(outPath) {
				return nil
			}
		} else {
			outPath += ".patched"
		}

		log.Debugf("writing %s", outPath)
		if err := f.Save(outPath); err != nil {
			return fmt.Errorf("failed to save MachO file: %v", err)
		}

		log.Warn("code signature offsets are now stale (MachO may need to be re-signed)")

		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/nodewee/fulltext/pkg/config"
	"github.com/nodewee/fulltext/pkg/core"
	"github.com/nodewee/fulltext/pkg/logger"
	"github.com/nodewee/fulltext/pkg/shell"
	"github.com/nodewee/fulltext/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	logLevel    string
	verbose     bool
	showVersion bool
)

// AppHandler holds the components shared by every subcommand
type AppHandler struct {
	config    *config.Config
	logger    *logger.Logger
	runner    *shell.Runner
	processor *core.Processor
}

// NewAppHandler loads the configuration and builds the extraction pipeline
func NewAppHandler() (*AppHandler, error) {
	h := &AppHandler{}
	if err := h.initialize(); err != nil {
		return nil, err
	}
	return h, nil
}

// initialize initializes application components
func (h *AppHandler) initialize() error {
	cfg, err := config.LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		return utils.WrapError(err, "", "error loading configuration")
	}
	h.config = cfg
	h.applyCommandLineOverrides()

	if err := h.config.Validate(); err != nil {
		return err
	}

	h.logger = logger.NewLogger(h.config.LogLevel, h.config.EnableVerbose)
	if h.config.Source != "" {
		h.logger.Debug("Loaded configuration from %s", h.config.Source)
	}

	h.runner = shell.NewRunner(h.config.CommandTimeout, h.logger)
	registry := core.NewRegistry(h.config, h.runner, h.logger)
	h.processor = core.NewProcessor(registry, h.logger)
	return nil
}

// applyCommandLineOverrides applies command line parameter overrides
func (h *AppHandler) applyCommandLineOverrides() {
	if logLevel != "" {
		h.config.LogLevel = logLevel
	}
	if verbose {
		h.config.EnableVerbose = true
	}
}

// exitOnError prints err and terminates the process
func exitOnError(err error) {
	if err == nil {
		return
	}
	if appErr, ok := err.(*utils.AppError); ok {
		fmt.Fprintf(os.Stderr, "Error (%s): %s\n", appErr.Type, appErr.Message)
		if appErr.Cause != nil {
			fmt.Fprintf(os.Stderr, "  caused by: %v\n", appErr.Cause)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fulltext",
	Short: "Extract searchable plain text from uploaded documents",
	Long: `Extract searchable plain text from attachments in many document formats.

Supported formats:
- PDF (pdftotext), RTF (unrtf)
- Word, Excel and PowerPoint 2007+ (built-in)
- OpenDocument text, spreadsheet and presentation (built-in)
- Word, Excel and PowerPoint 97-2003 (catdoc, xls2csv, catppt)
- Plain text and CSV (built-in)

External converters are configured in ~/.fulltext/config.yml under
text_extractors. A converter whose executable is missing disables its
format; extraction of other formats is unaffected.

Examples:
  fulltext extract report.pdf                              # Print the text of a PDF
  fulltext extract notes.bin --content-type text/plain     # Override the detected content type
  fulltext extract deck.pptx -o deck.txt                   # Write the text to a file
  fulltext handlers                                        # Show handlers and converter availability
  fulltext serve --verbose                                 # Run the upload API with background extraction`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Printf("%s %s\n", cmd.Root().Name(), version)
			return
		}
		cmd.Help()
	},
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file path (default: ~/.fulltext/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output to show progress information")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false,
		"Show version information")
}

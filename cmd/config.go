package cmd

import (
	"fmt"
	"strings"

	"github.com/nodewee/fulltext/pkg/config"
	"github.com/nodewee/fulltext/pkg/constants"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage converter configuration",
	Long: `Manage the external converter commands used for text extraction.

Configuration is stored as YAML in ~/.fulltext/config.yml (or the file given
with --config). Each converter is an argument vector; __FILE__ is replaced by
the attachment path. Converters without an entry use the built-in command.

Available commands:
  list  - List the command of every converter
  get   - Get the command of one converter
  set   - Set the command of one converter

Examples:
  fulltext config list
  fulltext config get pdftotext
  fulltext config set pdftotext -- /usr/local/bin/pdftotext -enc UTF-8 __FILE__ -`,
}

// listConfig lists all converter commands
func listConfig() {
	fmt.Println("🛠️  Converter Configuration")
	fmt.Println("===========================")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("❌ Error loading configuration: %v\n", err)
		return
	}

	path := cfg.Source
	if path == "" {
		path, _ = config.GetConfigFilePath()
		path += " (not found, using defaults)"
	}
	fmt.Printf("📁 Config file: %s\n\n", path)

	fmt.Println("🛠️  Converters:")
	for _, tool := range constants.ToolNames {
		fmt.Printf("  %-10s = %s%s\n", tool, strings.Join(cfg.Command(tool), " "), overrideMark(cfg, tool))
	}
	fmt.Printf("\n⏱️  Command timeout: %s\n", cfg.CommandTimeout)

	fmt.Println("\n💡 Tip: Use 'fulltext config get <converter>' to get one command")
	fmt.Println("💡 Tip: Use 'fulltext config set <converter> -- <argv...>' to change a command")
}

func overrideMark(cfg *config.Config, tool string) string {
	if cfg.IsOverridden(tool) {
		return ""
	}
	return " (default)"
}

// getConfig prints the command of one converter
func getConfig(tool string) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("❌ Error loading configuration: %v\n", err)
		return
	}

	argv, _, err := config.GetToolCommand(cfg, tool)
	if err != nil {
		fmt.Printf("❌ Error getting command of '%s': %v\n", tool, err)
		return
	}
	fmt.Printf("📝 %s = %s%s\n", tool, strings.Join(argv, " "), overrideMark(cfg, tool))
}

// setConfig stores the command of one converter
func setConfig(tool string, argv []string) {
	path := configPath
	if path == "" {
		defaultPath, err := config.GetConfigFilePath()
		if err != nil {
			fmt.Printf("❌ Error locating config file: %v\n", err)
			return
		}
		path = defaultPath
	}

	if err := config.SetToolCommand(path, tool, argv); err != nil {
		fmt.Printf("❌ Error setting command of '%s': %v\n", tool, err)
		return
	}

	fmt.Printf("✅ Successfully set %s = %s\n", tool, strings.Join(argv, " "))
	fmt.Printf("💡 Tip: Make sure the converter is installed and executable at this path\n")
}

// configListCmd represents the 'config list' command
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all converter commands",
	Run: func(cmd *cobra.Command, args []string) {
		listConfig()
	},
}

// configGetCmd represents the 'config get' command
var configGetCmd = &cobra.Command{
	Use:   "get <converter>",
	Short: "Get the command of a converter",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		getConfig(args[0])
	},
}

// configSetCmd represents the 'config set' command
var configSetCmd = &cobra.Command{
	Use:   "set <converter> -- <executable> [args...]",
	Short: "Set the command of a converter",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setConfig(args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

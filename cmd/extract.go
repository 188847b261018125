package cmd

import (
	"context"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/interfaces"
	"github.com/nodewee/fulltext/pkg/types"
	"github.com/nodewee/fulltext/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	contentType string
	outputPath  string
)

// extractCmd runs one extraction in the foreground
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the fulltext of a file",
	Long: `Extract the normalized fulltext of a file and print it.

The handler is chosen from the content type, which defaults to the type
registered for the file extension. Nothing is printed and the exit status is
1 when no handler accepts the file or it yields no text.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		h, err := NewAppHandler()
		exitOnError(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := h.ExtractFile(ctx, args[0])
		exitOnError(err)
		if result == nil {
			fmt.Fprintf(os.Stderr, "❌ No text extracted from %s\n", args[0])
			os.Exit(1)
		}

		if outputPath == "" {
			fmt.Println(result.Text)
			return
		}
		exitOnError(h.writeResult(result))
	},
}

// ExtractFile extracts the fulltext of the file at path
func (h *AppHandler) ExtractFile(ctx context.Context, path string) (*interfaces.ExtractionResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeValidation, "error resolving file path")
	}

	att := &types.Attachment{
		Filename:    filepath.Base(absPath),
		ContentType: detectContentType(absPath),
		DiskPath:    absPath,
	}
	if !att.Readable() {
		return nil, utils.NewIOError(fmt.Sprintf("%s is not a readable file", absPath), nil)
	}

	h.logger.Progress("📄", "Content type: %s", att.ContentType)
	return h.processor.Extract(ctx, att)
}

// writeResult saves the text to the output path and displays a summary
func (h *AppHandler) writeResult(result *interfaces.ExtractionResult) error {
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "error determining output path")
	}
	if err := utils.WriteFileAtomic(absOut, []byte(result.Text)); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "error writing output file")
	}

	fmt.Printf("✅ Text extracted successfully\n")
	fmt.Printf("📊 Handler used: %s\n", result.HandlerUsed)
	fmt.Printf("⏱️  Processing time: %dms\n", result.ProcessTime)
	if digest, err := utils.CalculateFileDigest(result.Source); err == nil {
		fmt.Printf("🔑 Source digest: %s\n", digest)
	}
	fmt.Printf("📝 Extracted text length: %d characters\n", len([]rune(result.Text)))
	if result.Truncated {
		fmt.Printf("⚠️  Text was truncated to %d characters\n", constants.MaxFulltextLength)
	}
	fmt.Printf("💾 Saved to: %s\n", absOut)
	return nil
}

// detectContentType returns the --content-type flag or the type registered
// for the file extension
func detectContentType(path string) string {
	if contentType != "" {
		return contentType
	}
	byExt := mime.TypeByExtension(filepath.Ext(path))
	if mt, _, err := mime.ParseMediaType(byExt); err == nil {
		return mt
	}
	return ""
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&contentType, "content-type", "",
		"Content type of the file (default: guessed from the extension)")
	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the text to this file instead of stdout")
}

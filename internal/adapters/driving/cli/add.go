package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driving"
)

var (
	addMount           string
	addLimit           int
	addRandomize       bool
	addExcludeEmbedded bool
	addMaxSizeMB       float64
	addThreshold       int
	addTesseractCmd    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Process files into the training corpus",
	Long: `Selects catalogued files, extracts and embeds their text, and
assigns filing tags. Files are selected either by filing tag or by
server location.`,
}

var addByTagCmd = &cobra.Command{
	Use:   "by-tag [tag]",
	Short: "Process files filed under a tag's directories",
	Long: `Selects files whose server location is named after the given filing
tag, processes each one, and labels it with the tag and all of the tag's
ancestors. The tag may be given bare ("F7.1") or in directory form
("F7.1 - Inspection Reports").`,
	Args: cobra.ExactArgs(1),
	RunE: runAddByTag,
}

var addByLocationCmd = &cobra.Command{
	Use:   "by-location [path]",
	Short: "Process files under a server subtree",
	Long: `Selects files located under the given server path, processes each
one, and infers tags from the directories in each file's path. The path
may be server-relative or an absolute path under the mount.`,
	Args: cobra.ExactArgs(1),
	RunE: runAddByLocation,
}

func init() {
	for _, cmd := range []*cobra.Command{addByTagCmd, addByLocationCmd} {
		cmd.Flags().StringVar(&addMount, "mount", "", "local mount path of the file server root")
		cmd.Flags().IntVarP(&addLimit, "limit", "n", 250, "maximum number of files to process")
		cmd.Flags().BoolVar(&addExcludeEmbedded, "exclude-embedded", true, "skip files that already have stored content")
		cmd.Flags().Float64Var(&addMaxSizeMB, "max-size-mb", 0, "per-file size ceiling in megabytes (0 = configured default)")
		cmd.Flags().IntVar(&addThreshold, "threshold", 0, "minimum extracted text length to embed (0 = configured default)")
		cmd.Flags().StringVar(&addTesseractCmd, "tesseract-cmd", "", "OCR binary name or path (overrides config)")
		addCmd.AddCommand(cmd)
	}
	// Only tag mode takes --randomize; location mode keeps traversal order.
	addByTagCmd.Flags().BoolVar(&addRandomize, "randomize", true, "shuffle candidate order")
	rootCmd.AddCommand(addCmd)
}

func runAddByTag(cmd *cobra.Command, args []string) error {
	opts, err := batchOptions(addRandomize)
	if err != nil {
		return err
	}
	verifyOCR()

	summary, err := pipelineService.ProcessByTag(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

func runAddByLocation(cmd *cobra.Command, args []string) error {
	opts, err := batchOptions(false)
	if err != nil {
		return err
	}
	verifyOCR()

	summary, err := pipelineService.ProcessByLocation(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

// batchOptions wires flags and configuration into batch options and
// ensures the pipeline service exists.
func batchOptions(randomize bool) (driving.BatchOptions, error) {
	var opts driving.BatchOptions

	cfg, err := loadConfig()
	if err != nil {
		return opts, err
	}
	tesseractOverride = addTesseractCmd
	if err := initServices(); err != nil {
		return opts, err
	}
	if pipelineService == nil {
		return opts, errors.New("pipeline service not configured")
	}

	mount := addMount
	if mount == "" {
		mount = cfg.Pipeline.Mount
	}
	if mount == "" {
		return opts, errors.New("no mount path: set --mount or pipeline.mount in the config file")
	}

	maxSize := addMaxSizeMB
	if maxSize <= 0 {
		maxSize = cfg.Pipeline.MaxSizeMB
	}
	threshold := addThreshold
	if threshold <= 0 {
		threshold = cfg.Pipeline.TextLengthThreshold
	}

	return driving.BatchOptions{
		Mount:               mount,
		Limit:               addLimit,
		Randomize:           randomize,
		ExcludeEmbedded:     addExcludeEmbedded,
		MaxSizeMB:           maxSize,
		TextLengthThreshold: threshold,
	}, nil
}

func printSummary(cmd *cobra.Command, summary *domain.BatchSummary) {
	cmd.Printf("Run %s: %d candidates\n", summary.RunID, summary.Total)
	cmd.Printf("  processed: %d\n", summary.Processed)
	cmd.Printf("  skipped:   %d\n", summary.Skipped)
	cmd.Printf("  failed:    %d\n", summary.Failed)
	cmd.Printf("  labelled:  %d\n", summary.Labelled)
}

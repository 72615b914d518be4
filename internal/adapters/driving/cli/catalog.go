package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/logger"
)

var (
	scanMount       string
	tagParent       string
	tagDescription  string
	rulePatternType string
	ruleContexts    []string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Maintain the file catalogue",
	Long: `Administrative commands for the catalogue the pipeline reads from:
discovering files on the server, defining filing tags and managing path
exclusion rules.`,
}

var catalogScanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Discover files under a mounted server directory",
	Long: `Walks the given directory under the mount, hashes every file and
records it in the catalogue with its server-relative location. Files
already catalogued gain an additional location when found in a new
directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogScan,
}

var catalogAddTagCmd = &cobra.Command{
	Use:   "add-tag [label]",
	Short: "Define a filing tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogAddTag,
}

var catalogAddRuleCmd = &cobra.Command{
	Use:   "add-rule [pattern]",
	Short: "Add a path exclusion rule",
	Long: `Adds an exclusion rule matched against file paths during batch
processing. The --type flag selects matching semantics: "directory"
globs the full path, "file" globs the base filename, "regex" searches
the full path. With no --context the rule applies everywhere.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogAddRule,
}

func init() {
	catalogScanCmd.Flags().StringVar(&scanMount, "mount", "", "local mount path of the file server root")

	catalogAddTagCmd.Flags().StringVar(&tagParent, "parent", "", "parent tag label")
	catalogAddTagCmd.Flags().StringVar(&tagDescription, "description", "", "human-readable description")

	catalogAddRuleCmd.Flags().StringVar(&rulePatternType, "type", "directory", "pattern type: directory, file or regex")
	catalogAddRuleCmd.Flags().StringSliceVar(&ruleContexts, "context", nil, "limit the rule to contexts (embedding, tagging)")

	catalogCmd.AddCommand(catalogScanCmd, catalogAddTagCmd, catalogAddRuleCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogScan(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if metadataStore == nil {
		return errors.New("catalogue store not configured")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mount := scanMount
	if mount == "" {
		mount = cfg.Pipeline.Mount
	}
	if mount == "" {
		return errors.New("no mount path: set --mount or pipeline.mount in the config file")
	}

	root := args[0]
	if !filepath.IsAbs(root) {
		root = filepath.Join(mount, filepath.FromSlash(root))
	}

	ctx := context.Background()
	var scanned, failed int
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		hash, err := domain.HashFile(path)
		if err != nil {
			logger.Warn("Hashing %s failed: %v", path, err)
			failed++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn("Stating %s failed: %v", path, err)
			failed++
			return nil
		}

		file := domain.File{
			Hash:      hash,
			Size:      info.Size(),
			Extension: strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")),
			Locations: []domain.Location{{
				FileHash:          hash,
				ServerDirectories: serverRelativeDirs(mount, filepath.Dir(path)),
				Filename:          filepath.Base(path),
			}},
		}
		if err := metadataStore.InsertFile(ctx, file); err != nil {
			return fmt.Errorf("cataloguing %s: %w", path, err)
		}
		scanned++
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	cmd.Printf("Catalogued %d files (%d failed)\n", scanned, failed)
	return nil
}

func runCatalogAddTag(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if metadataStore == nil {
		return errors.New("catalogue store not configured")
	}

	tag := domain.Tag{
		Label:       domain.ParseLabel(args[0]),
		ParentLabel: domain.ParseLabel(tagParent),
		Description: tagDescription,
	}
	if err := metadataStore.InsertTag(context.Background(), tag); err != nil {
		return fmt.Errorf("adding tag: %w", err)
	}

	cmd.Printf("Added tag %s\n", tag.Label)
	return nil
}

func runCatalogAddRule(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if metadataStore == nil {
		return errors.New("catalogue store not configured")
	}

	switch domain.PatternType(rulePatternType) {
	case domain.PatternDirectory, domain.PatternFile, domain.PatternRegex:
	default:
		return fmt.Errorf("unknown pattern type %q", rulePatternType)
	}

	rule := domain.ExclusionRule{
		Pattern:   args[0],
		Type:      domain.PatternType(rulePatternType),
		Treatment: domain.TreatmentExclude,
		Contexts:  ruleContexts,
		Enabled:   true,
	}
	if err := metadataStore.InsertRule(context.Background(), rule); err != nil {
		return fmt.Errorf("adding rule: %w", err)
	}

	cmd.Printf("Added %s rule %q\n", rule.Type, rule.Pattern)
	return nil
}

// serverRelativeDirs converts a local directory under the mount into the
// catalogue's POSIX-relative form.
func serverRelativeDirs(mount, dir string) string {
	rel, err := filepath.Rel(mount, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(dir)
	}
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

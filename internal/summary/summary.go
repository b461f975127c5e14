// Package summary handles display of walk results and statistics
package summary

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/bethropolis/ignorewalk/internal/types"
	"github.com/bethropolis/ignorewalk/internal/walker"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// DisplayResults shows the end results of a walk
func DisplayResults(
	logger Logger,
	stats walker.ProgressStats,
	duration time.Duration,
	quiet bool,
) {
	if !quiet {
		logger.Info("Found %d files and %d directories.", stats.Files, stats.Dirs)
		if stats.Errors > 0 {
			logger.Info("Encountered %d errors.", stats.Errors)
		}
		logger.Info("Walk complete in %v.", duration.Round(time.Millisecond))
	}
}

// DisplaySkippedItems formats and prints information about skipped items
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	infoLog("--- Skipped Items (%d) ---", len(skippedItems))
	if len(skippedItems) > 0 {
		// Sort for consistent output
		slices.SortFunc(skippedItems, func(a, b walker.SkippedItem) int {
			return strings.Compare(a.Path, b.Path)
		})
		for _, item := range skippedItems {
			typeStr := "FILE"
			if item.IsDir {
				typeStr = "DIR " // Add space for alignment
			}
			fmt.Fprintf(output, "Skipped %s: %-.*s [%s]\n",
				typeStr,
				50, // Max width for path column
				item.Path,
				item.Reason,
			)
		}
	} else {
		infoLog("No items were skipped.")
	}
	infoLog("--- End Skipped Items ---")
}

// DisplayTypes prints every file type definition, one per line, as
// "name: glob, glob"
func DisplayTypes(defs []types.FileTypeDef, output io.Writer) {
	for _, def := range defs {
		fmt.Fprintf(output, "%s: %s\n", def.Name, strings.Join(def.Globs, ", "))
	}
}

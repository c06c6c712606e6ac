package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

var readHTML bool

var readCmd = &cobra.Command{
	Use:   "read <topic> [rank]",
	Short: "Print one content item of a topic",
	Long:  `Loads a topic and prints the item with the given rank, or the first item when no rank is given. Use --html to print the rendered fragment instead of the source.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID := args[0]
		rank := 0
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid rank %q: must be a positive integer", args[1])
			}
			rank = n
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, ok := cfg.Catalog().Find(topicID); !ok {
			return fmt.Errorf("unknown topic %q. Run `learnroute topics` to list topics", topicID)
		}

		l, err := newLoader(cfg)
		if err != nil {
			return err
		}
		items := l.LoadFiles(cmd.Context(), topicID)
		if len(items) == 0 {
			return fmt.Errorf("topic %q has no content", topicID)
		}

		item, ok := pickItem(items, rank)
		if !ok {
			return fmt.Errorf("no item with rank %d in topic %q", rank, topicID)
		}

		fmt.Fprintf(os.Stderr, "%d. %s (%s)\n", item.Rank, item.Name, item.Type)
		if item.Type.IsReference() {
			fmt.Println(item.Content)
			return nil
		}
		if !readHTML {
			fmt.Print(item.Content)
			if !strings.HasSuffix(item.Content, "\n") {
				fmt.Println()
			}
			return nil
		}

		renderer, err := newRenderer(cfg)
		if err != nil {
			return err
		}
		html, err := renderer.Render(item)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", item.File, err)
		}
		fmt.Println(html)
		return nil
	},
}

// pickItem returns the first item with the given rank, or the first item
// when rank is zero.
func pickItem(items []catalog.ContentItem, rank int) (catalog.ContentItem, bool) {
	if rank == 0 {
		return items[0], true
	}
	for _, it := range items {
		if it.Rank == rank {
			return it, true
		}
	}
	return catalog.ContentItem{}, false
}

func init() {
	readCmd.Flags().BoolVar(&readHTML, "html", false, "Print rendered HTML instead of the source")
	rootCmd.AddCommand(readCmd)
}

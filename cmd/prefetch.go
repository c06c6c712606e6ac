package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnroute/internal/progress"
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch [topic...]",
	Short: "Load topics and report how many files each resolves to",
	Long:  `Loads every topic (or the named ones) through the same loader the server uses, reporting progress and the resolved file count per topic. Useful for checking manifests against a content root.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat := cfg.Catalog()

		ids := args
		if len(ids) == 0 {
			ids = cat.IDs()
		}
		for _, id := range ids {
			if _, ok := cat.Find(id); !ok {
				return fmt.Errorf("unknown topic %q", id)
			}
		}

		l, err := newLoader(cfg)
		if err != nil {
			return err
		}

		reporter := progress.NewReporter("Prefetching topics")
		reporter.Start(len(ids))
		counts := l.Prefetch(cmd.Context(), ids, func(done, total int, topicID string) {
			reporter.Update(done, topicID)
		})
		reporter.Finish()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tFILES")
		empty := 0
		for _, id := range ids {
			n := counts[id]
			if n == 0 {
				empty++
			}
			fmt.Fprintf(w, "%s\t%d\n", id, n)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if empty > 0 {
			fmt.Fprintf(os.Stderr, "%d topic(s) resolved to no content\n", empty)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prefetchCmd)
}

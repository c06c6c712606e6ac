package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

var topicsCount bool

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topic catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat := cfg.Catalog()
		if cat.Len() == 0 {
			fmt.Println("No topics configured.")
			return nil
		}

		var counts map[string]int
		if topicsCount {
			l, err := newLoader(cfg)
			if err != nil {
				return err
			}
			counts = l.Prefetch(context.Background(), cat.IDs(), nil)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if topicsCount {
			fmt.Fprintln(w, "ID\tNAME\tICON\tFILES\tDESCRIPTION")
		} else {
			fmt.Fprintln(w, "ID\tNAME\tICON\tDESCRIPTION")
		}
		for i, t := range cat.Topics() {
			icon := catalog.PresentationFor(t.ID, i).Icon
			if topicsCount {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", t.ID, t.Name, icon, counts[t.ID], t.Description)
			} else {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, icon, t.Description)
			}
		}
		return w.Flush()
	},
}

func init() {
	topicsCmd.Flags().BoolVar(&topicsCount, "count", false, "Load each topic and show its file count")
	rootCmd.AddCommand(topicsCmd)
}

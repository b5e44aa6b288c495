package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/danangbot/internal/knowledge"
)

func topicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List knowledge base topics in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			kb, err := loadKnowledge(cfg)
			if err != nil {
				return err
			}
			printTopics(cmd.OutOrStdout(), kb)
			return nil
		},
	}
}

// printTopics writes an aligned table of topics. Widths are measured in
// display cells so Vietnamese titles line up.
func printTopics(w io.Writer, kb *knowledge.KnowledgeBase) {
	header := []string{"CATEGORY", "KEY", "TITLE (EN)", "TITLE (VI)"}
	rows := [][]string{header}
	for _, e := range kb.Entries() {
		rows = append(rows, []string{e.Category, e.Key, e.Title["en"], e.Title["vi"]})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"masklint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in rules with their default severities",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleInfo struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Origin   string `json:"origin"`
	Summary  string `json:"summary"`
}

// ruleCatalog lists every configurable finding code: the rules proper
// plus the construction findings raised while building the tree.
func ruleCatalog() []ruleInfo {
	infos := make([]ruleInfo, 0, len(rules.Builtin())+len(rules.Construction()))
	for _, rule := range rules.Builtin() {
		infos = append(infos, ruleInfo{
			ID:       rule.Code().ID(),
			Severity: rule.DefaultSeverity().Label(),
			Origin:   "rule",
			Summary:  rule.Describe(),
		})
	}
	for _, c := range rules.Construction() {
		infos = append(infos, ruleInfo{
			ID:       c.Code.ID(),
			Severity: c.DefaultSeverity.Label(),
			Origin:   "construction",
			Summary:  c.Summary,
		})
	}
	return infos
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	infos := ruleCatalog()

	switch format {
	case "json":
		return writeJSON(os.Stdout, infos)
	case "pretty":
		useC, err := useColor(cmd)
		if err != nil {
			return err
		}
		idColor := color.New(color.FgCyan, color.Bold)
		if !useC {
			idColor.DisableColor()
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", idColor.Sprint(info.ID), info.Severity, info.Origin, info.Summary)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

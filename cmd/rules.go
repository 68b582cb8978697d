package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnolang/pystyle/internal"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [codes...]",
	Short: "List the rules checked by pystyle",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRules(cmd.OutOrStdout(), args)
	},
}

// printRules prints the rules named by codes, or the whole catalogue when
// codes is empty.
func printRules(w io.Writer, codes []string) error {
	rules := internal.Rules()
	if len(codes) > 0 {
		rules = rules[:0:0]
		for _, code := range codes {
			r, ok := internal.LookupRule(strings.ToUpper(code))
			if !ok {
				return fmt.Errorf("unknown rule %q", code)
			}
			rules = append(rules, r)
		}
	}

	for _, r := range rules {
		if _, err := fmt.Fprintf(w, "%s\t%-10s\t%s\n", r.Code, r.Kind, r.Message); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/keyfocus/internal/config"
	"github.com/dshills/keyfocus/internal/gesture"
	"github.com/dshills/keyfocus/internal/input/key"
	"github.com/dshills/keyfocus/internal/input/keymap"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and print the gesture table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, required := flagConfig, true
		if path == "" {
			path, required = config.DefaultPath(), false
		}

		cfg, err := config.Load(path, required)
		if err != nil {
			return err
		}
		rules, err := cfg.Rules()
		if err != nil {
			return err
		}

		source := cfg.Path
		if source == "" {
			source = "built-in defaults"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n\n", source)
		return printRules(cmd.OutOrStdout(), rules)
	},
}

func printRules(w io.Writer, rules []gesture.Rule) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tKEYS\tWINDOW\tACTION")
	for i, r := range rules {
		window := "-"
		if s, ok := r.(*gesture.Sequence); ok {
			window = s.Window().String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, r.Kind(), r, window, r.Action())
	}
	return tw.Flush()
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List key names usable in gestures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printKeys(cmd.OutOrStdout())
	},
}

func printKeys(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEVDEV\tKIND")
	for _, name := range key.Names() {
		c := key.FromName(name)
		native, _ := keymap.Native(c)

		var kinds []string
		switch {
		case c.IsModifier():
			kinds = append(kinds, "modifier")
		case c.IsLetter():
			kinds = append(kinds, "letter")
		case c.IsDigit():
			kinds = append(kinds, "digit")
		case c.IsFunctionKey():
			kinds = append(kinds, "function")
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", name, native, strings.Join(kinds, ","))
	}
	return tw.Flush()
}

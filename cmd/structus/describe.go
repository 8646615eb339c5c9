package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reoring/structus"
	"github.com/reoring/structus/adjust"
	"github.com/reoring/structus/rules"
	"github.com/reoring/structus/schemafile"
)

var describeCmd = &cobra.Command{
	Use:   "describe [type...]",
	Short: "Print the declared types",
	Long:  `Prints every type in the declaration document (or only the named ones) with its members, conditions, adjusters, defaults, aliases and nested types.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		return runDescribe(cmd.OutOrStdout(), path, args)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(w io.Writer, path string, names []string) error {
	reg, err := schemafile.Load(path)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		names = reg.Names()
	}
	for _, name := range names {
		s, ok := reg.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown type %q", name)
		}
		describeSchema(w, s, "")
	}
	return nil
}

func describeSchema(w io.Writer, s *structus.Schema, indent string) {
	header := indent + s.Name()
	if p := s.Parent(); p != nil {
		header += " (extends " + p.Name() + ")"
	}
	if !s.Closed() {
		header += " [open]"
	}
	fmt.Fprintln(w, header)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range s.Members() {
		m, _ := s.Member(name)
		cols := []string{indent + "  " + name, rules.Describe(m.Condition())}
		if m.HasAdjuster() {
			cols = append(cols, "via "+adjust.Describe(m.Adjuster()))
		} else {
			cols = append(cols, "")
		}
		switch lit, ok := m.DefaultLiteral(); {
		case ok:
			cols = append(cols, fmt.Sprintf("default %#v", lit))
		case m.HasDefault():
			cols = append(cols, "default <factory>")
		default:
			cols = append(cols, "")
		}
		var flags []string
		if m.ReaderValidation() {
			flags = append(flags, "reader")
		}
		if !m.WriterValidation() {
			flags = append(flags, "no-writer")
		}
		cols = append(cols, strings.Join(flags, ","))
		fmt.Fprintln(tw, strings.TrimRight(strings.Join(cols, "\t"), "\t"))
	}
	_ = tw.Flush()

	if aliases := s.Aliases(); len(aliases) > 0 {
		keys := make([]string, 0, len(aliases))
		for a := range aliases {
			keys = append(keys, a+" -> "+aliases[a])
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "%s  aliases: %s\n", indent, strings.Join(keys, ", "))
	}
	for _, typeName := range s.NestedTypes() {
		sub, _ := s.Nested(typeName)
		describeSchema(w, sub, indent+"  ")
	}
}

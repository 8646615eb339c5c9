package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/structus/schemafile"
)

var checkCmd = &cobra.Command{
	Use:   "check <records.json>",
	Short: "Construct JSON records against a declared type",
	Long:  `Decodes a JSON array of records (or a single record) and constructs each one as an instance of the given type. Exits with status 1 when any record fails.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		typeName, _ := cmd.Flags().GetString("type")
		failed, err := runCheck(cmd.OutOrStdout(), path, typeName, args[0])
		if err != nil {
			return err
		}
		if failed > 0 {
			return errFailed
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringP("type", "t", "", "Type to construct records as")
	_ = checkCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(w io.Writer, path, typeName, recordsPath string) (int, error) {
	reg, err := schemafile.Load(path)
	if err != nil {
		return 0, err
	}
	s, ok := reg.Lookup(typeName)
	if !ok {
		return 0, fmt.Errorf("unknown type %q", typeName)
	}
	data, err := os.ReadFile(recordsPath)
	if err != nil {
		return 0, fmt.Errorf("read records: %w", err)
	}
	recs, err := schemafile.DecodeRecords(s, data)
	if err != nil {
		return 0, err
	}
	failed := 0
	for _, rec := range recs {
		if rec.Err != nil {
			failed++
			fmt.Fprintf(w, "record %d: FAIL %v\n", rec.Index, rec.Err)
			continue
		}
		fmt.Fprintf(w, "record %d: ok %s\n", rec.Index, rec.Instance)
	}
	logger.Debug().Str("type", typeName).Int("records", len(recs)).Int("failed", failed).Msg("check finished")
	fmt.Fprintf(w, "%d/%d records ok\n", len(recs)-failed, len(recs))
	return failed, nil
}

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/config"
)

var proteaseFile string

var proteasesCmd = &cobra.Command{
	Use:   "proteases",
	Short: "List the available proteases",
	Long: `List the built-in proteases and their cleavage motifs. Motifs read
"K|[P]": cut after K unless the next residue is P; "|D": cut before D.

Proteases from --protease-file are listed too and replace built-in
entries of the same name.`,
	Args: cobra.NoArgs,
	RunE: runProteases,
}

func init() {
	proteasesCmd.Flags().StringVar(&proteaseFile, "protease-file", "", "YAML file with additional protease definitions")
}

func runProteases(cmd *cobra.Command, args []string) error {
	catalog, err := config.Settings{ProteaseFile: proteaseFile}.Catalog()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMOTIFS")
	for _, name := range catalog.Names() {
		p, err := catalog.Lookup(name)
		if err != nil {
			return err
		}
		motifs := p.Specificity()
		if motifs == "" {
			motifs = "(no cleavage)"
		}
		fmt.Fprintf(w, "%s\t%s\n", p.Name, motifs)
	}
	return w.Flush()
}

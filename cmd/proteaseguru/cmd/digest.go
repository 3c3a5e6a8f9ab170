package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/config"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/database"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/report"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/task"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/writer/sqlite"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/writer/tsv"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Digest protein databases and write the peptide report",
	Long: `Digest one or more protein databases with one or more proteases and write
ProteaseGuruPeptides.tsv to the output directory.

Examples:
  # Digest a FASTA database with trypsin using default bounds
  proteaseguru digest --db human.fasta --out results

  # Compare two proteases over two databases, grouping modified forms separately
  proteaseguru digest --db human.xml.gz --db mouse.fasta --protease trypsin,Asp-N \
      --treat-modified-different --out results

  # Only report peptides unique in their database, with a SQLite copy
  proteaseguru digest --db human.fasta --out results --unique-only --sqlite results/peptides.db`,
	Args: cobra.NoArgs,
	RunE: runDigest,
}

func init() {
	defaults := core.DefaultDigestionConfig()
	f := digestCmd.Flags()

	f.StringSliceP("db", "d", nil, "Protein database (FASTA or UniProt XML, .gz allowed); repeatable (required)")
	f.StringP("out", "o", "", "Output directory for "+report.FileName+" (required)")
	f.StringSliceP("protease", "p", []string{"trypsin"}, "Comma-separated proteases (see 'proteaseguru proteases')")
	f.String("protease-file", "", "YAML file with additional protease definitions")
	f.String("mods", "", "CSV file with additional modification masses (mod,massshift)")
	f.Int("min-length", defaults.MinPeptideLength, "Minimum peptide length")
	f.Int("max-length", defaults.MaxPeptideLength, "Maximum peptide length")
	f.Int("missed-cleavages", defaults.MaxMissedCleavages, "Maximum missed cleavages")
	f.Int("max-mods", defaults.MaxModsPerPeptide, "Maximum annotated modifications per peptide")
	f.String("init-met", defaults.InitiatorMethionine.String(), "Initiator methionine: variable, retain, or cleave")
	f.Bool("treat-modified-different", false, "Treat modified forms of a sequence as different peptides")
	f.Bool("skip-analysis-uniqueness", false, "Do not compute uniqueness across databases")
	f.Int("threads", 1, "Number of proteins digested concurrently")
	f.String("sqlite", "", "Also export peptides to this SQLite database")
	f.Bool("unique-only", false, "Report only peptides unique in their database")
	f.Bool("unique-analysis-only", false, "Report only peptides unique across all databases")
	f.Int("filter-min-length", 0, "Report only peptides at least this long (0 = no limit)")
	f.Int("filter-max-length", 0, "Report only peptides at most this long (0 = no limit)")
	f.StringSlice("filter-protease", nil, "Report only these proteases")

	// Bind the parameters to viper
	f.VisitAll(func(fl *pflag.Flag) {
		viper.BindPFlag(fl.Name, fl)
	})
}

func runDigest(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := newLogger(settings.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	catalog, err := settings.Catalog()
	if err != nil {
		return err
	}
	params, err := settings.DigestionConfig(catalog)
	if err != nil {
		return err
	}
	modDB, err := settings.ModDatabase()
	if err != nil {
		return err
	}

	dbs := settings.DatabaseList()
	fmt.Printf("Digesting %d databases...\n", len(dbs))
	fmt.Printf("Proteases: %s\n", strings.Join(params.ProteaseNames(), ", "))
	fmt.Printf("Peptide length: %d-%d, missed cleavages: %d\n", params.MinPeptideLength, params.MaxPeptideLength, params.MaxMissedCleavages)
	if params.TreatModifiedPeptidesAsDifferent {
		fmt.Printf("Modified peptides are treated as different\n")
	}

	t := &task.DigestionTask{
		Params:                 params,
		Loader:                 database.NewFileLoader(modDB),
		Threads:                settings.Threads,
		Logger:                 logger,
		SkipAnalysisUniqueness: settings.SkipAnalysisUniqueness,
	}

	result, err := t.Run(cmd.Context(), dbs)
	if err != nil {
		return fmt.Errorf("digestion failed: %w", err)
	}

	rep := result.Report
	if filterConfig := settings.Filter(); filterConfig.Enabled() {
		rep = filterConfig.Apply(rep)
		fmt.Printf("Filtered: kept %d of %d peptides\n", rep.Len(), result.Report.Len())
	}

	// Report writing is all-or-nothing; a failure fails the run
	path, err := tsv.WriteFile(settings.OutputDir, rep)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if settings.SQLite != "" {
		if err := exportSQLite(settings, params, result.RunID, rep); err != nil {
			return err
		}
	}

	fmt.Printf("\nDigestion complete!\n")
	fmt.Print(result.String())
	fmt.Printf("Output: %s\n", path)
	if settings.SQLite != "" {
		fmt.Printf("SQLite: %s\n", settings.SQLite)
	}

	return nil
}

func exportSQLite(settings config.Settings, params core.DigestionConfig, runID string, rep report.Report) error {
	writer, err := sqlite.NewWriter(settings.SQLite)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	if err := writer.WriteReport(rep); err != nil {
		return err
	}

	if err := writer.Finalize(sqlite.RunInfo{
		RunID:     runID,
		Created:   time.Now(),
		Databases: settings.Databases,
		Config:    params,
	}); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}
	return nil
}

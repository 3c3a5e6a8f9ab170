// Package config holds the run settings unmarshalled from Viper (flags, config
// file and PROTEASEGURU_* environment variables, see cmd/proteaseguru/cmd).
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/database"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/digest"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/filter"
)

// EnvPrefix prefixes environment variables, e.g. PROTEASEGURU_MIN_LENGTH.
const EnvPrefix = "PROTEASEGURU"

// Settings is the flat set of options of the digest command.
type Settings struct {
	// protein databases to digest, in report order
	Databases []string `mapstructure:"db" validate:"required,min=1,dive,required"`
	// directory receiving ProteaseGuruPeptides.tsv
	OutputDir string `mapstructure:"out" validate:"required"`
	// optional SQLite export path
	SQLite string `mapstructure:"sqlite"`

	Proteases    []string `mapstructure:"protease" validate:"required,min=1,dive,required"`
	ProteaseFile string   `mapstructure:"protease-file"`
	ModsFile     string   `mapstructure:"mods"`

	MinLength                int    `mapstructure:"min-length" validate:"gte=1"`
	MaxLength                int    `mapstructure:"max-length" validate:"gte=1"`
	MissedCleavages          int    `mapstructure:"missed-cleavages" validate:"gte=0"`
	MaxMods                  int    `mapstructure:"max-mods" validate:"gte=0"`
	InitiatorMethionine      string `mapstructure:"init-met" validate:"omitempty,oneof=variable retain cleave"`
	TreatModifiedAsDifferent bool   `mapstructure:"treat-modified-different"`
	SkipAnalysisUniqueness   bool   `mapstructure:"skip-analysis-uniqueness"`

	Threads int `mapstructure:"threads" validate:"gte=1"`

	// report filters
	UniqueOnly         bool     `mapstructure:"unique-only"`
	UniqueAnalysisOnly bool     `mapstructure:"unique-analysis-only"`
	FilterMinLength    int      `mapstructure:"filter-min-length" validate:"gte=0"`
	FilterMaxLength    int      `mapstructure:"filter-max-length" validate:"gte=0"`
	FilterProteases    []string `mapstructure:"filter-protease"`

	Verbose bool `mapstructure:"verbose"`
}

var validate = newValidator()

// newValidator reports fields by their option names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

// Bind prepares v to read PROTEASEGURU_* environment variables.
func Bind(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks the settings; problems are reported per option.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate settings: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "min":
			msgs = append(msgs, fmt.Sprintf("--%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("--%s must be one of %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("--%s must be %s %s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return &core.ValidationError{Field: "settings", Message: strings.Join(msgs, "; ")}
}

// Catalog returns the built-in proteases merged with the protease file, if any.
func (s Settings) Catalog() (*digest.Catalog, error) {
	c := digest.DefaultCatalog()
	if s.ProteaseFile == "" {
		return c, nil
	}

	f, err := os.Open(s.ProteaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open protease file: %w", err)
	}
	defer f.Close()

	if err := c.Load(f); err != nil {
		return nil, fmt.Errorf("failed to load protease file %s: %w", s.ProteaseFile, err)
	}
	return c, nil
}

// ModDatabase returns the built-in modification masses extended by the mods CSV, if any.
func (s Settings) ModDatabase() (*core.ModDatabase, error) {
	db := core.DefaultModDatabase()
	if s.ModsFile == "" {
		return db, nil
	}

	f, err := os.Open(s.ModsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open modifications file: %w", err)
	}
	defer f.Close()

	if err := db.LoadFromCSV(f); err != nil {
		return nil, fmt.Errorf("failed to load modifications file %s: %w", s.ModsFile, err)
	}
	return db, nil
}

// DigestionConfig resolves protease names against c and returns the validated
// digestion parameters.
func (s Settings) DigestionConfig(c *digest.Catalog) (core.DigestionConfig, error) {
	cfg := core.DefaultDigestionConfig()

	proteases, err := c.LookupAll(s.Proteases)
	if err != nil {
		return cfg, err
	}
	initMet, err := core.ParseInitiatorMethionine(s.InitiatorMethionine)
	if err != nil {
		return cfg, err
	}

	cfg.Proteases = proteases
	cfg.MinPeptideLength = s.MinLength
	cfg.MaxPeptideLength = s.MaxLength
	cfg.MaxMissedCleavages = s.MissedCleavages
	cfg.MaxModsPerPeptide = s.MaxMods
	cfg.InitiatorMethionine = initMet
	cfg.TreatModifiedPeptidesAsDifferent = s.TreatModifiedAsDifferent

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DatabaseList returns the databases in the order given.
func (s Settings) DatabaseList() []database.Database {
	dbs := make([]database.Database, 0, len(s.Databases))
	for _, path := range s.Databases {
		dbs = append(dbs, database.Database{FilePath: path})
	}
	return dbs
}

// Filter returns the report filter for the settings.
func (s Settings) Filter() filter.Config {
	return filter.Config{
		UniqueOnly:         s.UniqueOnly,
		UniqueAnalysisOnly: s.UniqueAnalysisOnly,
		MinLength:          s.FilterMinLength,
		MaxLength:          s.FilterMaxLength,
		Proteases:          s.FilterProteases,
	}
}

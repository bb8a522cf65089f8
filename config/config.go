// Package config holds rom-export settings: source paths relative to the
// ROM contents root, table offsets and output file names.
package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/tables"
)

// Config holds all rom-export configuration.
type Config struct {
	OutputRoot       string           `yaml:"output_root"`
	Summary          string           `yaml:"summary"`
	Personal         PersonalConfig   `yaml:"personal"`
	Evolutions       TableConfig      `yaml:"evolutions"`
	Weight           TableConfig      `yaml:"weight"`
	Offspring        TableConfig      `yaml:"offspring"`
	Moves            TableConfig      `yaml:"moves"`
	LevelUpLearnsets TableConfig      `yaml:"level_up_learnsets"`
	EggLearnsets     TableConfig      `yaml:"egg_learnsets"`
	Tutors           TableConfig      `yaml:"tutors"`
	TutorLearnsets   TableConfig      `yaml:"tutor_learnsets"`
	Encounters       EncountersConfig `yaml:"encounters"`
	Trainers         TrainersConfig   `yaml:"trainers"`
	Constants        ConstantsConfig  `yaml:"constants"`
}

// TrainersConfig configures the trainer roster export.
type TrainersConfig struct {
	Properties string `yaml:"properties"`
	Party      string `yaml:"party"`
	Output     string `yaml:"output"`
	Log        string `yaml:"log"`
	SkipFirst  bool   `yaml:"skip_first"`
}

// TableConfig configures a single-source table export.
type TableConfig struct {
	Source    string `yaml:"source"`
	Output    string `yaml:"output"`
	Log       string `yaml:"log"`
	Offset    int    `yaml:"offset"`
	Count     int    `yaml:"count"`
	SkipFirst bool   `yaml:"skip_first"`
}

// Layout returns the table layout.
func (t TableConfig) Layout() tables.Layout {
	return tables.Layout{Offset: t.Offset, Count: t.Count, SkipFirst: t.SkipFirst}
}

// PersonalConfig adds the machine compatibility output to the personal data table.
type PersonalConfig struct {
	TableConfig   `yaml:",inline"`
	MachineOutput string `yaml:"machine_output"`
}

// EncountersConfig configures the per-version encounter exports sharing one log.
type EncountersConfig struct {
	Log      string             `yaml:"log"`
	Versions []EncounterVersion `yaml:"versions"`
	Offset   int                `yaml:"offset"`
	Count    int                `yaml:"count"`
}

// Layout returns the encounter table layout.
func (e EncountersConfig) Layout() tables.Layout {
	return tables.Layout{Offset: e.Offset, Count: e.Count}
}

// EncounterVersion names one game version's encounter file.
type EncounterVersion struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output"`
}

// ConstantsConfig configures the text archive lookup tables.
type ConstantsConfig struct {
	Log      string        `yaml:"log"`
	Archives []TextArchive `yaml:"archives"`
}

// TextArchive maps one extracted text archive to a two-column CSV.
type TextArchive struct {
	Source     string `yaml:"source"`
	Output     string `yaml:"output"`
	IDColumn   string `yaml:"id_column"`
	TextColumn string `yaml:"text_column"`
	Transform  string `yaml:"transform"`
}

func table(source, output, log string, layout tables.Layout) TableConfig {
	return TableConfig{
		Source:    source,
		Output:    output,
		Log:       log,
		Offset:    layout.Offset,
		Count:     layout.Count,
		SkipFirst: layout.SkipFirst,
	}
}

func archive(num, output, id, text, transform string) TextArchive {
	return TextArchive{
		Source:     "expanded/textArchives/" + num + ".txt",
		Output:     output,
		IDColumn:   id,
		TextColumn: text,
		Transform:  transform,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputRoot: "output",
		Summary:    "export_summary.txt",
		Personal: PersonalConfig{
			TableConfig:   table("data/a/0/0/2", "personal_data.csv", "log_personal_data.txt", tables.DefaultPersonalLayout),
			MachineOutput: "machine_learnsets.csv",
		},
		Evolutions:       table("data/a/0/3/4", "evolutions.csv", "log_evolutions.txt", tables.DefaultEvolutionLayout),
		Weight:           table("data/a/2/1/4", "weight.csv", "log_weight.txt", tables.DefaultWeightLayout),
		Offspring:        table("data/poketool/personal/pms.narc", "offspring.csv", "log_offspring.txt", tables.DefaultOffspringLayout),
		Moves:            table("data/a/0/1/1", "moves.csv", "log_moves.txt", tables.DefaultMoveLayout),
		LevelUpLearnsets: table("data/a/0/3/3", "level_up_learnsets.csv", "log_level_up_learnsets.txt", tables.DefaultLevelUpLayout),
		EggLearnsets:     table("data/a/2/2/9", "egg_learnsets.csv", "log_egg_learnsets.txt", tables.DefaultEggLayout),
		Tutors:           table("overlay/overlay_0001.bin", "tutors.csv", "log_tutors.txt", tables.DefaultTutorLayout),
		TutorLearnsets:   table("data/fielddata/wazaoshie/waza_oshie.bin", "tutor_learnsets.csv", "log_tutor_learnsets.txt", tables.DefaultTutorLearnsetLayout),
		Encounters: EncountersConfig{
			Log:    "log_encounters.txt",
			Offset: tables.DefaultEncounterLayout.Offset,
			Versions: []EncounterVersion{
				{Name: "hg", Source: "data/a/0/3/7", Output: "encounters_hg.csv"},
				{Name: "ss", Source: "data/a/1/3/6", Output: "encounters_ss.csv"},
			},
		},
		Trainers: TrainersConfig{
			Properties: "data/a/0/5/5",
			Party:      "data/a/0/5/6",
			Output:     "trainers.csv",
			Log:        "log_trainers.txt",
			SkipFirst:  true,
		},
		Constants: ConstantsConfig{
			Log: "log_constants.txt",
			Archives: []TextArchive{
				archive("0222", "constants_item_names.csv", "item_id", "item_name", tables.TransformDefault),
				archive("0237", "constants_species_names.csv", "species_id", "species_name", tables.TransformDefault),
				archive("0720", "constants_ability_names.csv", "ability_id", "ability_name", tables.TransformDefault),
				archive("0729", "constants_trainer_names.csv", "trainer_id", "trainer_name", tables.TransformTrainerName),
				archive("0730", "constants_trainer_class_names.csv", "trainer_class_id", "trainer_class_name", tables.TransformTrainerClass),
				archive("0735", "constants_type_names.csv", "type_id", "type_name", tables.TransformDefault),
				archive("0749", "constants_move_descriptions.csv", "move_id", "move_description", tables.TransformMoveDesc),
				archive("0750", "constants_move_names.csv", "move_id", "move_name", tables.TransformDefault),
				archive("0279", "constants_location_names.csv", "location_id", "location_name", tables.TransformDefault),
				archive("0221", "constants_item_descriptions.csv", "item_id", "item_description", tables.TransformDesc2),
				archive("0803", "constants_species_descriptions_hg.csv", "species_id", "species_description", tables.TransformDesc2),
				archive("0804", "constants_species_descriptions_ss.csv", "species_id", "species_description", tables.TransformDesc2),
			},
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseConfig, path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
			Path(path).
			Detail("parse yaml").
			Cause(err).
			Build()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type setting struct {
	key   string
	value string
}

type namedTable struct {
	name  string
	table TableConfig
}

// tablesInOrder lists the single-source tables in run order.
func (c *Config) tablesInOrder() []namedTable {
	return []namedTable{
		{"personal", c.Personal.TableConfig},
		{"evolutions", c.Evolutions},
		{"weight", c.Weight},
		{"offspring", c.Offspring},
		{"moves", c.Moves},
		{"level_up_learnsets", c.LevelUpLearnsets},
		{"egg_learnsets", c.EggLearnsets},
		{"tutors", c.Tutors},
		{"tutor_learnsets", c.TutorLearnsets},
	}
}

// Validate rejects empty paths, impossible layouts and unknown transforms.
// Keys are checked in a fixed order so the first problem reported is stable.
func (c *Config) Validate() error {
	required := []setting{
		{"output_root", c.OutputRoot},
		{"summary", c.Summary},
	}
	for _, nt := range c.tablesInOrder() {
		t := nt.table
		if t.Offset < 0 {
			return errors.InvalidConfig(nt.name+".offset", "must not be negative, got %d", t.Offset)
		}
		if t.Count < 0 {
			return errors.InvalidConfig(nt.name+".count", "must not be negative, got %d", t.Count)
		}
		required = append(required,
			setting{nt.name + ".source", t.Source},
			setting{nt.name + ".output", t.Output},
			setting{nt.name + ".log", t.Log},
		)
	}
	required = append(required, setting{"personal.machine_output", c.Personal.MachineOutput})

	if c.Encounters.Offset < 0 {
		return errors.InvalidConfig("encounters.offset", "must not be negative, got %d", c.Encounters.Offset)
	}
	if c.Encounters.Count < 0 {
		return errors.InvalidConfig("encounters.count", "must not be negative, got %d", c.Encounters.Count)
	}
	if len(c.Encounters.Versions) == 0 {
		return errors.InvalidConfig("encounters.versions", "must list at least one version")
	}
	required = append(required, setting{"encounters.log", c.Encounters.Log})
	for i, v := range c.Encounters.Versions {
		key := fmt.Sprintf("encounters.versions[%d]", i)
		required = append(required,
			setting{key + ".name", v.Name},
			setting{key + ".source", v.Source},
			setting{key + ".output", v.Output},
		)
	}

	required = append(required,
		setting{"trainers.properties", c.Trainers.Properties},
		setting{"trainers.party", c.Trainers.Party},
		setting{"trainers.output", c.Trainers.Output},
		setting{"trainers.log", c.Trainers.Log},
		setting{"constants.log", c.Constants.Log},
	)
	for i, a := range c.Constants.Archives {
		key := fmt.Sprintf("constants.archives[%d]", i)
		if !slices.Contains(tables.Transforms, a.Transform) {
			return errors.InvalidConfig(key+".transform", "unknown transform %q", a.Transform)
		}
		required = append(required,
			setting{key + ".source", a.Source},
			setting{key + ".output", a.Output},
			setting{key + ".id_column", a.IDColumn},
			setting{key + ".text_column", a.TextColumn},
		)
	}

	for _, r := range required {
		if r.value == "" {
			return errors.InvalidConfig(r.key, "must not be empty")
		}
	}
	for _, key := range []struct {
		name  string
		count int
	}{
		{"evolutions.count", c.Evolutions.Count},
		{"weight.count", c.Weight.Count},
		{"tutors.count", c.Tutors.Count},
	} {
		if key.count == 0 {
			return errors.InvalidConfig(key.name, "must be positive")
		}
	}
	return nil
}

package export

import (
	"context"
	"encoding/binary"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/rom-export/config"
	rerrors "github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/narc/narctest"
	"github.com/wippyai/rom-export/tables"
	"github.com/wippyai/rom-export/trainer"
)

func props(flags, size byte) []byte {
	b := make([]byte, trainer.PropertiesSize)
	b[0], b[1], b[3] = flags, 7, size
	binary.LittleEndian.PutUint32(b[16:], 0x02)
	return b
}

// member encodes a party member without moves or held item.
func member(level, species uint16) []byte {
	b := []byte{30, 0x11}
	b = binary.LittleEndian.AppendUint16(b, level)
	b = binary.LittleEndian.AppendUint16(b, species)
	return binary.LittleEndian.AppendUint16(b, 0)
}

type fixture struct {
	env  Env
	root string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "run")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	return &fixture{
		root: root,
		env:  Env{SourceRoot: root, OutputDir: out, Config: config.Default()},
	}
}

func (f *fixture) write(t *testing.T, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(f.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) trainers(t *testing.T, properties, party [][]byte) {
	t.Helper()
	f.write(t, f.env.Config.Trainers.Properties, narctest.Build(properties...))
	f.write(t, f.env.Config.Trainers.Party, narctest.Build(party...))
}

func (f *fixture) out(name string) string {
	return filepath.Join(f.env.OutputDir, name)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	records, err := csv.NewReader(fh).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestTrainerExporter(t *testing.T) {
	f := newFixture(t)
	// trainer 2 has flags 0x03 (stride 18) and two padding bytes after the payload
	party2 := make([]byte, 20)
	binary.LittleEndian.PutUint16(party2[2:], 50)
	binary.LittleEndian.PutUint16(party2[4:], 249)

	f.trainers(t,
		[][]byte{props(0, 0), props(0, 2), props(0x03, 1)},
		[][]byte{make([]byte, 8), append(member(5, 25), member(7, 1)...), party2},
	)

	res, err := (&TrainerExporter{}).Run(context.Background(), f.env)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.OK() || res.Rows != 2 || res.Infos != 1 || res.Warnings != 0 {
		t.Fatalf("result = %+v", res)
	}

	records := readCSV(t, f.out("trainers.csv"))
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2", len(records))
	}
	for i, r := range records {
		if len(r) != trainer.ColumnCount {
			t.Errorf("record %d has %d columns", i, len(r))
		}
	}
	if records[1][0] != "1" || records[2][0] != "2" {
		t.Errorf("trainer ids = %q, %q", records[1][0], records[2][0])
	}
	if records[2][1] != "1" || records[2][2] != "1" {
		t.Errorf("trainer 2 flags = %q, %q", records[2][1], records[2][2])
	}

	raw := readFile(t, f.out("trainers.csv"))
	if !strings.HasSuffix(raw, "\r\n") {
		t.Error("rows should end with CRLF")
	}

	log := readFile(t, f.out("log_trainers.txt"))
	if !strings.HasPrefix(log, "[INFO] trainer_id 2: alignment padding detected") {
		t.Errorf("log = %q", log)
	}
}

func TestTrainerExporterKeepsSentinel(t *testing.T) {
	f := newFixture(t)
	f.env.Config.Trainers.SkipFirst = false
	f.trainers(t,
		[][]byte{props(0, 0), props(0, 1)},
		[][]byte{make([]byte, 8), member(5, 25)},
	)

	res, err := (&TrainerExporter{}).Run(context.Background(), f.env)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	records := readCSV(t, f.out("trainers.csv"))
	if res.Rows != 2 || len(records) != 3 || records[1][0] != "0" {
		t.Fatalf("rows = %d, first id = %q", res.Rows, records[1][0])
	}
	if res.LogPath != "" || exists(f.out("log_trainers.txt")) {
		t.Error("no diagnostics should mean no log file")
	}
}

func TestTrainerExporterFatal(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture)
		kind  rerrors.Kind
		log   string
	}{
		{
			name: "count mismatch",
			setup: func(t *testing.T, f *fixture) {
				f.trainers(t,
					[][]byte{props(0, 0), props(0, 1), props(0, 1), props(0, 1), props(0, 1)},
					[][]byte{make([]byte, 8), member(1, 1), member(1, 1), member(1, 1)},
				)
			},
			kind: rerrors.KindCountMismatch,
			log:  "[ERROR] properties/party file count mismatch: properties_file_count=5 party_file_count=4",
		},
		{
			name: "unsupported flags",
			setup: func(t *testing.T, f *fixture) {
				f.trainers(t,
					[][]byte{props(0, 0), props(0x04, 1)},
					[][]byte{make([]byte, 8), member(1, 1)},
				)
			},
			kind: rerrors.KindSchemaViolation,
			log:  "[ERROR] trainer_id 1: unsupported party_flags 0x04",
		},
		{
			name: "party too short",
			setup: func(t *testing.T, f *fixture) {
				f.trainers(t,
					[][]byte{props(0, 0), props(0, 2)},
					[][]byte{make([]byte, 8), member(1, 1)},
				)
			},
			kind: rerrors.KindSchemaViolation,
			log:  "[ERROR] trainer_id 1: party file too short.",
		},
		{
			name: "bad magic",
			setup: func(t *testing.T, f *fixture) {
				f.write(t, f.env.Config.Trainers.Properties, (&narctest.Builder{Magic: "CRAN"}).Bytes())
				f.write(t, f.env.Config.Trainers.Party, narctest.Build())
			},
			kind: rerrors.KindFormat,
			log:  "[ERROR] Failed to parse properties NARC: missing NARC magic",
		},
		{
			name: "missing source",
			setup: func(t *testing.T, f *fixture) {
				f.write(t, f.env.Config.Trainers.Properties, narctest.Build())
			},
			kind: rerrors.KindIO,
			log:  "[ERROR] Source file not found: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(t, f)

			res, err := (&TrainerExporter{}).Run(context.Background(), f.env)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := rerrors.KindOf(err); got != tt.kind {
				t.Errorf("kind = %q, want %q (%v)", got, tt.kind, err)
			}
			if !rerrors.IsFatal(err) {
				t.Errorf("error should be fatal: %v", err)
			}
			if res.OK() || res.Errors != 1 {
				t.Errorf("result = %+v", res)
			}
			if exists(f.out("trainers.csv")) {
				t.Error("CSV must not exist after a fatal error")
			}
			entries, _ := os.ReadDir(f.env.OutputDir)
			for _, e := range entries {
				if strings.HasSuffix(e.Name(), ".tmp") {
					t.Errorf("temp file left behind: %s", e.Name())
				}
			}
			log := readFile(t, f.out("log_trainers.txt"))
			if !strings.HasPrefix(log, tt.log) {
				t.Errorf("log = %q, want prefix %q", log, tt.log)
			}
		})
	}
}

func TestTableExporter(t *testing.T) {
	f := newFixture(t)
	f.env.Config.Weight.Offset = 0
	f.env.Config.Weight.Count = 3
	data := []byte{0, 0, 0, 0}
	data = binary.LittleEndian.AppendUint16(data, 69)
	data = append(data, 0, 0)
	data = binary.LittleEndian.AppendUint16(data, 130)
	data = append(data, 0xAB, 0)
	f.write(t, f.env.Config.Weight.Source, data)

	x, err := Lookup("weight")
	if err != nil {
		t.Fatal(err)
	}
	res, err := x[0].Run(context.Background(), f.env)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Rows != 2 || res.Warnings != 1 || res.Status() != "WARN" {
		t.Errorf("result = %+v", res)
	}
	records := readCSV(t, f.out("weight.csv"))
	if len(records) != 3 || records[2][1] != "130" {
		t.Errorf("records = %v", records)
	}
	if !exists(f.out("log_weight.txt")) {
		t.Error("warning should produce a log file")
	}
}

func TestLookup(t *testing.T) {
	all, err := Lookup()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, x := range all {
		names = append(names, x.Name())
	}
	want := "personal,evolutions,weight,offspring,moves,level_up_learnsets,egg_learnsets," +
		"tutors,tutor_learnsets,encounters,trainers,constants"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("order = %s", got)
	}

	some, err := Lookup("trainers", "weight")
	if err != nil || len(some) != 2 || some[0].Name() != "weight" {
		t.Errorf("Lookup subset = %v, %v", some, err)
	}

	if _, err := Lookup("pokedex"); err == nil {
		t.Error("unknown exporter should fail")
	}

	for i := 0; i < 20; i++ {
		_, err := Lookup("weight", "zzz", "aaa")
		if err == nil || err.Error() != `unknown exporter "zzz"` {
			t.Fatalf("run %d: err = %v, want the first unknown name", i, err)
		}
	}
}

func TestPersonalExporter(t *testing.T) {
	f := newFixture(t)
	f.env.Config.Personal.Offset = 0
	rec := make([]byte, 44)
	rec[0] = 45                                     // hp
	binary.LittleEndian.PutUint16(rec[10:], 0x0101) // 1 hp, 1 spatk
	rec[28] = 0x05                                  // machines 1 and 3
	f.write(t, f.env.Config.Personal.Source, append(make([]byte, 44), rec...))

	res, err := (&PersonalExporter{}).Run(context.Background(), f.env)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status() != "OK" || len(res.Outputs) != 2 || res.Rows != 2 {
		t.Fatalf("result = %+v", res)
	}

	personal := readCSV(t, f.out("personal_data.csv"))
	if len(personal) != 2 || personal[1][0] != "1" || personal[1][1] != "45" {
		t.Errorf("personal = %v", personal)
	}
	if personal[1][11] != "1" || personal[1][15] != "1" {
		t.Errorf("ev yields = %v", personal[1][11:17])
	}
	machines := readCSV(t, f.out("machine_learnsets.csv"))
	if got := strings.Join(machines[1][1:5], ","); got != "1,0,1,0" {
		t.Errorf("machines = %s", got)
	}
	if line := StatusLine(res); !strings.Contains(line, "personal_data.csv, machine_learnsets.csv (2 rows)") {
		t.Errorf("status line = %q", line)
	}
}

func TestTutorExporterShortFile(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.env.Config.Tutors.Source, make([]byte, 0x23AE0+10))

	x, err := Lookup("tutors")
	if err != nil {
		t.Fatal(err)
	}
	res, err := x[0].Run(context.Background(), f.env)
	if rerrors.KindOf(err) != rerrors.KindFormat {
		t.Fatalf("err = %v", err)
	}
	if exists(f.out("tutors.csv")) {
		t.Error("CSV must not exist after a fatal error")
	}
	want := "[ERROR] File too short: expected 232 bytes from offset 146144, got 10.\n"
	if log := readFile(t, f.out("log_tutors.txt")); log != want {
		t.Errorf("log = %q", log)
	}
	if !strings.Contains(StatusLine(res), "File too short") {
		t.Errorf("status line = %q", StatusLine(res))
	}
}

func encounterFile(sets int) []byte {
	data := make([]byte, 0x4A4+sets*tables.EncounterRecordLen)
	for i := 0; i < sets; i++ {
		data[0x4A4+i*tables.EncounterRecordLen] = byte(10 + i)
	}
	return data
}

func TestEncounterExporter(t *testing.T) {
	t.Run("both versions", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, "data/a/0/3/7", encounterFile(2))
		f.write(t, "data/a/1/3/6", encounterFile(1))

		res, err := (&EncounterExporter{}).Run(context.Background(), f.env)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if res.Status() != "OK" || res.Rows != 3 || len(res.Outputs) != 2 {
			t.Fatalf("result = %+v", res)
		}
		hg := readCSV(t, f.out("encounters_hg.csv"))
		if len(hg) != 3 || hg[2][0] != "1" || hg[2][1] != "11" {
			t.Errorf("hg = %v", hg)
		}
		if len(hg[0]) != len(tables.EncounterHeader()) {
			t.Errorf("header width = %d", len(hg[0]))
		}
	})

	t.Run("one version missing", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, "data/a/0/3/7", encounterFile(1))

		res, err := (&EncounterExporter{}).Run(context.Background(), f.env)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if res.Status() != "WARN" || res.Errors != 1 || len(res.Outputs) != 1 {
			t.Fatalf("result = %+v", res)
		}
		if exists(f.out("encounters_ss.csv")) {
			t.Error("missing version should not produce a CSV")
		}
		log := readFile(t, f.out("log_encounters.txt"))
		if !strings.HasPrefix(log, "[ERROR] Source file not found: ") {
			t.Errorf("log = %q", log)
		}
	})

	t.Run("no versions", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, "data/a/0/3/7", make([]byte, 0x10))

		res, err := (&EncounterExporter{}).Run(context.Background(), f.env)
		if err == nil || res.OK() {
			t.Fatalf("result = %+v, err = %v", res, err)
		}
		log := readFile(t, f.out("log_encounters.txt"))
		if strings.Count(log, "[ERROR]") != 2 || !strings.Contains(log, "File shorter than START_OFFSET: data/a/0/3/7") {
			t.Errorf("log = %q", log)
		}
	})
}

func TestConstantsExporter(t *testing.T) {
	t.Run("missing sources", func(t *testing.T) {
		f := newFixture(t)
		f.env.Config.Constants.Archives = f.env.Config.Constants.Archives[:3]
		f.write(t, f.env.Config.Constants.Archives[1].Source, []byte("0237\nBULBASAUR\n"))

		res, err := (&ConstantsExporter{}).Run(context.Background(), f.env)
		if err == nil || res.OK() {
			t.Fatalf("result = %+v, err = %v", res, err)
		}
		if res.Errors != 2 {
			t.Errorf("errors = %d, want one per missing file", res.Errors)
		}
		if exists(f.out("constants_species_names.csv")) {
			t.Error("nothing should be written when a source is missing")
		}
	})

	t.Run("transforms", func(t *testing.T) {
		f := newFixture(t)
		cfg := config.Default().Constants.Archives
		f.env.Config.Constants.Archives = []config.TextArchive{cfg[3], cfg[4], cfg[5]}
		f.write(t, cfg[3].Source, []byte("\xEF\xBB\xBF0729\r\n{TRAINER_NAME: Falkner }\r\nJoey\r\n"))
		f.write(t, cfg[4].Source, []byte("0730\n[PK][MN] Trainer\n"))
		f.write(t, cfg[5].Source, []byte("0735\n"))

		res, err := (&ConstantsExporter{}).Run(context.Background(), f.env)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(res.Outputs) != 2 || res.Infos != 1 || res.Errors != 1 || res.Status() != "WARN" {
			t.Fatalf("result = %+v", res)
		}
		names := readCSV(t, f.out("constants_trainer_names.csv"))
		if names[0][0] != "trainer_id" || names[1][1] != "Falkner" || names[2][1] != "Joey" {
			t.Errorf("names = %v", names)
		}
		classes := readCSV(t, f.out("constants_trainer_class_names.csv"))
		if classes[1][1] != "Pokémon Trainer" {
			t.Errorf("classes = %v", classes)
		}
		if exists(f.out("constants_type_names.csv")) {
			t.Error("archive without records should be skipped")
		}
		log := readFile(t, f.out("log_constants.txt"))
		if !strings.Contains(log, "[ERROR] 0735.txt: expected at least 2 lines") {
			t.Errorf("log = %q", log)
		}
	})
}

func TestCSVFileAbort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	f, err := CreateCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Write([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := f.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("directory not empty after abort: %v", entries)
	}
	if err := f.Write([]string{"c"}); err == nil {
		t.Error("write after abort should fail")
	}
	if err := f.Commit(); err == nil {
		t.Error("commit after abort should fail")
	}
}

func TestRunAll(t *testing.T) {
	f := newFixture(t)
	f.env.OutputDir = filepath.Join(f.env.OutputDir, "nested")
	core, logs := observer.New(zap.InfoLevel)
	f.env.Logger = zap.New(core)

	f.trainers(t,
		[][]byte{props(0, 0), props(0, 1)},
		[][]byte{make([]byte, 8), member(5, 25)},
	)
	exporters, err := Lookup("weight", "trainers")
	if err != nil {
		t.Fatal(err)
	}

	var seen []string
	results, err := RunAll(context.Background(), f.env, exporters, func(r Result) {
		seen = append(seen, r.Exporter)
	})
	if err == nil {
		t.Fatal("missing weight source should fail the run")
	}
	if rerrors.KindOf(err) != rerrors.KindIO {
		t.Errorf("kind = %q", rerrors.KindOf(err))
	}
	if len(results) != 2 || strings.Join(seen, ",") != "weight,trainers" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].OK() || !results[1].OK() {
		t.Errorf("statuses = %s, %s", results[0].Status(), results[1].Status())
	}

	summary := readFile(t, filepath.Join(f.env.OutputDir, "export_summary.txt"))
	for _, want := range []string{
		"Export Summary",
		"Source: " + f.root,
		"[ERROR] weight: Source file not found: ",
		"[OK] trainers -> trainers.csv (1 rows)",
		"2 exporters, 1 failed, 0 with warnings",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	if logs.FilterMessage("exporter failed").Len() != 1 {
		t.Errorf("logged = %v", logs.All())
	}
}

func TestRunAllCanceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := RunAll(ctx, f.env, Exporters(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v", results)
	}
}

func TestDefaultOutputDir(t *testing.T) {
	now := time.Date(2024, 3, 9, 7, 5, 2, 0, time.UTC)
	got := DefaultOutputDir("output", now)
	if want := filepath.Join("output", "2024-03-09_070502"); got != want {
		t.Errorf("DefaultOutputDir = %q, want %q", got, want)
	}
}

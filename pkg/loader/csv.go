package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arnavshah/roster-assign-go/pkg/models"
)

const (
	DefaultRosterFile       = "alliance.csv"
	DefaultRequirementsFile = "requirements.csv"
	DefaultNamesFile        = "names_map.csv"
)

// CSVSource reads the datasets from CSV files in a directory
type CSVSource struct {
	Dir              string
	RosterFile       string
	RequirementsFile string
	NamesFile        string
}

// NewCSVSource returns a source using the default file names
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{
		Dir:              dir,
		RosterFile:       DefaultRosterFile,
		RequirementsFile: DefaultRequirementsFile,
		NamesFile:        DefaultNamesFile,
	}
}

// Files returns the three file names in roster, requirements, names order
func (s *CSVSource) Files() []string {
	return []string{s.RosterFile, s.RequirementsFile, s.NamesFile}
}

// Load reads all three files. Every file is checked for existence before any is parsed.
func (s *CSVSource) Load(ctx context.Context) (*Dataset, error) {
	for _, name := range s.Files() {
		if _, err := os.Stat(filepath.Join(s.Dir, name)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &LoadError{Dataset: name, Err: ErrMissing}
			}
			return nil, &LoadError{Dataset: name, Err: err}
		}
	}

	ds := &Dataset{}
	var err error
	if ds.Roster, err = s.readRoster(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ds.Requirements, err = s.readRequirements(); err != nil {
		return nil, err
	}
	if ds.Names, err = s.readNames(); err != nil {
		return nil, err
	}
	return ds, nil
}

// table is a parsed CSV file with its header mapped to column indexes
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

func readTable(path, name string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Dataset: name, Err: ErrMissing}
		}
		return nil, &LoadError{Dataset: name, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &LoadError{Dataset: name, Err: ErrEmpty}
	}
	if err != nil {
		return nil, &LoadError{Dataset: name, Err: err}
	}

	t := &table{name: name, cols: make(map[string]int, len(header))}
	for i, h := range header {
		t.cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Dataset: name, Err: err}
		}
		if isBlank(record) {
			continue
		}
		t.rows = append(t.rows, record)
	}
	return t, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (t *table) require(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.cols[c]; !ok {
			return &LoadError{Dataset: t.name, Err: fmt.Errorf("%w %q", ErrMissingColumn, c)}
		}
	}
	return nil
}

func (t *table) get(record []string, col string) string {
	i := t.cols[col]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (t *table) intField(record []string, line int, col string, blankOK bool) (int, error) {
	v := t.get(record, col)
	if v == "" && blankOK {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Exports sometimes write integers as 7.0
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || !finite(f) || f != float64(int(f)) {
			return 0, t.malformed(line, col, v)
		}
		n = int(f)
	}
	return n, nil
}

func (t *table) floatField(record []string, line int, col string) (float64, error) {
	v := t.get(record, col)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil || !finite(f) {
		return 0, t.malformed(line, col, v)
	}
	return f, nil
}

// finite rejects NaN and the infinities, which ParseFloat accepts
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (t *table) malformed(line int, col, value string) error {
	return &LoadError{Dataset: t.name, Err: fmt.Errorf("%w: row %d column %q: %q", ErrMalformed, line, col, value)}
}

func (s *CSVSource) readRoster() ([]models.RosterEntry, error) {
	t, err := readTable(filepath.Join(s.Dir, s.RosterFile), s.RosterFile)
	if err != nil {
		return nil, err
	}
	if len(t.rows) == 0 {
		return nil, &LoadError{Dataset: t.name, Err: ErrEmpty}
	}
	if err := t.require("Name", "Character Id", "Power", "Red Stars", "Stars", "Gear Tier"); err != nil {
		return nil, err
	}

	entries := make([]models.RosterEntry, 0, len(t.rows))
	for i, record := range t.rows {
		line := i + 2
		e := models.RosterEntry{
			PlayerName:  t.get(record, "Name"),
			CharacterID: t.get(record, "Character Id"),
		}
		if e.Power, err = t.floatField(record, line, "Power"); err != nil {
			return nil, err
		}
		if e.RedStars, err = t.intField(record, line, "Red Stars", true); err != nil {
			return nil, err
		}
		if e.YellowStars, err = t.intField(record, line, "Stars", true); err != nil {
			return nil, err
		}
		if e.GearTier, err = t.intField(record, line, "Gear Tier", true); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *CSVSource) readRequirements() ([]models.RequirementRow, error) {
	t, err := readTable(filepath.Join(s.Dir, s.RequirementsFile), s.RequirementsFile)
	if err != nil {
		return nil, err
	}
	if len(t.rows) == 0 {
		return nil, &LoadError{Dataset: t.name, Err: ErrEmpty}
	}
	if err := t.require("character_name", "day", "mission", "star_type", "level"); err != nil {
		return nil, err
	}

	rows := make([]models.RequirementRow, 0, len(t.rows))
	for i, record := range t.rows {
		line := i + 2
		row := models.RequirementRow{
			CharacterName: t.get(record, "character_name"),
			Mission:       t.get(record, "mission"),
			StarType:      t.get(record, "star_type"),
		}
		if row.Day, err = t.intField(record, line, "day", false); err != nil {
			return nil, err
		}
		if row.Level, err = t.intField(record, line, "level", false); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *CSVSource) readNames() ([]models.NameMapping, error) {
	t, err := readTable(filepath.Join(s.Dir, s.NamesFile), s.NamesFile)
	if err != nil {
		return nil, err
	}
	if len(t.rows) == 0 {
		return nil, &LoadError{Dataset: t.name, Err: ErrEmpty}
	}
	if err := t.require("clean_name", "character_id"); err != nil {
		return nil, err
	}

	rows := make([]models.NameMapping, 0, len(t.rows))
	for _, record := range t.rows {
		rows = append(rows, models.NameMapping{
			CleanName:   t.get(record, "clean_name"),
			CharacterID: t.get(record, "character_id"),
		})
	}
	return rows, nil
}

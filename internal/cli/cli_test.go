package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arnavshah/roster-assign-go/pkg/loader"
	"github.com/arnavshah/roster-assign-go/pkg/report"
)

const (
	allianceCSV = `Name,Character Id,Power,Red Stars,Stars,Gear Tier
A,REYJEDITRAINING,100,5,7,13
B,REYJEDITRAINING,50,7,7,12
A,FINN,10,1,3,8
`
	requirementsCSV = `character_name,day,mission,star_type,level
Rey,1,1,R,5
Kylo,1,1,R,1
Finn,1,2,X,1
Finn,2,1,G,8
`
	namesCSV = `clean_name,character_id
Rey,REYJEDITRAINING
Finn,FINN
`
)

func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func defaultFiles() map[string]string {
	return map[string]string{
		"alliance.csv":     allianceCSV,
		"requirements.csv": requirementsCSV,
		"names_map.csv":    namesCSV,
	}
}

type run struct {
	stdout string
	err    error
	logs   *observer.ObservedLogs
}

func execute(t *testing.T, dir, stdin string, args ...string) run {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	app := &App{Logger: zap.New(core)}

	cmd := NewRootCommand(app)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--data-dir", dir}, args...))

	err := cmd.Execute()
	return run{stdout: out.String(), err: err, logs: logs}
}

func TestAssignPromptsForDay(t *testing.T) {
	dir := writeDataset(t, defaultFiles())

	r := execute(t, dir, "1\n")
	require.NoError(t, r.err)

	assert.True(t, strings.HasPrefix(r.stdout, dayPrompt))
	assert.Contains(t, r.stdout, "Assignments for Day 1")
	assert.Contains(t, r.stdout, "Mission 1:")
	assert.Contains(t, r.stdout, "  Rey (Red Stars >= 5):\n    B - Power: 50, Red Stars: 7\n    A - Power: 100, Red Stars: 5\n")
	assert.Contains(t, r.stdout, "  Kylo (Red Stars >= 1):\n    "+report.NoEligibleMessage+"\n")
	assert.Equal(t, 3+5, strings.Count(r.stdout, report.UnableToFillMarker))
	assert.Contains(t, r.stdout, "Unknown star type X for character Finn")

	warnings := r.logs.FilterMessage("unknown star type").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	assert.Equal(t, "X", warnings[0].ContextMap()["star_type"])
}

func TestAssignDayFlag(t *testing.T) {
	dir := writeDataset(t, defaultFiles())

	r := execute(t, dir, "", "--day", "2", "--summary")
	require.NoError(t, r.err)

	assert.NotContains(t, r.stdout, dayPrompt)
	assert.Contains(t, r.stdout, "Finn (Gear Tier >= 8):\n    A - Power: 10, Gear Tier: 8\n")
	assert.Contains(t, r.stdout, "Summary")
	assert.Contains(t, r.stdout, "  A: 1\n")
}

func TestAssignInvalidDay(t *testing.T) {
	dir := writeDataset(t, defaultFiles())

	for _, day := range []string{"0", "3", "6"} {
		r := execute(t, dir, day+"\n")
		require.NoError(t, r.err)
		assert.Equal(t, dayPrompt+report.InvalidDayMessage+"\n", r.stdout)
		assert.NotContains(t, r.stdout, "Mission")
	}
}

func TestAssignNonNumericDay(t *testing.T) {
	dir := writeDataset(t, defaultFiles())

	r := execute(t, dir, "monday\n")
	require.Error(t, r.err)
	assert.True(t, errors.Is(r.err, ErrInvalidInput))
	assert.Equal(t, "Invalid input. Please enter a numeric day value (1-5).", r.err.Error())
	assert.NotContains(t, r.stdout, "Assignments")
}

func TestAssignMissingFile(t *testing.T) {
	files := defaultFiles()
	delete(files, "requirements.csv")
	dir := writeDataset(t, files)

	r := execute(t, dir, "1\n")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, loader.ErrMissing)
	assert.Equal(t, "Error: One or more CSV files were not found. Please make sure 'alliance.csv', 'requirements.csv', and 'names_map.csv' are in the same directory.", r.err.Error())
	assert.Empty(t, r.stdout)
}

func TestAssignEmptyFile(t *testing.T) {
	files := defaultFiles()
	files["names_map.csv"] = ""
	dir := writeDataset(t, files)

	r := execute(t, dir, "1\n")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, loader.ErrEmpty)
	assert.Equal(t, "Error: One or more CSV files are empty.", r.err.Error())
}

func TestAssignUnmappedCharacterDegrades(t *testing.T) {
	files := defaultFiles()
	files["names_map.csv"] = "clean_name,character_id\nFinn,FINN\n"
	dir := writeDataset(t, files)

	r := execute(t, dir, "", "--day", "1")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "  Rey (Red Stars >= 5):\n    "+report.NoEligibleMessage+"\n")
}

func TestAssignEnforceCapFlag(t *testing.T) {
	var b strings.Builder
	b.WriteString("character_name,day,mission,star_type,level\n")
	for i := 0; i < 12; i++ {
		b.WriteString("Finn,1," + string(rune('a'+i)) + ",R,1\n")
	}
	files := defaultFiles()
	files["requirements.csv"] = b.String()
	dir := writeDataset(t, files)

	r := execute(t, dir, "", "--day", "1")
	require.NoError(t, r.err)
	assert.Equal(t, 12, strings.Count(r.stdout, "A - Power: 10"))

	r = execute(t, dir, "", "--day", "1", "--enforce-cap")
	require.NoError(t, r.err)
	assert.Equal(t, 10, strings.Count(r.stdout, "A - Power: 10"))
}

func TestValidateCommand(t *testing.T) {
	dir := writeDataset(t, defaultFiles())

	r := execute(t, dir, "", "validate")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, `warning: requirements row 3: Character "Kylo" has no name mapping`)
	assert.Contains(t, r.stdout, `warning: requirements row 4: Unknown star type "X" for character Finn`)
	assert.Contains(t, r.stdout, "2 players, 2 characters, 4 requirement rows over 2 days, 2 name mappings")
	assert.Contains(t, r.stdout, "Datasets are valid.")
}

func TestSQLSourceMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", filepath.Join(dir, "absent.db"))
	t.Setenv("DATABASE_URL", "")

	r := execute(t, dir, "1\n", "--source", "sql")
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, loader.ErrMissing)
	assert.Contains(t, r.err.Error(), "names_map")
}

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/roster-assign-go/pkg/models"
)

func sampleDay() *models.DayAssignments {
	return &models.DayAssignments{
		Day: 1,
		Missions: []models.MissionAssignments{
			{
				Mission: "2",
				Requirements: []models.RequirementAssignment{
					{
						Requirement: models.CharacterRequirement{CharacterID: "reyjeditraining", StarType: models.StarRed, Level: 5},
						Character:   "Rey",
						Selected: []models.Slot{
							{Player: "B", Power: 50, Stat: 7},
							{Player: "A", Power: 100.5, Stat: 5},
						},
						Unfilled: 3,
					},
					{
						Requirement: models.CharacterRequirement{CharacterName: "Kylo", StarType: models.StarGear, Level: 12},
						Character:   "Kylo",
						Unfilled:    5,
					},
					{
						Requirement:     models.CharacterRequirement{CharacterID: "finn", StarType: "Q", Level: 1},
						Character:       "Finn",
						UnknownStarType: true,
					},
				},
			},
		},
		Totals: []models.PlayerTotal{{Player: "A", Slots: 1}, {Player: "B", Slots: 1}, {Player: "C", Slots: 0}},
		Conflicts: []models.ConflictReason{
			{Mission: "2", Character: "Kylo", Unfilled: 5, Reasons: []string{`character "Kylo" has no name mapping`}},
		},
		FairnessScore: 29.3,
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).Render(sampleDay(), Options{}))

	want := strings.Join([]string{
		"",
		"Assignments for Day 1",
		"",
		"Mission 2:",
		"",
		"  Rey (Red Stars >= 5):",
		"    B - Power: 50, Red Stars: 7",
		"    A - Power: 100.5, Red Stars: 5",
		"    **Unable to fill**",
		"    **Unable to fill**",
		"    **Unable to fill**",
		"",
		"  Kylo (Gear Tier >= 12):",
		"    No eligible players found for this character.",
		"    **Unable to fill**",
		"    **Unable to fill**",
		"    **Unable to fill**",
		"    **Unable to fill**",
		"    **Unable to fill**",
		"Unknown star type Q for character Finn. Please check the requirements.",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), "Summary")
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).Render(sampleDay(), Options{Summary: true}))

	out := buf.String()
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "  A: 1\n")
	assert.NotContains(t, out, "  C: 0")
	assert.Contains(t, out, "Fairness: 29.3%")
	assert.Contains(t, out, `Mission 2, Kylo: 5 unfilled (character "Kylo" has no name mapping)`)
}

func TestInvalidDay(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).InvalidDay())
	assert.Equal(t, InvalidDayMessage+"\n", buf.String())
}

func TestFormatPower(t *testing.T) {
	assert.Equal(t, "123456", FormatPower(123456))
	assert.Equal(t, "12.25", FormatPower(12.25))
}

package requirements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/roster-assign-go/pkg/models"
	"github.com/arnavshah/roster-assign-go/pkg/names"
)

func TestBuild(t *testing.T) {
	resolver, err := names.New([]models.NameMapping{
		{CleanName: "Rey", CharacterID: "REYJEDITRAINING"},
		{CleanName: "Finn", CharacterID: "FINN"},
	})
	require.NoError(t, err)

	idx := Build([]models.RequirementRow{
		{CharacterName: "Finn", Day: 3, Mission: "2", StarType: "g", Level: 12},
		{CharacterName: "rey", Day: 1, Mission: "B", StarType: "R", Level: 5},
		{CharacterName: "Finn", Day: 1, Mission: "A", StarType: " y ", Level: 7},
		{CharacterName: "Kylo", Day: 1, Mission: "B", StarType: "q", Level: 1},
	}, resolver)

	assert.Equal(t, []int{3, 1}, idx.Days())

	_, ok := idx.Day(5)
	assert.False(t, ok)

	day, ok := idx.Day(1)
	require.True(t, ok)
	missions := day.Missions()
	require.Len(t, missions, 2)
	assert.Equal(t, "B", missions[0].ID)
	assert.Equal(t, "A", missions[1].ID)

	assert.Equal(t, []models.CharacterRequirement{
		{CharacterID: "reyjeditraining", CharacterName: "rey", StarType: models.StarRed, Level: 5},
		{CharacterID: "", CharacterName: "Kylo", StarType: "Q", Level: 1},
	}, missions[0].Requirements)
	assert.Equal(t, models.StarYellow, missions[1].Requirements[0].StarType)

	day3, _ := idx.Day(3)
	assert.Equal(t, models.StarGear, day3.Missions()[0].Requirements[0].StarType)
}

func TestBuildWithoutResolver(t *testing.T) {
	idx := Build([]models.RequirementRow{{CharacterName: "Rey", Day: 1, Mission: "1", StarType: "R", Level: 1}}, nil)
	day, ok := idx.Day(1)
	require.True(t, ok)
	assert.Empty(t, day.Missions()[0].Requirements[0].CharacterID)
}

package requirements

import (
	"strings"

	"github.com/arnavshah/roster-assign-go/pkg/models"
	"github.com/arnavshah/roster-assign-go/pkg/names"
)

// Mission holds the requirements of one mission in input order
type Mission struct {
	ID           string
	Requirements []models.CharacterRequirement
}

// Day holds the missions of one day in first-seen order
type Day struct {
	Number   int
	missions map[string]*Mission
	order    []string
}

// Missions returns the day's missions in insertion order
func (d *Day) Missions() []*Mission {
	out := make([]*Mission, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.missions[id])
	}
	return out
}

// Index groups requirements by day and mission
type Index struct {
	days  map[int]*Day
	order []int
}

// NewIndex returns an empty index
func NewIndex() *Index {
	return &Index{days: make(map[int]*Day)}
}

// Build resolves every row's display name and inserts it into a new index
func Build(rows []models.RequirementRow, resolver *names.Resolver) *Index {
	idx := NewIndex()
	for _, row := range rows {
		id := ""
		if resolver != nil {
			id, _ = resolver.Lookup(row.CharacterName)
		}
		idx.Add(row.Day, row.Mission, models.CharacterRequirement{
			CharacterID:   id,
			CharacterName: strings.TrimSpace(row.CharacterName),
			StarType:      models.ParseStarType(row.StarType),
			Level:         row.Level,
		})
	}
	return idx
}

// Add appends a requirement to the given day and mission
func (idx *Index) Add(day int, mission string, req models.CharacterRequirement) {
	d, ok := idx.days[day]
	if !ok {
		d = &Day{Number: day, missions: make(map[string]*Mission)}
		idx.days[day] = d
		idx.order = append(idx.order, day)
	}
	m, ok := d.missions[mission]
	if !ok {
		m = &Mission{ID: mission}
		d.missions[mission] = m
		d.order = append(d.order, mission)
	}
	m.Requirements = append(m.Requirements, req)
}

// Day returns the requirements for a day
func (idx *Index) Day(n int) (*Day, bool) {
	d, ok := idx.days[n]
	return d, ok
}

// Days returns the known days in first-seen order
func (idx *Index) Days() []int {
	return append([]int(nil), idx.order...)
}

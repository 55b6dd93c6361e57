package validate

import (
	"fmt"

	"github.com/arnavshah/roster-assign-go/pkg/loader"
	"github.com/arnavshah/roster-assign-go/pkg/models"
	"github.com/arnavshah/roster-assign-go/pkg/names"
	"github.com/arnavshah/roster-assign-go/pkg/requirements"
	"github.com/arnavshah/roster-assign-go/pkg/roster"
)

const (
	MinDay = 1
	MaxDay = 5
)

// Severity of a validation issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in the datasets
type Issue struct {
	Severity Severity `json:"severity"`
	Dataset  string   `json:"dataset"`
	Row      int      `json:"row,omitempty"`
	Message  string   `json:"message"`
}

// Stats describes the loaded datasets
type Stats struct {
	Players         int `json:"players"`
	Characters      int `json:"characters"`
	RosterRows      int `json:"roster_rows"`
	RequirementRows int `json:"requirement_rows"`
	Days            int `json:"days"`
	NameMappings    int `json:"name_mappings"`
}

// Result is the outcome of Check
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
	Stats  Stats   `json:"stats"`
}

// Check reports structural problems in the datasets. Rows are numbered as in a file with a header.
func Check(ds *loader.Dataset) Result {
	var res Result

	if len(ds.Roster) == 0 {
		res.add(SeverityError, "roster", 0, "At least one roster entry is required")
	}
	if len(ds.Requirements) == 0 {
		res.add(SeverityError, "requirements", 0, "At least one requirement is required")
	}
	if len(ds.Names) == 0 {
		res.add(SeverityError, "names", 0, "At least one name mapping is required")
	}

	seen := make(map[string]int)
	for i, e := range ds.Roster {
		row := i + 2
		if e.PlayerName == "" {
			res.add(SeverityError, "roster", row, "Missing player name")
		}
		if e.CharacterID == "" {
			res.add(SeverityError, "roster", row, "Missing character id")
		}
		key := e.PlayerName + "\x00" + names.Key(e.CharacterID)
		if first, ok := seen[key]; ok {
			res.add(SeverityWarning, "roster", row, fmt.Sprintf("Duplicate entry for %s / %s (first at row %d)", e.PlayerName, e.CharacterID, first))
		} else {
			seen[key] = row
		}
	}
	store := roster.New(ds.Roster)

	var resolver *names.Resolver
	if len(ds.Names) > 0 {
		resolver, _ = names.New(ds.Names)
		for i, m := range ds.Names {
			if m.CleanName == "" || m.CharacterID == "" {
				res.add(SeverityWarning, "names", i+2, "Incomplete name mapping")
				continue
			}
			if len(ds.Roster) > 0 && !store.HasCharacter(m.CharacterID) {
				res.add(SeverityWarning, "names", i+2, fmt.Sprintf("Character id %s is not owned by any player", m.CharacterID))
			}
		}
	}

	for i, r := range ds.Requirements {
		row := i + 2
		if r.Day < MinDay || r.Day > MaxDay {
			res.add(SeverityWarning, "requirements", row, fmt.Sprintf("Day %d is outside %d-%d", r.Day, MinDay, MaxDay))
		}
		if !models.ParseStarType(r.StarType).Valid() {
			res.add(SeverityWarning, "requirements", row, fmt.Sprintf("Unknown star type %q for character %s", r.StarType, r.CharacterName))
		}
		if r.Level < 0 {
			res.add(SeverityWarning, "requirements", row, fmt.Sprintf("Negative level %d", r.Level))
		}
		if resolver != nil {
			if _, ok := resolver.Lookup(r.CharacterName); !ok {
				res.add(SeverityWarning, "requirements", row, fmt.Sprintf("Character %q has no name mapping", r.CharacterName))
			}
		}
	}

	res.Stats = Stats{
		Players:         len(store.Players()),
		Characters:      store.Characters(),
		RosterRows:      store.Len(),
		RequirementRows: len(ds.Requirements),
		Days:            len(requirements.Build(ds.Requirements, resolver).Days()),
	}
	if resolver != nil {
		res.Stats.NameMappings = resolver.Len()
	}
	res.Valid = true
	for _, issue := range res.Issues {
		if issue.Severity == SeverityError {
			res.Valid = false
			break
		}
	}
	return res
}

func (r *Result) add(sev Severity, dataset string, row int, msg string) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Dataset: dataset, Row: row, Message: msg})
}

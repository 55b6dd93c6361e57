package models

import "strings"

// StarType is the stat category a requirement checks
type StarType string

const (
	StarRed    StarType = "R"
	StarYellow StarType = "Y"
	StarGear   StarType = "G"
)

// ParseStarType normalizes a single-letter code. Unknown codes are kept upper-cased.
func ParseStarType(code string) StarType {
	return StarType(strings.ToUpper(strings.TrimSpace(code)))
}

// Valid reports whether the star type is one of R, Y or G
func (t StarType) Valid() bool {
	switch t {
	case StarRed, StarYellow, StarGear:
		return true
	}
	return false
}

// Label returns the column label used when printing a stat
func (t StarType) Label() string {
	switch t {
	case StarRed:
		return "Red Stars"
	case StarYellow:
		return "Yellow Stars"
	case StarGear:
		return "Gear Tier"
	}
	return string(t)
}

// RosterEntry is one character owned by one player
type RosterEntry struct {
	PlayerName  string  `json:"player_name"`
	CharacterID string  `json:"character_id"`
	Power       float64 `json:"power"`
	RedStars    int     `json:"red_stars"`
	YellowStars int     `json:"yellow_stars"`
	GearTier    int     `json:"gear_tier"`
}

// Stat returns the value a star type is checked against
func (e RosterEntry) Stat(t StarType) (int, bool) {
	switch t {
	case StarRed:
		return e.RedStars, true
	case StarYellow:
		return e.YellowStars, true
	case StarGear:
		return e.GearTier, true
	}
	return 0, false
}

// RequirementRow is a requirement as read from the dataset, before name resolution
type RequirementRow struct {
	CharacterName string `json:"character_name"`
	Day           int    `json:"day"`
	Mission       string `json:"mission"`
	StarType      string `json:"star_type"`
	Level         int    `json:"level"`
}

// NameMapping pairs a display name with an internal character id
type NameMapping struct {
	CleanName   string `json:"clean_name"`
	CharacterID string `json:"character_id"`
}

// CharacterRequirement is an eligibility rule attached to a day and mission.
// CharacterID is empty when the display name did not resolve.
type CharacterRequirement struct {
	CharacterID   string   `json:"character_id"`
	CharacterName string   `json:"character_name"`
	StarType      StarType `json:"star_type"`
	Level         int      `json:"level"`
}

// Slot is one filled position of a requirement
type Slot struct {
	Player string  `json:"player"`
	Power  float64 `json:"power"`
	Stat   int     `json:"stat"`
}

// RequirementAssignment is the outcome of one requirement
type RequirementAssignment struct {
	Requirement     CharacterRequirement `json:"requirement"`
	Character       string               `json:"character"`
	Selected        []Slot               `json:"selected"`
	Unfilled        int                  `json:"unfilled"`
	UnknownStarType bool                 `json:"unknown_star_type,omitempty"`
}

// MissionAssignments groups requirement outcomes of one mission
type MissionAssignments struct {
	Mission      string                  `json:"mission"`
	Requirements []RequirementAssignment `json:"requirements"`
}

// ConflictReason represents why a requirement could not be filled
type ConflictReason struct {
	Mission   string   `json:"mission"`
	Character string   `json:"character"`
	Unfilled  int      `json:"unfilled"`
	Reasons   []string `json:"reasons"`
}

// PlayerTotal is the number of slots a player filled during a run
type PlayerTotal struct {
	Player string `json:"player"`
	Slots  int    `json:"slots"`
}

// DayAssignments is the result of processing one day
type DayAssignments struct {
	Day           int                  `json:"day"`
	Missions      []MissionAssignments `json:"missions"`
	Totals        []PlayerTotal        `json:"totals"`
	Conflicts     []ConflictReason     `json:"conflicts,omitempty"`
	FairnessScore float64              `json:"fairness_score"`
}

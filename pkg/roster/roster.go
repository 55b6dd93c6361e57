package roster

import (
	"github.com/arnavshah/roster-assign-go/pkg/models"
	"github.com/arnavshah/roster-assign-go/pkg/names"
)

// Store holds every player's characters, indexed by case-folded character id
type Store struct {
	byCharacter map[string][]models.RosterEntry
	players     []string
	size        int
}

// New indexes the roster entries, keeping input order within each character
func New(entries []models.RosterEntry) *Store {
	s := &Store{byCharacter: make(map[string][]models.RosterEntry)}
	seen := make(map[string]bool)
	for _, e := range entries {
		key := names.Key(e.CharacterID)
		s.byCharacter[key] = append(s.byCharacter[key], e)
		if !seen[e.PlayerName] {
			seen[e.PlayerName] = true
			s.players = append(s.players, e.PlayerName)
		}
	}
	s.size = len(entries)
	return s
}

// Eligible returns the entries for a character whose stat meets the level
func (s *Store) Eligible(characterID string, starType models.StarType, level int) []models.RosterEntry {
	if characterID == "" || !starType.Valid() {
		return nil
	}
	var out []models.RosterEntry
	for _, e := range s.byCharacter[names.Key(characterID)] {
		if stat, _ := e.Stat(starType); stat >= level {
			out = append(out, e)
		}
	}
	return out
}

// Players returns the distinct player names in first-seen order
func (s *Store) Players() []string {
	return append([]string(nil), s.players...)
}

// HasCharacter reports whether any player owns the character
func (s *Store) HasCharacter(characterID string) bool {
	return len(s.byCharacter[names.Key(characterID)]) > 0
}

// Characters returns the number of distinct character ids
func (s *Store) Characters() int {
	return len(s.byCharacter)
}

// Len returns the number of roster entries
func (s *Store) Len() int {
	return s.size
}

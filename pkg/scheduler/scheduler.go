package scheduler

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/arnavshah/roster-assign-go/pkg/models"
	"github.com/arnavshah/roster-assign-go/pkg/names"
	"github.com/arnavshah/roster-assign-go/pkg/requirements"
	"github.com/arnavshah/roster-assign-go/pkg/roster"
)

// ErrInvalidDay is returned when a day has no requirements
var ErrInvalidDay = errors.New("invalid day")

const (
	DefaultAssignmentCap       = 10
	DefaultSlotsPerRequirement = 5
)

// Options controls slot selection
type Options struct {
	AssignmentCap       int
	SlotsPerRequirement int
	// EnforceAssignmentCap increments a player's counter on every filled slot.
	// When false the counter only holds prefilled values.
	EnforceAssignmentCap bool
}

// DefaultOptions returns a cap of 10 and 5 slots per requirement, not enforced
func DefaultOptions() Options {
	return Options{
		AssignmentCap:       DefaultAssignmentCap,
		SlotsPerRequirement: DefaultSlotsPerRequirement,
	}
}

// Scheduler handles the logic of assigning roster members to mission slots
type Scheduler struct {
	Roster       *roster.Store
	Requirements *requirements.Index
	Names        *names.Resolver
	Options      Options
	Logger       *zap.Logger

	prefill  map[string]int
	counts   map[string]int
	selected map[string]int
}

// NewScheduler creates a new scheduler instance
func NewScheduler(store *roster.Store, index *requirements.Index, resolver *names.Resolver, opts Options) *Scheduler {
	if opts.AssignmentCap <= 0 {
		opts.AssignmentCap = DefaultAssignmentCap
	}
	if opts.SlotsPerRequirement <= 0 {
		opts.SlotsPerRequirement = DefaultSlotsPerRequirement
	}
	return &Scheduler{
		Roster:       store,
		Requirements: index,
		Names:        resolver,
		Options:      opts,
		Logger:       zap.NewNop(),
	}
}

// Prefill records existing assignment counts applied at the start of every run
func (s *Scheduler) Prefill(counts map[string]int) {
	s.prefill = make(map[string]int, len(counts))
	for player, n := range counts {
		s.prefill[player] = n
	}
}

// Count returns a player's assignment counter for the current run
func (s *Scheduler) Count(player string) int {
	return s.counts[player]
}

func (s *Scheduler) reset() {
	s.counts = make(map[string]int)
	s.selected = make(map[string]int)
	for _, player := range s.Roster.Players() {
		s.counts[player] = 0
		s.selected[player] = 0
	}
	for player, n := range s.prefill {
		s.counts[player] += n
	}
}

// ProcessAssignments selects the lowest-power eligible players for every requirement of a day
func (s *Scheduler) ProcessAssignments(day int) (*models.DayAssignments, error) {
	d, ok := s.Requirements.Day(day)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}

	s.reset()
	result := &models.DayAssignments{Day: day}

	for _, mission := range d.Missions() {
		ma := models.MissionAssignments{Mission: mission.ID}
		for _, req := range mission.Requirements {
			ra := s.assign(req)
			if ra.Unfilled > 0 && !ra.UnknownStarType {
				result.Conflicts = append(result.Conflicts, s.conflict(mission.ID, ra))
			}
			ma.Requirements = append(ma.Requirements, ra)
		}
		result.Missions = append(result.Missions, ma)
	}

	for _, player := range s.Roster.Players() {
		result.Totals = append(result.Totals, models.PlayerTotal{Player: player, Slots: s.selected[player]})
	}
	result.FairnessScore = s.CalculateFairnessScore()

	s.Logger.Debug("processed assignments",
		zap.Int("day", day),
		zap.Int("missions", len(result.Missions)),
		zap.Int("conflicts", len(result.Conflicts)))
	return result, nil
}

func (s *Scheduler) assign(req models.CharacterRequirement) models.RequirementAssignment {
	ra := models.RequirementAssignment{
		Requirement: req,
		Character:   s.displayName(req),
	}

	if !req.StarType.Valid() {
		s.Logger.Warn("unknown star type",
			zap.String("star_type", string(req.StarType)),
			zap.String("character", ra.Character))
		ra.UnknownStarType = true
		return ra
	}

	candidates := s.Roster.Eligible(req.CharacterID, req.StarType, req.Level)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Power < candidates[j].Power
	})

	// The counter is read per slot so repeated roster rows cannot push a player past the cap
	for _, entry := range candidates {
		if len(ra.Selected) == s.Options.SlotsPerRequirement {
			break
		}
		if s.counts[entry.PlayerName] >= s.Options.AssignmentCap {
			continue
		}
		stat, _ := entry.Stat(req.StarType)
		ra.Selected = append(ra.Selected, models.Slot{
			Player: entry.PlayerName,
			Power:  entry.Power,
			Stat:   stat,
		})
		s.selected[entry.PlayerName]++
		if s.Options.EnforceAssignmentCap {
			s.counts[entry.PlayerName]++
		}
	}
	ra.Unfilled = s.Options.SlotsPerRequirement - len(ra.Selected)
	return ra
}

func (s *Scheduler) displayName(req models.CharacterRequirement) string {
	if req.CharacterID != "" && s.Names != nil {
		return s.Names.DisplayName(req.CharacterID)
	}
	if req.CharacterName != "" {
		return req.CharacterName
	}
	return req.CharacterID
}

// conflict explains why a requirement has unfilled slots
func (s *Scheduler) conflict(mission string, ra models.RequirementAssignment) models.ConflictReason {
	var reasons []string
	req := ra.Requirement

	if req.CharacterID == "" {
		reasons = append(reasons, fmt.Sprintf("character %q has no name mapping", req.CharacterName))
	}

	atCap := 0
	eligible := s.Roster.Eligible(req.CharacterID, req.StarType, req.Level)
	for _, entry := range eligible {
		if s.counts[entry.PlayerName] >= s.Options.AssignmentCap {
			atCap++
		}
	}
	if atCap > 0 {
		reasons = append(reasons, fmt.Sprintf("%d players were at the assignment cap", atCap))
	}
	if len(eligible) == 0 && req.CharacterID != "" {
		reasons = append(reasons, fmt.Sprintf("no players have %s >= %d", req.StarType.Label(), req.Level))
	} else if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf("only %d eligible players", len(ra.Selected)))
	}

	return models.ConflictReason{
		Mission:   mission,
		Character: ra.Character,
		Unfilled:  ra.Unfilled,
		Reasons:   reasons,
	}
}

// CalculateFairnessScore returns a percentage (0-100) representing how evenly
// slots are distributed across players. 100% is perfectly fair (Standard Deviation = 0).
func (s *Scheduler) CalculateFairnessScore() float64 {
	if len(s.selected) == 0 {
		return 100.0
	}

	var sum float64
	for _, n := range s.selected {
		sum += float64(n)
	}

	if sum == 0 {
		return 100.0
	}

	mean := sum / float64(len(s.selected))

	var varianceSum float64
	for _, n := range s.selected {
		diff := float64(n) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(s.selected)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}

package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnavshah/roster-assign-go/pkg/models"
)

var (
	ErrMissing       = errors.New("dataset not found")
	ErrEmpty         = errors.New("dataset is empty")
	ErrMissingColumn = errors.New("missing column")
	ErrMalformed     = errors.New("malformed value")
)

// LoadError reports which dataset failed to load
type LoadError struct {
	Dataset string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Dataset, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Dataset holds the three input datasets
type Dataset struct {
	Roster       []models.RosterEntry
	Requirements []models.RequirementRow
	Names        []models.NameMapping
}

// Source loads a Dataset
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

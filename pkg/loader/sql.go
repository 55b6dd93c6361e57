package loader

import (
	"context"
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnavshah/roster-assign-go/pkg/models"
)

// RosterRow represents the alliance table
type RosterRow struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"not null"`
	CharacterID string  `gorm:"column:character_id;not null"`
	Power       float64 `gorm:"default:0"`
	RedStars    int     `gorm:"column:red_stars;default:0"`
	Stars       int     `gorm:"default:0"`
	GearTier    int     `gorm:"column:gear_tier;default:0"`
}

// TableName overrides the table name used by RosterRow
func (RosterRow) TableName() string { return "alliance" }

// RequirementRecord represents the requirements table
type RequirementRecord struct {
	ID            uint   `gorm:"primaryKey"`
	CharacterName string `gorm:"column:character_name;not null"`
	Day           int    `gorm:"not null"`
	Mission       string `gorm:"not null"`
	StarType      string `gorm:"column:star_type;not null"`
	Level         int    `gorm:"not null"`
}

// TableName overrides the table name used by RequirementRecord
func (RequirementRecord) TableName() string { return "requirements" }

// NameMapRow represents the names_map table
type NameMapRow struct {
	ID          uint   `gorm:"primaryKey"`
	CleanName   string `gorm:"column:clean_name;not null"`
	CharacterID string `gorm:"column:character_id;not null"`
}

// TableName overrides the table name used by NameMapRow
func (NameMapRow) TableName() string { return "names_map" }

// SQLSource reads the datasets from database tables. It never writes.
type SQLSource struct {
	DB *gorm.DB
}

// OpenDB connects to postgres when dsn is set, otherwise to the sqlite file at path
func OpenDB(dsn, path string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	cfg := &gorm.Config{
		PrepareStmt: false,
		Logger:      logger.Default.LogMode(logger.Silent),
	}

	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	} else {
		if path == "" {
			path = "roster.db"
		}
		// sqlite would create an empty file for a missing path
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, &LoadError{Dataset: path, Err: ErrMissing}
		}
		db, err = gorm.Open(sqlite.Open(path), cfg)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// NewSQLSource wraps an open database
func NewSQLSource(db *gorm.DB) *SQLSource {
	return &SQLSource{DB: db}
}

// Load reads the alliance, requirements and names_map tables in primary key order
func (s *SQLSource) Load(ctx context.Context) (*Dataset, error) {
	db := s.DB.WithContext(ctx)

	for _, model := range []any{&RosterRow{}, &RequirementRecord{}, &NameMapRow{}} {
		if !db.Migrator().HasTable(model) {
			return nil, &LoadError{Dataset: tableName(model), Err: ErrMissing}
		}
	}

	var roster []RosterRow
	if err := db.Order("id").Find(&roster).Error; err != nil {
		return nil, &LoadError{Dataset: "alliance", Err: err}
	}
	if len(roster) == 0 {
		return nil, &LoadError{Dataset: "alliance", Err: ErrEmpty}
	}

	var reqs []RequirementRecord
	if err := db.Order("id").Find(&reqs).Error; err != nil {
		return nil, &LoadError{Dataset: "requirements", Err: err}
	}
	if len(reqs) == 0 {
		return nil, &LoadError{Dataset: "requirements", Err: ErrEmpty}
	}

	var mappings []NameMapRow
	if err := db.Order("id").Find(&mappings).Error; err != nil {
		return nil, &LoadError{Dataset: "names_map", Err: err}
	}
	if len(mappings) == 0 {
		return nil, &LoadError{Dataset: "names_map", Err: ErrEmpty}
	}

	ds := &Dataset{
		Roster:       make([]models.RosterEntry, 0, len(roster)),
		Requirements: make([]models.RequirementRow, 0, len(reqs)),
		Names:        make([]models.NameMapping, 0, len(mappings)),
	}
	for _, r := range roster {
		ds.Roster = append(ds.Roster, models.RosterEntry{
			PlayerName:  r.Name,
			CharacterID: r.CharacterID,
			Power:       r.Power,
			RedStars:    r.RedStars,
			YellowStars: r.Stars,
			GearTier:    r.GearTier,
		})
	}
	for _, r := range reqs {
		ds.Requirements = append(ds.Requirements, models.RequirementRow{
			CharacterName: r.CharacterName,
			Day:           r.Day,
			Mission:       r.Mission,
			StarType:      r.StarType,
			Level:         r.Level,
		})
	}
	for _, m := range mappings {
		ds.Names = append(ds.Names, models.NameMapping{
			CleanName:   m.CleanName,
			CharacterID: m.CharacterID,
		})
	}
	return ds, nil
}

func tableName(v any) string {
	if t, ok := v.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return fmt.Sprintf("%T", v)
}

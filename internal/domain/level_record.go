package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Level int

const (
	LevelGroup    Level = 1
	LevelSubGroup Level = 2
	LevelAccount  Level = 3
)

func (l Level) IsValid() bool {
	return l >= LevelGroup && l <= LevelAccount
}

// RecordKey is the identity of a persisted level record.
type RecordKey struct {
	Code  string
	Level Level
}

type LevelRecord struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Debt      decimal.Decimal
	Credit    decimal.Decimal
	Level     Level
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r LevelRecord) Key() RecordKey {
	return RecordKey{Code: r.Code, Level: r.Level}
}

type TreeNode struct {
	Code     string
	Name     string
	Debt     decimal.Decimal
	Credit   decimal.Decimal
	Level    Level
	Children []TreeNode
}

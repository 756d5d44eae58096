// Package ui provides the entry point of the terminal scorekeeper.
package ui

import (
	"github.com/palemoky/kash-scorekeeper/internal/ui/model"
)

// NewScorekeeper creates the bubbletea model for a local game.
func NewScorekeeper(losingScore int) *model.Model {
	return model.New(losingScore)
}

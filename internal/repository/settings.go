package repository

import (
	"errors"
	"strings"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
)

var ErrSettingsNotFound = errors.New("settings not found")

const listSep = ","

// JoinRegions flattens regions for stores without array columns.
func JoinRegions(regions []string) string {
	return strings.Join(regions, listSep)
}

// SplitRegions reverses JoinRegions.
func SplitRegions(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
}

// JoinQueue flattens a question queue.
func JoinQueue(queue []entities.FlagID) string {
	parts := make([]string, len(queue))
	for i, id := range queue {
		parts[i] = string(id)
	}
	return strings.Join(parts, listSep)
}

// SplitQueue reverses JoinQueue. An empty string is an empty, non-nil queue.
func SplitQueue(s string) []entities.FlagID {
	if s == "" {
		return []entities.FlagID{}
	}

	parts := strings.Split(s, listSep)
	queue := make([]entities.FlagID, len(parts))
	for i, p := range parts {
		queue[i] = entities.FlagID(p)
	}
	return queue
}

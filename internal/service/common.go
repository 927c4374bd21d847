package service

import (
	"math"
	"strings"

	"quiz-quest/internal/domain"
)

func requireAdmin(actor *domain.User) error {
	if actor == nil || !actor.IsAdmin() {
		return domain.NewForbiddenError("Not enough permissions")
	}
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clampLimit applies def when limit is not positive and caps it at max.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

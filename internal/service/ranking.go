package service

import (
	"sort"
	"strings"

	"github.com/mbeoliero/threadly/internal/entity"
)

// DeriveView filters conversations by a case-insensitive name substring and
// orders them most recently opened first. Only the empty query matches all;
// whitespace in the query is part of the substring. Ties keep their input order.
// The input slice is not modified.
func DeriveView(convs []entity.Conversation, query string) []entity.Conversation {
	q := strings.ToLower(query)

	result := make([]entity.Conversation, 0, len(convs))
	for _, c := range convs {
		if query == "" || strings.Contains(strings.ToLower(c.Name), q) {
			result = append(result, c)
		}
	}

	sortByRecency(result)
	return result
}

// RecentContacts returns the n most recently opened conversations; n <= 0 returns all
func RecentContacts(convs []entity.Conversation, n int) []entity.Conversation {
	result := append([]entity.Conversation(nil), convs...)
	sortByRecency(result)
	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

func sortByRecency(convs []entity.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].LastOpenedAt > convs[j].LastOpenedAt
	})
}

package search

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/andrejsstepanovs/collab/models"
)

// Lister fetches every user known to the backend.
type Lister interface {
	Users(ctx context.Context) ([]models.User, error)
}

// Config holds the configuration for a user search.
type Config struct {
	Query string
	Limit int
}

// ParseConfig parses command line arguments into a Config struct.
func ParseConfig(args []string) (*Config, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("at least 1 argument required (query)")
	}

	config := &Config{
		Query: strings.TrimSpace(strings.Join(args, " ")),
	}
	if config.Query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	return config, nil
}

// Run fetches all users and keeps the ones matching the query. Exact
// username matches come first, then username prefixes, then the rest in
// server order. An empty query returns every user.
func Run(ctx context.Context, lister Lister, config *Config) ([]models.User, error) {
	users, err := lister.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching users: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(config.Query))
	results := make([]models.User, 0, len(users))
	for _, u := range users {
		if query == "" || matches(u, query) {
			results = append(results, u)
		}
	}

	slices.SortStableFunc(results, func(a, b models.User) int {
		return rank(a, query) - rank(b, query)
	})

	if config.Limit > 0 && len(results) > config.Limit {
		results = results[:config.Limit]
	}
	return results, nil
}

func rank(u models.User, query string) int {
	username := strings.ToLower(u.Username)
	switch {
	case query == "":
		return 0
	case username == query:
		return 0
	case strings.HasPrefix(username, query):
		return 1
	default:
		return 2
	}
}

func matches(u models.User, query string) bool {
	fields := []string{u.Username, u.Name, u.Email, u.Title, u.Specialization}
	fields = append(fields, u.Skills...)
	fields = append(fields, u.ProgrammingLanguages...)

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

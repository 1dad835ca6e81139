package project

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/andrejsstepanovs/collab/apperrors"
	"github.com/andrejsstepanovs/collab/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTags are attached to every project created from this client.
var DefaultTags = []string{"React Native", "Expo"}

// Store keeps projects in memory, newest first.
type Store struct {
	mu       sync.RWMutex
	projects []models.Project
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add validates the draft and stores it as a new project.
func (s *Store) Add(draft models.ProjectDraft) (models.Project, error) {
	if err := Validate(draft); err != nil {
		return models.Project{}, err
	}

	status := draft.Status
	if status == "" {
		status = models.ProjectActive
	}
	tags := draft.Tags
	if len(tags) == 0 {
		tags = append([]string(nil), DefaultTags...)
	}

	p := models.Project{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(draft.Name),
		Description:  strings.TrimSpace(draft.Description),
		CreatedAt:    s.now(),
		Status:       status,
		Tags:         tags,
		Technologies: draft.Technologies,
		TechStack:    draft.TechStack,
		Languages:    draft.Languages,
		GroupMembers: draft.GroupMembers,
		Duration:     strings.TrimSpace(draft.Duration),
		Type:         strings.TrimSpace(draft.Type),
		Category:     strings.TrimSpace(draft.Category),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append([]models.Project{p}, s.projects...)
	return p, nil
}

// attach sets the document fields of a stored project.
func (s *Store) attach(id string, doc models.RemoteDocument) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i].DocumentURL = doc.ResolvedURL
			s.projects[i].DocumentName = doc.Document.Name
			return s.projects[i], true
		}
	}
	return models.Project{}, false
}

func (s *Store) List() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Project(nil), s.projects...)
}

// Validate checks the fields a project cannot be created without.
func Validate(draft models.ProjectDraft) error {
	var missing []string
	if strings.TrimSpace(draft.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(draft.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(draft.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", apperrors.ErrInvalidProject, strings.Join(missing, ", "))
	}
	return nil
}

// ParseList splits a comma separated input into trimmed, non-empty items.
func ParseList(input string) []string {
	items := []string{}
	for _, item := range strings.Split(input, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Notifier receives the notice about a created project.
type Notifier interface {
	Add(kind models.NotificationType, title, message string) models.Notification
}

// Service creates projects and tells the user about them.
type Service struct {
	store    *Store
	notifier Notifier
	log      zerolog.Logger
}

func NewService(store *Store, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "project").Logger(),
	}
}

// Create stores the draft, attaches doc when given and posts a notification.
func (s *Service) Create(draft models.ProjectDraft, doc *models.RemoteDocument) (models.Project, error) {
	p, err := s.store.Add(draft)
	if err != nil {
		return models.Project{}, err
	}

	if doc != nil {
		if attached, ok := s.store.attach(p.ID, *doc); ok {
			p = attached
		}
	}

	s.notifier.Add(models.NotificationProject, "New Project Created", "You have created a new project: "+p.Name)
	s.log.Debug().Str("id", p.ID).Str("name", p.Name).Bool("document", doc != nil).Msg("project created")
	return p, nil
}

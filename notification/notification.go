package notification

import (
	"sync"
	"time"

	"github.com/andrejsstepanovs/collab/models"
	"github.com/google/uuid"
)

// JustNow is the display time of notifications raised by this process.
const JustNow = "Just now"

// Center holds the notifications of the running session, newest first.
type Center struct {
	mu    sync.Mutex
	items []models.Notification
	now   func() time.Time
}

func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Add records a new unread notification and returns it.
func (c *Center) Add(kind models.NotificationType, title, message string) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Title:     title,
		Message:   message,
		Time:      JustNow,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]models.Notification{n}, c.items...)
	return n
}

func (c *Center) List() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Notification(nil), c.items...)
}

// MarkAsRead reports whether a notification with id exists.
func (c *Center) MarkAsRead(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return true
		}
	}
	return false
}

func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.items {
		if !n.Read {
			count++
		}
	}
	return count
}

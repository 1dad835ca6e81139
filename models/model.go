package models

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
)

// Project is a project record created by the user. It only lives in memory.
type Project struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	CreatedAt    time.Time     `json:"createdAt"`
	Status       ProjectStatus `json:"status"`
	Tags         []string      `json:"tags"`
	Technologies []string      `json:"technologies"`
	TechStack    []string      `json:"techStack"`
	Languages    []string      `json:"languages"`
	GroupMembers []string      `json:"groupMembers"`
	Duration     string        `json:"duration"`
	Type         string        `json:"type"`
	Category     string        `json:"category"`
	DocumentURL  string        `json:"documentUrl,omitempty"`
	DocumentName string        `json:"documentName,omitempty"`
}

// ProjectDraft holds the user supplied fields of a project before it gets an id.
type ProjectDraft struct {
	Name         string
	Description  string
	Status       ProjectStatus
	Tags         []string
	Technologies []string
	TechStack    []string
	Languages    []string
	GroupMembers []string
	Duration     string
	Type         string
	Category     string
}

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationProject NotificationType = "project"
	NotificationMessage NotificationType = "message"
	NotificationSystem  NotificationType = "system"
)

// Notification is an in-memory notice shown to the user.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Time      string           `json:"time"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

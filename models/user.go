package models

// Credentials are sent to POST /auth/signin.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is sent to POST /auth/signup.
type Registration struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     []string `json:"role"`
}

// Credentials returns the sign-in credentials matching the registration.
func (r Registration) Credentials() Credentials {
	return Credentials{Username: r.Username, Password: r.Password}
}

// AuthResponse is the body returned by a successful sign-in.
type AuthResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type,omitempty"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// MessageResponse is the generic {message} body the backend uses for errors and acks.
type MessageResponse struct {
	Message string `json:"message"`
}

type User struct {
	ID                   string   `json:"id"`
	Username             string   `json:"username"`
	Email                string   `json:"email"`
	Name                 string   `json:"name,omitempty"`
	Title                string   `json:"title,omitempty"`
	Course               string   `json:"course,omitempty"`
	Specialization       string   `json:"specialization,omitempty"`
	GraduationYear       string   `json:"graduationYear,omitempty"`
	FrontendTechnologies string   `json:"frontendTechnologies,omitempty"`
	BackendTechnologies  string   `json:"backendTechnologies,omitempty"`
	DatabaseTechnologies string   `json:"databaseTechnologies,omitempty"`
	DevopsTools          string   `json:"devopsTools,omitempty"`
	ProgrammingLanguages []string `json:"programmingLanguages,omitempty"`
	Skills               []string `json:"skills,omitempty"`
	Role                 string   `json:"role,omitempty"`
	Roles                []string `json:"roles,omitempty"`
}

// ProfileUpdate is the editable part of the current user's profile (PUT /users/me).
type ProfileUpdate struct {
	Name                 string   `json:"name,omitempty"`
	Title                string   `json:"title,omitempty"`
	Course               string   `json:"course,omitempty"`
	Specialization       string   `json:"specialization,omitempty"`
	GraduationYear       string   `json:"graduationYear,omitempty"`
	FrontendTechnologies string   `json:"frontendTechnologies,omitempty"`
	BackendTechnologies  string   `json:"backendTechnologies,omitempty"`
	DatabaseTechnologies string   `json:"databaseTechnologies,omitempty"`
	DevopsTools          string   `json:"devopsTools,omitempty"`
	ProgrammingLanguages []string `json:"programmingLanguages,omitempty"`
	Skills               []string `json:"skills,omitempty"`
}

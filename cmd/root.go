package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/andrejsstepanovs/collab/apperrors"
	"github.com/andrejsstepanovs/collab/config"
	"github.com/andrejsstepanovs/collab/file"
	"github.com/andrejsstepanovs/collab/models"
	"github.com/andrejsstepanovs/collab/project"
	"github.com/andrejsstepanovs/collab/search"
	"github.com/andrejsstepanovs/collab/session"
	"github.com/andrejsstepanovs/collab/upload"
	"github.com/spf13/cobra"
)

const (
	routeUsers      session.Route = "/(tabs)/users"
	routeProfile    session.Route = "/(tabs)/profile"
	routePost       session.Route = "/(tabs)/post"
	routePlagiarism session.Route = "/(tabs)/plagiarism"
)

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Sign in and store the session token",
		Args:  cobra.ExactArgs(2),
		Run:   app.handleLogin,
	}
}

func newSignupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <username> <email> <password>",
		Short: "Create an account and sign in with it",
		Args:  cobra.ExactArgs(3),
		Run:   app.handleSignup,
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		Run:   app.handleLogout,
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active",
		Args:  cobra.NoArgs,
		Run:   app.handleStatus,
	}
}

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users [query]",
		Short: "List users, optionally filtered by username, name, email, skills or languages",
		Run:   app.handleUsers,
	}
	cmd.Flags().Int("limit", 0, "maximum number of users to show")
	return cmd
}

func newUserCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		Run:   app.handleUser,
	}
}

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		Run:   app.handleProfile,
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Update your profile. Only the given flags are sent.",
		Args:  cobra.NoArgs,
		Run:   app.handleProfileUpdate,
	}
	f := update.Flags()
	f.String("name", "", "full name")
	f.String("title", "", "title")
	f.String("course", "", "course")
	f.String("specialization", "", "specialization")
	f.String("graduation-year", "", "graduation year")
	f.String("frontend", "", "frontend technologies")
	f.String("backend", "", "backend technologies")
	f.String("database", "", "database technologies")
	f.String("devops", "", "devops tools")
	f.String("languages", "", "comma separated programming languages")
	f.String("skills", "", "comma separated skills")

	cmd.AddCommand(update)
	return cmd
}

func newUploadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a project document",
		Args:  cobra.ExactArgs(1),
		Run:   app.handleUpload,
	}
	cmd.Flags().String("mime", "", "declared MIME type, detected when empty")
	return cmd
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Work with projects",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a project, optionally uploading its document first",
		Args:  cobra.NoArgs,
		Run:   app.handleProjectCreate,
	}
	f := create.Flags()
	f.String("name", "", "project name (required)")
	f.String("description", "", "project details (required)")
	f.String("category", "", "project category (required)")
	f.String("technologies", "", "comma separated technologies")
	f.String("tech-stack", "", "comma separated tech stack")
	f.String("languages", "", "comma separated languages")
	f.String("members", "", "comma separated group members")
	f.String("duration", "", "project duration")
	f.String("type", "", "project type")
	f.String("document", "", "path of a document to upload and attach")

	cmd.AddCommand(create)
	return cmd
}

func newPlagiarismCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plagiarism <file>",
		Short: "Check a document for plagiarism",
		Args:  cobra.ExactArgs(1),
		Run:   app.handlePlagiarism,
	}
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collab",
		Short: "CLI for the Collab project sharing platform",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}
	cmd.PersistentFlags().StringVar(&app.configPath, "config", config.DefaultFile, "config file")
	cmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newLoginCmd(app),
		newSignupCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newUsersCmd(app),
		newUserCmd(app),
		newProfileCmd(app),
		newUploadCmd(app),
		newProjectCmd(app),
		newPlagiarismCmd(app),
	)
	return cmd
}

func (a *App) handleLogin(cmd *cobra.Command, args []string) {
	if !a.enter(session.RouteLogin) {
		return
	}

	creds := models.Credentials{Username: args[0], Password: args[1]}
	if err := a.guard.SignIn(cmd.Context(), creds); err != nil {
		a.fail("Login failed", err)
	}
	fmt.Printf("Signed in as %s\n", creds.Username)
}

func (a *App) handleSignup(cmd *cobra.Command, args []string) {
	if !a.enter(session.RouteSignup) {
		return
	}

	reg := models.Registration{Username: args[0], Email: args[1], Password: args[2]}
	if err := a.guard.SignUp(cmd.Context(), reg); err != nil {
		a.fail("Signup failed", err)
	}
	fmt.Printf("Account created, signed in as %s\n", reg.Username)
}

func (a *App) handleLogout(cmd *cobra.Command, args []string) {
	if err := a.guard.SignOut(cmd.Context()); err != nil {
		a.fail("Logout failed", err)
	}
	fmt.Println("Signed out")
}

func (a *App) handleStatus(cmd *cobra.Command, args []string) {
	fmt.Printf("API: %s\n", a.api.BaseURL())
	if !a.guard.Authenticated() {
		fmt.Println("Not signed in")
		return
	}

	user, err := a.api.CurrentUser(cmd.Context())
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			fmt.Println("Session expired, please sign in again")
			return
		}
		a.fail("Error fetching profile", err)
	}
	fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Email)
}

func (a *App) handleUsers(cmd *cobra.Command, args []string) {
	if !a.enter(routeUsers) {
		return
	}

	query := &search.Config{}
	if len(args) > 0 {
		parsed, err := search.ParseConfig(args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			a.close()
			os.Exit(1)
		}
		query = parsed
	}
	query.Limit = a.intFlag(cmd, "limit")

	users, err := search.Run(cmd.Context(), a.api, query)
	if err != nil {
		a.fail("Error during user search", err)
	}

	fmt.Printf("Found %d users\n", len(users))
	for _, u := range users {
		fmt.Printf("%s \t %s \t %s\n", u.ID, u.Username, u.Email)
	}
}

func (a *App) handleUser(cmd *cobra.Command, args []string) {
	if !a.enter(routeUsers) {
		return
	}

	user, err := a.api.User(cmd.Context(), args[0])
	if err != nil {
		a.fail("Error fetching user", err)
	}
	printUser(user)
}

func (a *App) handleProfile(cmd *cobra.Command, args []string) {
	if !a.enter(routeProfile) {
		return
	}

	user, err := a.api.CurrentUser(cmd.Context())
	if err != nil {
		a.fail("Error fetching profile", err)
	}
	printUser(user)
}

func (a *App) handleProfileUpdate(cmd *cobra.Command, args []string) {
	if !a.enter(routeProfile) {
		return
	}

	f := cmd.Flags()
	str := func(name string) string {
		return strings.TrimSpace(a.stringFlag(cmd, name))
	}
	update := models.ProfileUpdate{
		Name:                 str("name"),
		Title:                str("title"),
		Course:               str("course"),
		Specialization:       str("specialization"),
		GraduationYear:       str("graduation-year"),
		FrontendTechnologies: str("frontend"),
		BackendTechnologies:  str("backend"),
		DatabaseTechnologies: str("database"),
		DevopsTools:          str("devops"),
	}
	if f.Changed("languages") {
		update.ProgrammingLanguages = project.ParseList(str("languages"))
	}
	if f.Changed("skills") {
		update.Skills = project.ParseList(str("skills"))
	}

	res, err := a.api.UpdateProfile(cmd.Context(), update)
	if err != nil {
		a.fail("Error updating profile", err)
	}
	if res.Message != "" {
		fmt.Println(res.Message)
		return
	}
	fmt.Println("Profile updated")
}

func (a *App) handleUpload(cmd *cobra.Command, args []string) {
	if !a.enter(routePost) {
		return
	}

	mimeType := a.stringFlag(cmd, "mime")
	doc := a.upload(cmd.Context(), models.FileRef{Path: args[0], MimeType: mimeType})
	fmt.Printf("Uploaded %s (%d bytes)\n", doc.Document.Name, doc.Document.Size)
	if ext := file.Extension(doc.Document.Name); ext != "" {
		fmt.Printf("Type: %s\n", ext)
	}
	fmt.Printf("URL: %s\n", doc.ResolvedURL)
}

func (a *App) handleProjectCreate(cmd *cobra.Command, args []string) {
	if !a.enter(routePost) {
		return
	}

	str := func(name string) string {
		return a.stringFlag(cmd, name)
	}
	draft := models.ProjectDraft{
		Name:         str("name"),
		Description:  str("description"),
		Category:     str("category"),
		Status:       models.ProjectActive,
		Technologies: project.ParseList(str("technologies")),
		TechStack:    project.ParseList(str("tech-stack")),
		Languages:    project.ParseList(str("languages")),
		GroupMembers: project.ParseList(str("members")),
		Duration:     str("duration"),
		Type:         str("type"),
	}
	if err := project.Validate(draft); err != nil {
		a.fail("Missing Information", err)
	}

	if path := str("document"); path != "" {
		a.upload(cmd.Context(), models.FileRef{Path: path})
	}
	var doc *models.RemoteDocument
	if uploaded, ok := a.uploads.Current(); ok {
		doc = &uploaded
	}

	p, err := a.projects.Create(draft, doc)
	if err != nil {
		a.fail("Failed to create project", err)
	}

	fmt.Printf("Project %s created (%s)\n", p.Name, p.ID)
	if p.DocumentURL != "" {
		fmt.Printf("Document: %s %s\n", p.DocumentName, p.DocumentURL)
	}
	fmt.Printf("%d unread notifications\n", a.notifications.UnreadCount())
	for _, n := range a.notifications.List() {
		fmt.Printf("[%s] %s: %s\n", n.Time, n.Title, n.Message)
		a.notifications.MarkAsRead(n.ID)
	}
}

func (a *App) handlePlagiarism(cmd *cobra.Command, args []string) {
	if !a.enter(routePlagiarism) {
		return
	}

	fmt.Printf("Checking %s\n", args[0])
	res, err := a.checker.Check(cmd.Context(), models.FileRef{Path: args[0]})
	if err != nil {
		a.fail("Plagiarism check failed", err)
	}
	fmt.Printf("Plagiarism score: %.2f%%\n", res.Score)
	fmt.Printf("Original content: %.2f%%\n", res.OriginalContent)
}

func (a *App) upload(ctx context.Context, ref models.FileRef) models.RemoteDocument {
	doc, err := a.uploads.Upload(ctx, ref, func(percent int) {
		fmt.Printf("\rUploading: %3d%%", percent)
		if percent == upload.Complete {
			fmt.Println()
		}
	})
	if err != nil {
		fmt.Println()
		a.fail("Upload Error", err)
	}
	return doc
}

func printUser(u models.User) {
	fmt.Printf("ID:       %s\n", u.ID)
	fmt.Printf("Username: %s\n", u.Username)
	fmt.Printf("Email:    %s\n", u.Email)
	if u.Name != "" {
		fmt.Printf("Name:     %s\n", u.Name)
	}
	if u.Title != "" {
		fmt.Printf("Title:    %s\n", u.Title)
	}
	if u.Course != "" {
		fmt.Printf("Course:   %s\n", u.Course)
	}
	if len(u.ProgrammingLanguages) > 0 {
		fmt.Printf("Languages: %s\n", strings.Join(u.ProgrammingLanguages, ", "))
	}
	if len(u.Skills) > 0 {
		fmt.Printf("Skills:   %s\n", strings.Join(u.Skills, ", "))
	}
}

// Execute initializes and runs the root command. It is the single entry point
// for the command-line interface.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{}
	rootCmd := newRootCmd(app)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra prints the error, so we just need to exit.
		stop()
		os.Exit(1)
	}
}

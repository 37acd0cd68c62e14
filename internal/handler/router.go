package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/middleware"
	"github.com/noah-isme/aie-portal-api/internal/models"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	System        *ConfigurationHandler
	Metrics       *MetricsHandler
	Auth          *AuthHandler
	Users         *UserHandler
	Directory     *DirectoryHandler
	Courses       *CourseHandler
	Timetable     *TimetableHandler
	Assignments   *AssignmentHandler
	Dashboard     *DashboardHandler
	Resources     *ResourceHandler
	Files         *FileHandler
	Projects      *ProjectHandler
	Ideas         *IdeaHandler
	Notifications *NotificationHandler
	Realtime      *RealtimeHandler
	Social        *SocialHandler
	Events        *EventHandler
	Chat          *ChatHandler
	Search        *SearchHandler
	Stats         *StatsHandler
}

// RouterOptions tunes route registration.
type RouterOptions struct {
	// APIPrefix defaults to /api.
	APIPrefix string
	Tokens    middleware.TokenValidator
	// AuthLimiter guards login and registration; nil disables it.
	AuthLimiter gin.HandlerFunc
	// AdminRequiresRole puts the /admin aliases behind an admin token.
	AdminRequiresRole bool
}

// RegisterRoutes mounts the system routes at the root and the portal API under the prefix.
// The bearer token is optional everywhere except the two "me" endpoints and, when
// AdminRequiresRole is set, the /admin aliases.
func RegisterRoutes(r *gin.Engine, h Handlers, opts RouterOptions) {
	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}

	r.GET("/", h.System.Root)
	r.GET("/health", h.System.Health)
	r.GET("/ready", h.System.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix, middleware.OptionalJWT(opts.Tokens))
	requireToken := middleware.JWT(opts.Tokens)

	api.GET("/system/health", h.System.Health)
	api.GET("/system/version", h.System.Version)
	api.GET("/config", h.System.Config)
	api.GET("/announcements", h.System.Announcements)

	auth := api.Group("/auth")
	{
		credentials := []gin.HandlerFunc{}
		if opts.AuthLimiter != nil {
			credentials = append(credentials, opts.AuthLimiter)
		}
		auth.POST("/login", append(credentials, h.Auth.Login)...)
		auth.POST("/register", append(credentials, h.Auth.Register)...)
		auth.GET("/me", requireToken, h.Auth.Me)
		auth.GET("/user/:id", h.Auth.User)
	}

	users := api.Group("/users")
	{
		users.GET("", h.Users.List)
		users.GET("/me", requireToken, h.Users.Me)
		users.PUT("/me", requireToken, h.Users.UpdateMe)
		users.GET("/stats", h.Users.Stats)
		users.GET("/preferences", h.Users.Preferences)
		users.GET("/search", h.Users.Search)
		users.GET("/:id", h.Users.Get)
		users.GET("/:id/stats", h.Users.ActivityStats)
	}

	departments := api.Group("/departments")
	{
		departments.GET("", h.Directory.Departments)
		departments.GET("/:id", h.Directory.Department)
		departments.GET("/:id/courses", h.Directory.Courses)
		departments.GET("/:id/faculty", h.Directory.Faculty)
	}
	api.GET("/class-list", h.Directory.Classes)

	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.List)
		courses.GET("/:id", h.Courses.Get)
		courses.GET("/:id/overview", h.Courses.Overview)
		courses.GET("/:id/students", h.Courses.Students)
		courses.POST("/:id/enroll", h.Courses.Enroll)
		courses.DELETE("/:id/enroll", h.Courses.Unenroll)
	}

	classes := api.Group("/classes")
	{
		classes.GET("", h.Timetable.List)
		classes.GET("/today", h.Timetable.Today)
		classes.GET("/week", h.Timetable.Week)
		classes.GET("/week/export", h.Timetable.Export)
		classes.GET("/month", h.Timetable.Month)
		classes.GET("/current", h.Timetable.Current)
		classes.GET("/next", h.Timetable.Next)
		classes.GET("/date/:date", h.Timetable.OnDate)
		classes.GET("/course/:course_id", h.Timetable.ByCourse)
		classes.GET("/:id", h.Timetable.Get)
		classes.POST("", h.Timetable.Create)
		classes.PUT("/:id", h.Timetable.Update)
		classes.DELETE("/:id", h.Timetable.Delete)
	}

	saturday := api.Group("/saturday-class")
	{
		saturday.GET("", h.Timetable.Overrides)
		saturday.POST("", h.Timetable.CreateOverride)
		saturday.PUT("/:id", h.Timetable.UpdateOverride)
		saturday.DELETE("/:id", h.Timetable.DeleteOverride)
	}

	admin := api.Group("/admin")
	if opts.AdminRequiresRole {
		admin.Use(requireToken, middleware.RequireRoles(models.RoleAdmin))
	}
	{
		admin.POST("/timetable", h.Timetable.CreateAdmin)
		admin.POST("/saturday-class", h.Timetable.CreateOverride)
	}

	assignments := api.Group("/assignments")
	{
		assignments.GET("", h.Assignments.List)
		assignments.GET("/upcoming", h.Assignments.Upcoming)
		assignments.GET("/overdue", h.Assignments.Overdue)
		assignments.GET("/my", h.Assignments.My)
		assignments.GET("/course/:course_id", h.Assignments.ByCourse)
		assignments.GET("/:id", h.Assignments.Get)
		assignments.POST("", h.Assignments.Create)
		assignments.PUT("/:id", h.Assignments.Update)
		assignments.DELETE("/:id", h.Assignments.Delete)
		assignments.POST("/:id/submit", h.Assignments.Submit)
		assignments.GET("/:id/submission", h.Assignments.Submission)
		assignments.PUT("/:id/submission", h.Assignments.UpdateSubmission)
		assignments.DELETE("/:id/submission", h.Assignments.DeleteSubmission)
	}

	api.GET("/dashboard", h.Dashboard.Get)

	resources := api.Group("/resources")
	{
		resources.GET("", h.Resources.List)
		resources.GET("/my", h.Resources.My)
		resources.GET("/search", h.Resources.Search)
		resources.GET("/filter", h.Resources.Filter)
		resources.GET("/course/:course_id", h.Resources.ByCourse)
		resources.GET("/:id", h.Resources.Get)
		resources.GET("/:id/stats", h.Resources.Stats)
		resources.POST("/:id/download", h.Resources.Download)
		resources.POST("", h.Resources.Create)
		resources.PUT("/:id", h.Resources.Update)
		resources.DELETE("/:id", h.Resources.Delete)
	}

	files := api.Group("/files")
	{
		files.GET("", h.Files.List)
		files.GET("/search", h.Files.Search)
		files.GET("/filter", h.Files.Filter)
		files.GET("/course/:course_id", h.Files.ByCourse)
		files.GET("/download/:token", h.Files.Stream)
		files.GET("/:id", h.Files.Get)
		files.GET("/:id/download", h.Files.DownloadLink)
		files.POST("/upload", h.Files.Upload)
		files.PUT("/:id", h.Files.Update)
		files.DELETE("/:id", h.Files.Delete)
	}

	api.GET("/project-types", h.Projects.Types)
	projects := api.Group("/projects")
	{
		projects.GET("", h.Projects.List)
		projects.GET("/filter", h.Projects.List)
		projects.GET("/:id", h.Projects.Get)
		projects.GET("/:id/members", h.Projects.Members)
		projects.POST("", h.Projects.Create)
		projects.PUT("/:id", h.Projects.Update)
		projects.PUT("/:id/progress", h.Projects.Progress)
		projects.DELETE("/:id", h.Projects.Delete)
		projects.POST("/:id/members", h.Projects.AddMember)
		projects.DELETE("/:id/members/:user_id", h.Projects.RemoveMember)
	}

	ideas := api.Group("/ideas")
	{
		ideas.GET("", h.Ideas.List)
		ideas.GET("/search", h.Ideas.Search)
		ideas.GET("/filter", h.Ideas.Filter)
		ideas.GET("/tags", h.Ideas.Tags)
		ideas.GET("/:id", h.Ideas.Get)
		ideas.POST("", h.Ideas.Create)
		ideas.PUT("/:id", h.Ideas.Update)
		ideas.DELETE("/:id", h.Ideas.Delete)
		ideas.PUT("/:id/favorite", h.Ideas.Favorite)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notifications.List)
		notifications.GET("/unread", h.Notifications.Unread)
		notifications.GET("/unread-count", h.Notifications.UnreadCount)
		notifications.GET("/settings", h.Users.NotificationSettings)
		notifications.PUT("/read-all", h.Notifications.MarkAllRead)
		notifications.PUT("/:id/read", h.Notifications.MarkRead)
		notifications.DELETE("/:id", h.Notifications.Delete)
	}
	api.GET("/ws", h.Realtime.Connect)

	friendRequests := api.Group("/friend-requests")
	{
		friendRequests.POST("", h.Social.SendRequest)
		friendRequests.GET("/sent/:user_id", h.Social.SentRequests)
		friendRequests.GET("/:user_id", h.Social.Requests)
		friendRequests.PUT("/:request_id", h.Social.Respond)
	}
	api.GET("/friends/:user_id", h.Social.Friends)
	api.GET("/conversations/:user_id", h.Social.Conversations)
	messages := api.Group("/messages")
	{
		messages.POST("", h.Social.SendMessage)
		messages.PUT("/mark-read", h.Social.MarkRead)
		messages.GET("/:user_id/:friend_id", h.Social.Messages)
	}

	events := api.Group("/events")
	{
		events.GET("", h.Events.List)
		events.GET("/my", h.Events.My)
		events.GET("/:id", h.Events.Get)
		events.POST("", h.Events.Create)
		events.PUT("/:id", h.Events.Update)
		events.DELETE("/:id", h.Events.Delete)
	}
	api.GET("/calendar/:year/:month", h.Events.Calendar)
	api.GET("/calendar/:year/:month/ics", h.Events.ICS)

	chat := api.Group("/chat/conversations")
	{
		chat.GET("", h.Chat.Conversations)
		chat.GET("/:id", h.Chat.Conversation)
		chat.GET("/:id/messages", h.Chat.Messages)
	}

	search := api.Group("/search")
	{
		search.GET("/global", h.Search.Global)
		search.GET("/courses", h.Search.Courses)
		search.GET("/assignments", h.Search.Assignments)
		search.GET("/resources", h.Search.Resources)
		search.GET("/suggestions", h.Search.Suggestions)
		search.GET("/history", h.Search.History)
		search.GET("/users", h.Users.Search)
	}
	api.GET("/quick-access", h.Search.QuickAccess)
	api.GET("/bookmarks", h.Search.Bookmarks)
	api.GET("/activity", h.Search.Activity)

	stats := api.Group("/stats")
	{
		stats.GET("/overview", h.Stats.Overview)
		stats.GET("/assignments", h.Stats.Assignments)
		stats.GET("/academic", h.Stats.Academic)
		stats.GET("/resources", h.Stats.Resources)
		stats.GET("/projects", h.Stats.Projects)
		stats.GET("/timeline", h.Stats.Timeline)
	}
}

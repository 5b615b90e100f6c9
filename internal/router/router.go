// Package router wires the HTTP surface onto a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autoecole-app/autoecole-api/internal/handler"
	"github.com/autoecole-app/autoecole-api/internal/middleware"
	"github.com/autoecole-app/autoecole-api/internal/service"
)

// Handlers groups every handler attached to the API.
type Handlers struct {
	Schools        *handler.SchoolHandler
	Instructors    *handler.InstructorHandler
	Clients        *handler.ClientHandler
	TimeSlots      *handler.TimeSlotHandler
	Reservations   *handler.ReservationHandler
	Courses        *handler.CourseHandler
	Communications *handler.CommunicationHandler
	PracticeTests  *handler.PracticeTestHandler
	Diagnostics    *handler.DiagnosticHandler
	Exports        *handler.ExportHandler
}

// Register mounts all routes under the given API prefix.
func Register(r *gin.Engine, prefix string, h Handlers, metrics *service.MetricsService) {
	r.Use(middleware.Metrics(metrics))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group(prefix)

	schools := api.Group("/auto-ecoles")
	schools.GET("", h.Schools.List)
	schools.GET("/:id", h.Schools.Get)
	schools.GET("/:id/statistiques", h.Schools.Statistics)
	schools.POST("", h.Schools.Create)
	schools.PUT("/:id", h.Schools.Update)
	schools.DELETE("/:id", h.Schools.Delete)

	instructors := api.Group("/moniteurs")
	instructors.GET("", h.Instructors.List)
	instructors.GET("/:id", h.Instructors.Get)
	instructors.POST("", h.Instructors.Create)
	instructors.PUT("/:id", h.Instructors.Update)
	instructors.PUT("/:id/availability", h.Instructors.SetAvailability)
	instructors.DELETE("/:id", h.Instructors.Delete)

	clients := api.Group("/clients")
	clients.GET("", h.Clients.List)
	clients.GET("/:id", h.Clients.Get)
	clients.POST("", h.Clients.Create)
	clients.PUT("/:id", h.Clients.Update)
	clients.DELETE("/:id", h.Clients.Delete)

	slots := api.Group("/time-slots")
	slots.POST("", h.TimeSlots.Create)
	slots.GET("/moniteur/:moniteurId", h.TimeSlots.ListByInstructor)
	slots.GET("/moniteur/:moniteurId/range", h.TimeSlots.ListByRange)
	slots.GET("/moniteur/:moniteurId/calendar", h.TimeSlots.Calendar)
	slots.PUT("/:id/status", h.TimeSlots.UpdateStatus)
	slots.DELETE("/:id", h.TimeSlots.Delete)

	reservations := api.Group("/reservations")
	reservations.POST("", h.Reservations.Create)
	reservations.GET("/:id", h.Reservations.Get)
	reservations.PUT("/:id/accept", h.Reservations.Accept)
	reservations.PUT("/:id/cancel", h.Reservations.Cancel)
	reservations.PUT("/:id/status", h.Reservations.UpdateStatus)
	reservations.GET("/client/:clientId", h.Reservations.ByClient)
	reservations.GET("/moniteur/:moniteurId", h.Reservations.ByInstructor)
	reservations.GET("/upcoming", h.Reservations.Upcoming)
	reservations.GET("/search", h.Reservations.Search)
	reservations.GET("/available-slots/:moniteurId", h.Reservations.AvailableSlots)

	courses := api.Group("/cours")
	courses.GET("", h.Courses.List)
	courses.GET("/upcoming", h.Courses.ListUpcoming)
	courses.GET("/moniteur/:moniteurId", h.Courses.ListByInstructor)
	courses.GET("/type/:type", h.Courses.ListByType)
	courses.GET("/progression/:clientId", h.Courses.TheoryProgress)
	courses.GET("/:id", h.Courses.Get)
	courses.POST("", h.Courses.Create)
	courses.PUT("/:id", h.Courses.Update)
	courses.POST("/:id/inscription", h.Courses.Enroll)
	courses.POST("/:id/vue", h.Courses.RecordView)

	communications := api.Group("/communications")
	communications.POST("", h.Communications.OpenThread)
	communications.GET("/ouvertes", h.Communications.OpenThreads)
	communications.GET("/client/:clientId", h.Communications.ThreadsByClient)
	communications.GET("/:id", h.Communications.GetThread)
	communications.PUT("/:id/fermer", h.Communications.CloseThread)
	communications.PUT("/:id/lu", h.Communications.MarkThreadRead)
	communications.GET("/:id/messages", h.Communications.Messages)
	communications.POST("/:id/messages", h.Communications.PostMessage)

	messages := api.Group("/messages")
	messages.GET("/non-lus", h.Communications.UnreadFromClients)
	messages.PUT("/:id/lu", h.Communications.MarkMessageRead)

	tests := api.Group("/tests-blancs")
	tests.GET("", h.PracticeTests.List)
	tests.GET("/:id", h.PracticeTests.Get)
	tests.POST("", h.PracticeTests.Create)
	tests.DELETE("/:id", h.PracticeTests.Delete)
	tests.GET("/:id/questions", h.PracticeTests.Questions)
	tests.POST("/:id/questions", h.PracticeTests.AddQuestion)
	tests.DELETE("/:id/questions/:questionId", h.PracticeTests.RemoveQuestion)
	tests.POST("/:id/soumettre", h.PracticeTests.Submit)
	tests.GET("/:id/resultats", h.PracticeTests.ResultsByTest)

	results := api.Group("/resultats")
	results.GET("/client/:clientId", h.PracticeTests.ResultsByClient)
	results.GET("/client/:clientId/test/:testId", h.PracticeTests.ResultsByClientAndTest)

	diagnostics := api.Group("/diagnostics")
	diagnostics.POST("/client/:clientId", h.Diagnostics.Generate)
	diagnostics.GET("/client/:clientId", h.Diagnostics.History)
	diagnostics.GET("/client/:clientId/dernier", h.Diagnostics.Latest)

	api.GET("/export/planning/:moniteurId", h.Exports.Schedule)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})
}

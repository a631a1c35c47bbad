package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/auth"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	ProfileUC  *usecase.ProfileUseCase
	ShiftUC    *usecase.ShiftUseCase
	TrainingUC *usecase.TrainingUseCase
	DocumentUC *usecase.DocumentUseCase
	PaymentUC  *usecase.PaymentUseCase
}

// Router registra las rutas de la API. Las rutas estáticas de cada grupo se
// registran antes que las de parámetro (/:id).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authed := AuthMiddleware(deps.AuthUC)
	admin := RequireAdmin()

	// Auth (público salvo logout)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify-phone", authHandler.VerifyPhone)
	authGroup.Post("/resend-verification", authHandler.ResendVerification)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh-token", authHandler.Refresh)
	authGroup.Post("/request-password-reset", authHandler.RequestPasswordReset)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/logout", authed, authHandler.Logout)

	// Webhook de pagos: público, autenticado por firma. Va antes del grupo protegido.
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	api.Post("/payments/webhook", paymentHandler.Webhook)

	// Users
	userHandler := NewUserHandler(deps.UserUC, deps.DocumentUC)
	users := api.Group("/users", authed)
	users.Post("/device-tokens", userHandler.AddDeviceToken)
	users.Delete("/device-tokens", userHandler.RemoveDeviceToken)
	users.Get("/", admin, userHandler.List)
	users.Post("/", admin, userHandler.Create)
	users.Get("/:id", admin, userHandler.GetByID)
	users.Put("/:id", admin, userHandler.Update)
	users.Delete("/:id", admin, userHandler.Delete)
	users.Get("/:id/documents", admin, userHandler.Documents)

	// Profile
	profileHandler := NewProfileHandler(deps.ProfileUC)
	profile := api.Group("/profile", authed)
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Update)
	profile.Post("/photo", profileHandler.UploadPhoto)
	profile.Get("/export", profileHandler.Export)
	profile.Post("/references", profileHandler.AddReference)
	profile.Put("/work-history", profileHandler.ReplaceWorkHistory)
	profile.Put("/preferences", profileHandler.UpdatePreferences)

	// Payments
	payments := api.Group("/payments", authed)
	payments.Get("/bank-details", profileHandler.GetBankDetails)
	payments.Put("/bank-details", profileHandler.UpdateBankDetails)
	payments.Get("/history", paymentHandler.History)
	payments.Get("/history/:id", paymentHandler.GetByID)
	payments.Post("/create-payment-intent", paymentHandler.CreateIntent)
	payments.Get("/summary", admin, paymentHandler.Summary)
	payments.Post("/shifts/:id", admin, paymentHandler.RecordShiftPayment)
	payments.Post("/:id/refund", admin, paymentHandler.Refund)

	// Shifts
	shiftHandler := NewShiftHandler(deps.ShiftUC)
	shifts := api.Group("/shifts", authed)
	shifts.Get("/", shiftHandler.List)
	shifts.Get("/mine", shiftHandler.Mine)
	shifts.Get("/availability/:date", shiftHandler.Availability)
	shifts.Get("/export", admin, shiftHandler.Export)
	shifts.Post("/", admin, shiftHandler.Create)
	shifts.Get("/:id", shiftHandler.GetByID)
	shifts.Put("/:id", admin, shiftHandler.Update)
	shifts.Delete("/:id", admin, shiftHandler.Delete)
	shifts.Post("/:id/assign", admin, shiftHandler.Assign)
	shifts.Post("/:id/book", RequireRole(entity.JobRoles...), shiftHandler.Book)
	shifts.Post("/:id/unassign", shiftHandler.Unassign)
	shifts.Post("/:id/cancel", admin, shiftHandler.Cancel)
	shifts.Post("/:id/check-in", shiftHandler.CheckIn)
	shifts.Post("/:id/location", shiftHandler.UpdateLocation)
	shifts.Post("/:id/check-out", shiftHandler.CheckOut)

	// Training
	trainingHandler := NewTrainingHandler(deps.TrainingUC)
	training := api.Group("/training", authed)
	training.Get("/courses", trainingHandler.ListCourses)
	training.Post("/courses", admin, trainingHandler.CreateCourse)
	training.Get("/courses/:id", trainingHandler.GetCourse)
	training.Put("/courses/:id", admin, trainingHandler.UpdateCourse)
	training.Delete("/courses/:id", admin, trainingHandler.DeleteCourse)
	training.Post("/courses/:id/enroll", trainingHandler.Enroll)
	training.Get("/enrollments", trainingHandler.MyEnrollments)
	training.Post("/enrollments/:id/withdraw", trainingHandler.Withdraw)
	training.Put("/enrollments/:id/progress", trainingHandler.UpdateProgress)
	training.Get("/enrollments/:id/certificate", trainingHandler.Certificate)
	training.Get("/history", trainingHandler.History)

	// Documents
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	documents := api.Group("/documents", authed)
	documents.Post("/upload", documentHandler.Upload)
	documents.Get("/", documentHandler.List)
	documents.Get("/types", documentHandler.Types)
	documents.Get("/required", documentHandler.Required)
	documents.Get("/status", documentHandler.Status)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Get("/:id/download", documentHandler.Download)
	documents.Delete("/:id", documentHandler.Delete)
	documents.Put("/:id/status", admin, documentHandler.Review)
}

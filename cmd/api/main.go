package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/whizkidefos/employee-management-api/internal/application/auth"
	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/cache"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/email"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/fcm"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/maps"
	infrapdf "github.com/whizkidefos/employee-management-api/internal/infrastructure/pdf"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/persistence"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/realtime"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/storage"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/stripe"
	"github.com/whizkidefos/employee-management-api/internal/infrastructure/twilio"
	httpRouter "github.com/whizkidefos/employee-management-api/internal/interfaces/http"
	"github.com/whizkidefos/employee-management-api/internal/jobs"
	"github.com/whizkidefos/employee-management-api/pkg/config"
	"github.com/whizkidefos/employee-management-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := persistence.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}

	// Almacenamiento de archivos: MinIO/S3 con credenciales, disco local si no.
	var files ports.FileStore
	var localUploads string
	if cfg.Storage.UseObjectStore() {
		objects, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de almacenamiento")
		}
		if err := objects.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("bucket de almacenamiento")
		}
		files = objects
	} else {
		local, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.App.BaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("directorio de subidas")
		}
		files = local
		localUploads = local.Root()
		log.Warn().Str("dir", localUploads).Msg("almacenamiento local: STORAGE_ACCESS_KEY no definido")
	}

	// Canales externos opcionales. Un puerto sin configurar queda como interfaz nil.
	var (
		mailer   ports.EmailSender
		sms      ports.SMSSender
		verifier ports.PhoneVerifier
		push     ports.PushSender
		geocoder ports.Geocoder
		gateway  ports.PaymentGateway
		idem     ports.IdempotencyStore
	)
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPSender(cfg.SMTP)
	} else {
		mailer = email.NewLogSender(log.Component("email"))
	}
	if cfg.Twilio.Enabled() {
		tw := twilio.NewClient(cfg.Twilio)
		if cfg.Twilio.FromNumber != "" {
			sms = tw
		}
		if cfg.Twilio.VerifyServiceSID != "" {
			verifier = tw
		}
	}
	if cfg.FCM.CredentialsFile != "" {
		fc, err := fcm.NewClient(ctx, cfg.FCM)
		if err != nil {
			log.Error().Err(err).Msg("FCM deshabilitado")
		} else {
			push = fc
		}
	}
	if cfg.Maps.APIKey != "" {
		gc, err := maps.NewGeocoder(cfg.Maps.APIKey)
		if err != nil {
			log.Error().Err(err).Msg("geocodificación deshabilitada")
		} else {
			geocoder = gc
		}
	}
	if cfg.Stripe.Enabled() {
		gateway = stripe.NewGateway(cfg.Stripe)
	}
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("Redis no disponible; deduplicación de webhooks por base de datos")
		} else {
			idem = cache.NewIdempotencyStore(redisClient)
		}
	}
	log.Info().
		Bool("sms", sms != nil).
		Bool("verify", verifier != nil).
		Bool("push", push != nil).
		Bool("smtp", cfg.SMTP.Host != "").
		Bool("geocoding", geocoder != nil).
		Bool("payments", gateway != nil).
		Bool("redis", idem != nil).
		Msg("integraciones externas")

	// El hub debe existir antes que el dispatcher que lo usa.
	hub := realtime.NewHub(log.Component("realtime"))
	dispatcher := notification.NewDispatcher(repos.Users, notification.Channels{
		Realtime: hub,
		Email:    mailer,
		SMS:      sms,
		Push:     push,
	}, log.Component("dispatcher"))

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	authUC := auth.NewAuthUseCase(repos.Users, verifier, mailer, auth.JWTConfig{
		AccessSecret:   cfg.JWT.AccessSecret,
		RefreshSecret:  cfg.JWT.RefreshSecret,
		ResetSecret:    cfg.JWT.ResetSecret,
		AccessMinutes:  cfg.JWT.AccessMinutes,
		RefreshMinutes: cfg.JWT.RefreshMinutes,
		ResetMinutes:   cfg.JWT.ResetMinutes,
		Issuer:         cfg.JWT.Issuer,
		ClientURL:      cfg.App.ClientURL,
	}, log.Component("auth"))
	userUC := usecase.NewUserUseCase(repos.Users)
	profileUC := usecase.NewProfileUseCase(repos.Users, files, pdfGenerator, log.Component("profile"))
	shiftUC := usecase.NewShiftUseCase(repos.Shifts, repos.Users, dispatcher, geocoder, pdfGenerator, log.Component("shifts"))
	trainingUC := usecase.NewTrainingUseCase(usecase.TrainingDeps{
		Courses:     repos.Courses,
		Enrollments: repos.Enrollments,
		Users:       repos.Users,
		Gateway:     gateway,
		Files:       files,
		PDF:         pdfGenerator,
		Notifier:    dispatcher,
		Currency:    cfg.Stripe.Currency,
	}, log.Component("training"))
	documentUC := usecase.NewDocumentUseCase(repos.Documents, repos.Users, files, dispatcher, log.Component("documents"))
	paymentUC := usecase.NewPaymentUseCase(usecase.PaymentDeps{
		Payments:    repos.Payments,
		Shifts:      repos.Shifts,
		Enrollments: repos.Enrollments,
		Gateway:     gateway,
		Idempotency: idem,
		Notifier:    dispatcher,
		Currency:    cfg.Stripe.Currency,
	}, log.Component("payments"))

	scheduler := jobs.NewScheduler(documentUC, cfg.Jobs.ExpirySpec, cfg.Jobs.ExpiryReminderDays, log.Component("jobs"))
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Jobs.ExpirySpec).Msg("programar tareas")
	}

	wsServer := realtime.NewServer(cfg.WS.Addr(), hub, authUC, cfg.WS.AllowedOrigins, log.Component("realtime"))
	go func() {
		if err := wsServer.ListenAndServe(); err != nil {
			log.Error().Err(err).Msg("servidor WebSocket finalizado")
		}
	}()

	httpLog := log.Component("http")
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(cfg.App.IsDevelopment(), httpLog),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(httpLog))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Stripe-Signature, X-Request-Id",
	}))

	// Swagger UI en /swagger solo si se generó la especificación.
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "swagger",
			Title:    "Employee Management API",
		}))
	}
	if localUploads != "" {
		app.Static("/uploads", localUploads)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": cfg.App.Name,
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		ProfileUC:  profileUC,
		ShiftUC:    shiftUC,
		TrainingUC: trainingUC,
		DocumentUC: documentUC,
		PaymentUC:  paymentUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("apagado del servidor WebSocket")
	}
	scheduler.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	repos.Close(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}

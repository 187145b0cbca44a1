package bootstrap

import (
	"log"

	"characterhub-be/internal/config"
	"characterhub-be/internal/controller"
	"characterhub-be/internal/pkg/logger"
	"characterhub-be/internal/repository/memory"
	"characterhub-be/internal/repository/unitofwork"
	"characterhub-be/internal/service"
	"characterhub-be/pkg/blobstore"

	pkgNats "characterhub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CharacterController controller.ICharacterController
	OAuthController     controller.IOAuthController
	UserController      controller.IUserController

	// Background services (run from main)
	MediaCleanupService service.IMediaCleanupService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Blob store
	blobClient, err := blobstore.NewS3Client(blobstore.Config{
		Region:          cfg.Blob.Region,
		Bucket:          cfg.Blob.Bucket,
		AccessKeyID:     cfg.Blob.AccessKeyID,
		SecretAccessKey: cfg.Blob.SecretAccessKey,
		Endpoint:        cfg.Blob.Endpoint,
		UsePathStyle:    cfg.Blob.UsePathStyle,
		PresignDuration: cfg.Blob.PresignExpiry,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize blob store client: %v", err)
	}

	// NATS publisher is optional; services tolerate a nil publisher.
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// In-memory OAuth state storage
	stateRepo := memory.NewOAuthStateRepository()

	// Services
	uploadService := service.NewUploadService(blobClient, cfg.Blob.PublicBaseURL)
	publisherService := service.NewPublisherService(pubSub, cfg.App.MediaCleanupTopic)
	mediaCleanupService := service.NewMediaCleanupService(
		pubSub,
		cfg.App.MediaCleanupTopic,
		blobClient,
		sysLogger,
	)

	characterService := service.NewCharacterService(
		uowFactory,
		uploadService,
		publisherService,
		natsPub,
	)
	userService := service.NewUserService(uowFactory)
	oauthService := service.NewOAuthService(
		uowFactory,
		stateRepo,
		service.OAuthConfig{
			GoogleClientID:     cfg.OAuth.GoogleClientID,
			GoogleClientSecret: cfg.OAuth.GoogleClientSecret,
			GoogleRedirectURL:  cfg.OAuth.GoogleRedirectURL,
			JWTSecret:          cfg.JWT.Secret,
		},
		sysLogger,
	)

	return &Container{
		CharacterController: controller.NewCharacterController(characterService),
		OAuthController:     controller.NewOAuthController(oauthService, cfg.App.ClientURL),
		UserController:      controller.NewUserController(userService),

		MediaCleanupService: mediaCleanupService,

		Logger: sysLogger,
	}
}

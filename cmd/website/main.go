package main

import (
	"context"
	"embed"
	"encoding/gob"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/mvicenzino/kidzart/cmd/website/internal/account"
	"github.com/mvicenzino/kidzart/cmd/website/internal/artworks"
	"github.com/mvicenzino/kidzart/cmd/website/internal/cache"
	"github.com/mvicenzino/kidzart/cmd/website/internal/children"
	"github.com/mvicenzino/kidzart/cmd/website/internal/configuration"
	"github.com/mvicenzino/kidzart/cmd/website/internal/home"
	"github.com/mvicenzino/kidzart/cmd/website/internal/prints"
	"github.com/mvicenzino/kidzart/pkg/collection"
	"github.com/mvicenzino/kidzart/pkg/database"
	"github.com/mvicenzino/kidzart/pkg/importer"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/seed"
	"github.com/mvicenzino/kidzart/pkg/services"
	"github.com/rfberaldo/sqlz"
)

var (
	Version string = "development"
	appName string = "kidzart"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	artworkService     services.ArtworkServicer
	childService       services.ChildServicer
	db                 *sqlz.DB
	emailService       services.EmailServicer
	fulfillmentService services.FulfillmentServicer
	imageService       services.ImageServicer
	parentService      services.ParentServicer
	paymentVerifier    services.PaymentVerifier
	portfolioService   *services.PortfolioService
	remoteCatalog      services.RemoteCatalogServicer
	renderer           rendering.TemplateRenderer
	sessionService     sessions.Session[*models.Parent]
	thumbnailCreator   cache.ThumbnailCreator
	uploadService      services.UploadServicer

	/* Controllers */
	accountController  account.AccountController
	artworksController artworks.ArtworksController
	childrenController children.ChildrenController
	homeController     home.HomeController
	printsController   prints.PrintsController
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	setupStatus := config.SetupStatus()

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("dbDriver", config.DBDriver),
		slog.String("awsEndpointUrl", config.AwsEndpointUrl),
		slog.String("awsRegion", config.AwsRegion),
		slog.Bool("fulfillmentReady", setupStatus.FulfillmentReady),
		slog.Bool("emailReady", setupStatus.EmailReady),
		slog.Bool("remoteCatalogReady", setupStatus.RemoteCatalogReady),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	if db, err = database.Connect(config.DBDriver, config.DSN); err != nil {
		panic(err)
	}

	if err = database.Migrate(db, config.DBDriver); err != nil {
		panic(err)
	}

	gob.Register(&models.Parent{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*models.Parent](cookieStore, "kidzart", "parent")

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		panic(err)
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	ids := collection.NewIDGenerator(nil)

	collections := services.NewCollectionRegistry(services.CollectionRegistryConfig{
		IDs:     ids,
		Records: services.NewRecordService(services.RecordServiceConfig{DB: db}),
	})

	artworkService = services.NewArtworkService(services.ArtworkServiceConfig{
		Collections: collections,
		Seed:        seed.Artworks(),
	})

	childService = services.NewChildService(services.ChildServiceConfig{
		Collections: collections,
		Normalizer:  importer.NewNormalizer(importer.NormalizerConfig{IDs: ids}),
	})

	parentService = services.NewParentService(services.ParentServiceConfig{
		DB: db,
	})

	if config.PublishToCatalog {
		remoteCatalog = services.NewRemoteCatalogService(services.RemoteCatalogServiceConfig{
			DB:  db,
			IDs: ids,
		})
	}

	imageService = services.NewImageService(services.ImageServiceConfig{
		Bucket:        config.AwsBucket,
		Folder:        config.ArtworkFolder,
		PublicBaseURL: config.ImageBaseURL,
		S3Client:      s3Client,
	})

	uploadService = services.NewUploadService(services.UploadServiceConfig{
		ArtworkService: artworkService,
		ChildService:   childService,
		ImageService:   imageService,
		RemoteCatalog:  remoteCatalog,
	})

	fulfillmentService = services.NewFulfillmentService(services.FulfillmentServiceConfig{
		APIURL: config.PrintfulApiURL,
		APIKey: config.PrintfulApiKey,
	})

	paymentVerifier = services.NewDemoPaymentService()

	emailService = services.NewEmailService(services.EmailServiceConfig{
		ApiKey:    config.EmailApiKey,
		FromName:  config.EmailFromName,
		FromEmail: config.EmailFromAddress,
	})

	portfolioService = services.NewPortfolioService(services.PortfolioServiceConfig{
		ArtworkService:  artworkService,
		BaseDownloadURL: config.DownloadBaseURL,
		Bucket:          config.AwsBucket,
		ChildService:    childService,
		EmailService:    emailService,
		ExpirationDays:  config.DownloadExpirationDays,
		Folder:          config.ArtworkFolder,
		ParentService:   parentService,
		S3Client:        s3Client,
	})

	thumbnailCreator = cache.NewThumbnailCreatorService(cache.ThumbnailCreatorConfig{
		ArtworkService: artworkService,
		AwsBucket:      config.AwsBucket,
		AwsRegion:      config.AwsRegion,
		Folder:         config.ArtworkFolder,
		MaxWorkers:     config.MaxThumbnailWorkers,
		OrphanAge:      24 * time.Hour,
		ParentService:  parentService,
		PublicBaseURL:  config.ImageBaseURL,
		S3Client:       s3Client,
		ShutdownCtx:    shutdownCtx,
	})

	/*
	 * Setup controllers
	 */
	accountController = account.NewAccountController(account.AccountControllerConfig{
		ParentService:  parentService,
		Renderer:       renderer,
		SessionService: sessionService,
	})

	artworksController = artworks.NewArtworksController(artworks.ArtworksControllerConfig{
		ArtworkService: artworkService,
		ChildService:   childService,
		RemoteCatalog:  remoteCatalog,
		Renderer:       renderer,
		UploadService:  uploadService,
	})

	childrenController = children.NewChildrenController(children.ChildrenControllerConfig{
		ArtworkService:   artworkService,
		Bucket:           config.AwsBucket,
		ChildService:     childService,
		PortfolioService: portfolioService,
		Renderer:         renderer,
		S3Client:         s3Client,
	})

	homeController = home.NewHomeController(home.HomeControllerConfig{
		ArtworkService: artworkService,
		Renderer:       renderer,
	})

	printsController = prints.NewPrintsController(prints.PrintsControllerConfig{
		ArtworkService:     artworkService,
		EmailService:       emailService,
		FulfillmentService: fulfillmentService,
		PaymentVerifier:    paymentVerifier,
		Renderer:           renderer,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	public := []mux.MiddlewareFunc{newIdentityMiddleware(sessionService)}
	private := []mux.MiddlewareFunc{newRequireSignInMiddleware(sessionService)}

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: homeController.HomePage, Middlewares: public},
		{Path: "POST /filters/key", HandlerFunc: homeController.FilterBarKey, Middlewares: public},
		{Path: "GET /artworks/{id}", HandlerFunc: homeController.ArtworkPage, Middlewares: public},
		{Path: "GET /artworks/{id}/prints", HandlerFunc: printsController.PrintShopPage, Middlewares: public},
		{Path: "POST /artworks/{id}/prints", HandlerFunc: printsController.CheckoutAction, Middlewares: public},
		{Path: "GET /account/login", HandlerFunc: accountController.LoginPage, Middlewares: public},
		{Path: "POST /account/login", HandlerFunc: accountController.LoginAction, Middlewares: public},
		{Path: "GET /account/logout", HandlerFunc: accountController.LogoutAction},

		{Path: "GET /upload", HandlerFunc: artworksController.UploadPage, Middlewares: private},
		{Path: "POST /upload", HandlerFunc: artworksController.UploadAction, Middlewares: private},
		{Path: "PUT /artworks/{id}/like", HandlerFunc: artworksController.LikeAction, Middlewares: private},
		{Path: "POST /artworks/{id}/delete", HandlerFunc: artworksController.DeleteAction, Middlewares: private},

		{Path: "GET /children", HandlerFunc: childrenController.ChildrenPage, Middlewares: private},
		{Path: "POST /children", HandlerFunc: childrenController.AddChildAction, Middlewares: private},
		{Path: "GET /children/export", HandlerFunc: childrenController.ExportAction, Middlewares: private},
		{Path: "POST /children/import", HandlerFunc: childrenController.PreviewImportAction, Middlewares: private},
		{Path: "POST /children/import/confirm", HandlerFunc: childrenController.ConfirmImportAction, Middlewares: private},
		{Path: "POST /children/import/cancel", HandlerFunc: childrenController.CancelImportAction, Middlewares: private},
		{Path: "GET /children/{id}", HandlerFunc: childrenController.ChildPage, Middlewares: private},
		{Path: "POST /children/{id}", HandlerFunc: childrenController.EditChildAction, Middlewares: private},
		{Path: "GET /children/{id}/edit", HandlerFunc: childrenController.EditChildPage, Middlewares: private},
		{Path: "POST /children/{id}/delete", HandlerFunc: childrenController.DeleteChildAction, Middlewares: private},
		{Path: "POST /children/{id}/portfolio", HandlerFunc: childrenController.PortfolioAction, Middlewares: private},
		{Path: "GET /downloads/{filename}", HandlerFunc: childrenController.DownloadPortfolio, Middlewares: private},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the portfolio cleanup job
	 */
	portfolioService.StartCleanupRoutine(24 * time.Hour)
	defer portfolioService.StopCleanupRoutine()

	/*
	 * Start the thumbnail job
	 */
	setupThumbnailCreator(shutdownCtx, time.Duration(config.ThumbnailIntervalMins)*time.Minute)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupThumbnailCreator(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		running := false

		runner := func() {
			running = true

			defer func() {
				running = false
			}()

			thumbnailCreator.CreateThumbnails()
			slog.Info("thumbnail creator finished.")
		}

		runner()

		for {
			select {
			case <-ctx.Done():
				return

			case <-ticker.C:
				if running {
					slog.Info("thumbnail creator already running. skipping...")
					continue
				}

				runner()
			}
		}
	}()
}

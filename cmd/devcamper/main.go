package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	bootcampApp "github.com/davicafu/devcamper/internal/bootcamp/application"
	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	bootcampEvents "github.com/davicafu/devcamper/internal/bootcamp/infra/inbound/events"
	bootcampHttp "github.com/davicafu/devcamper/internal/bootcamp/infra/inbound/http"
	"github.com/davicafu/devcamper/internal/bootcamp/infra/outbound/analytics/clickhouse"
	bootcampRepo "github.com/davicafu/devcamper/internal/bootcamp/infra/outbound/db/mongodb"
	"github.com/davicafu/devcamper/internal/bootcamp/infra/outbound/filesystem"
	"github.com/davicafu/devcamper/internal/bootcamp/infra/outbound/geocoder"
	config "github.com/davicafu/devcamper/internal/config"
	infraEvents "github.com/davicafu/devcamper/internal/shared/infra/events"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/devcamper/internal/shared/infra/platform/cache"
	sharedMongo "github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/sqlstore"
	infraRelayer "github.com/davicafu/devcamper/internal/shared/infra/relayer"
	userApp "github.com/davicafu/devcamper/internal/user/application"
	userHttp "github.com/davicafu/devcamper/internal/user/infra/inbound/http"
	userRepo "github.com/davicafu/devcamper/internal/user/infra/outbound/db/sqlrepo"
	"github.com/davicafu/devcamper/pkg/logger"
)

const consumerGroup = "devcamper-bootcamp-aggregates"

// ---------------- Main ----------------
func main() {
	configFile := flag.String("config", "", "fichero de configuración opcional (yaml, json o env)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Init("info")
		logger.Logger().Fatal("invalid configuration", zap.Error(err))
	}

	logger.Init(cfg.LogLevel) // inicializa zap
	log := logger.Logger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------- MongoDB ----------------
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	mongoDB := mongoClient.Database(cfg.MongoDB)
	if err := bootcampRepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatal("failed to create MongoDB indexes", zap.Error(err))
	}
	log.Info("✅ MongoDB conectado", zap.String("db", cfg.MongoDB), zap.Bool("transactions", cfg.MongoTransactions))

	uow := sharedMongo.NewUnitOfWork(mongoClient, cfg.MongoTransactions)
	outboxRepo := sharedMongo.NewOutboxRepo(mongoDB)
	if err := outboxRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to create outbox indexes", zap.Error(err))
	}
	bootcampRepoMongo := bootcampRepo.NewBootcampRepoMongoDB(mongoDB, uow)
	courseRepoMongo := bootcampRepo.NewCourseRepoMongoDB(mongoDB, uow, outboxRepo)
	reviewRepoMongo := bootcampRepo.NewReviewRepoMongoDB(mongoDB, uow, outboxRepo)

	// ---------------- SQL (usuarios) ----------------
	dialect := sqlstore.ParseDialect(cfg.SQLDriver)
	sqlDB, err := userRepo.Open(dialect, cfg.SQLDSN())
	if err != nil {
		log.Fatal("failed to open users database", zap.String("driver", dialect.DriverName()), zap.Error(err))
	}
	defer sqlDB.Close()

	userRepoSQL := userRepo.NewUserRepoSQL(sqlDB, dialect)
	if err := userRepoSQL.InitSchema(ctx); err != nil {
		log.Fatal("failed to initialize users schema", zap.Error(err))
	}

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria:", zap.Error(err))
		cacheInstance = sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	} else {
		cacheInstance = sharedCache.NewRedisCache(rdb, "devcamper:")
		log.Info("✅ Redis conectado, cache habilitado")
	}
	defer rdb.Close()

	// ---------------- Adapters ----------------
	var geo bootcampDomain.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geo = geocoder.NewMapQuestGeocoder(cfg.GeocoderAPIKey, &http.Client{Timeout: 10 * time.Second}, log)
		log.Info("🗺️ Geocoder MapQuest habilitado")
	} else {
		geo = geocoder.DefaultStaticGeocoder()
		log.Warn("⚠️ GEOCODER_API_KEY vacío, se usa la tabla estática de direcciones")
	}

	photos, err := filesystem.NewDiskPhotoStorage(cfg.FileUploadPath)
	if err != nil {
		log.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	var analytics bootcampDomain.RatingAnalytics
	if cfg.ClickHouseAddr != "" {
		chRepo, err := clickhouse.NewReviewAnalyticsRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Warn("⚠️ ClickHouse no disponible, analítica deshabilitada", zap.Error(err))
		} else if err := chRepo.InitSchema(ctx); err != nil {
			log.Warn("⚠️ No se pudo crear el esquema de ClickHouse", zap.Error(err))
			_ = chRepo.Close()
		} else {
			defer chRepo.Close()
			analytics = chRepo
			log.Info("📊 ClickHouse conectado, analítica de reviews habilitada")
		}
	}

	// --------------- Servicios --------------
	userService := userApp.NewUserService(userRepoSQL, userApp.NewBcryptHasher(userApp.DefaultBcryptCost), cacheInstance, cfg.CacheTTL, log)
	tokenService := userApp.NewTokenService(cfg.JWTSecret, cfg.JWTExpire, userService)

	bootcampService := bootcampApp.NewBootcampService(bootcampRepoMongo, geo, photos, cacheInstance,
		bootcampApp.BootcampServiceConfig{CacheTTL: cfg.CacheTTL, MaxPhotoBytes: cfg.MaxFileUpload}, log)
	courseService := bootcampApp.NewCourseService(courseRepoMongo, bootcampRepoMongo, log)
	reviewService := bootcampApp.NewReviewService(reviewRepoMongo, bootcampRepoMongo, log)
	aggregatesService := bootcampApp.NewAggregatesService(bootcampRepoMongo, courseRepoMongo, reviewRepoMongo, analytics, cacheInstance, log)

	// ---------------- Events ---------------
	consumer := bootcampEvents.NewBootcampConsumer(aggregatesService, log)
	var publisher sharedBus.EventBus

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		writer := infraEvents.NewKafkaWriter(cfg.KafkaBrokers, bootcampDomain.BootcampTopic)
		defer writer.Close()
		publisher = infraEvents.NewKafkaPublisher(writer, log)

		reader := infraEvents.NewKafkaReader(cfg.KafkaBrokers, bootcampDomain.BootcampTopic, consumerGroup)
		infraEvents.NewConsumerAdapter(reader, consumer, log).Start(ctx)
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		bus := infraEvents.NewInMemoryEventBus(bootcampDomain.BootcampTopic)
		bus.Subscribe(ctx, 64, consumer, log)
		publisher = bus
	}

	// ------------ Outbox Worker ------------
	outboxWorker := infraRelayer.NewOutboxWorker(outboxRepo, publisher, bootcampDomain.NewEventRegistry(), cfg.OutboxPeriod, cfg.OutboxLimit, log)
	go outboxWorker.Start(ctx)

	// ---------------- HTTP ----------------
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(log), middleware.ErrorHandler(log))
	router.Static("/uploads", photos.Dir())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	bootcampStores, courseStores, reviewStores := bootcampRepo.Stores(mongoDB)
	bootcampHttp.RegisterBootcampRoutes(api,
		bootcampHttp.Handlers{
			Bootcamps: bootcampHttp.NewBootcampHandler(bootcampService, aggregatesService),
			Courses:   bootcampHttp.NewCourseHandler(courseService),
			Reviews:   bootcampHttp.NewReviewHandler(reviewService),
		},
		bootcampHttp.Stores{Bootcamps: bootcampStores, Courses: courseStores, Reviews: reviewStores},
		tokenService, cfg.DefaultPageLimit,
	)
	userHttp.RegisterUserRoutes(api,
		userHttp.NewAuthHandler(userService, tokenService, userHttp.CookieConfig{
			MaxAge: cfg.JWTCookieExpire,
			Secure: cfg.GinMode == gin.ReleaseMode,
		}),
		userHttp.NewUserHandler(userService),
		userRepo.Store(sqlDB, dialect),
		tokenService, cfg.DefaultPageLimit,
	)

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Apagando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

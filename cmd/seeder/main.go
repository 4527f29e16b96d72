package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	bootcampApp "github.com/davicafu/devcamper/internal/bootcamp/application"
	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	bootcampRepo "github.com/davicafu/devcamper/internal/bootcamp/infra/outbound/db/mongodb"
	"github.com/davicafu/devcamper/internal/bootcamp/infra/outbound/filesystem"
	"github.com/davicafu/devcamper/internal/bootcamp/infra/outbound/geocoder"
	config "github.com/davicafu/devcamper/internal/config"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedMongo "github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/sqlstore"
	userApp "github.com/davicafu/devcamper/internal/user/application"
	userRepo "github.com/davicafu/devcamper/internal/user/infra/outbound/db/sqlrepo"
	"github.com/davicafu/devcamper/pkg/logger"
)

// seeder importa (-i) o borra (-d) los datos de ejemplo del directorio -data.
func main() {
	importData := flag.Bool("i", false, "importa los datos de ejemplo")
	destroyData := flag.Bool("d", false, "borra todos los datos")
	dataDir := flag.String("data", "_data", "directorio con los ficheros JSON")
	configFile := flag.String("config", "", "fichero de configuración opcional")
	flag.Parse()

	if *importData == *destroyData {
		fmt.Fprintln(os.Stderr, "usage: seeder -i | -d [-data dir]")
		os.Exit(2)
	}

	logger.Init("info")
	log := logger.Logger()
	defer logger.Sync()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	mongoDB := mongoClient.Database(cfg.MongoDB)

	dialect := sqlstore.ParseDialect(cfg.SQLDriver)
	sqlDB, err := userRepo.Open(dialect, cfg.SQLDSN())
	if err != nil {
		log.Fatal("failed to open users database", zap.Error(err))
	}
	defer sqlDB.Close()
	users := userRepo.NewUserRepoSQL(sqlDB, dialect)
	if err := users.InitSchema(ctx); err != nil {
		log.Fatal("failed to initialize users schema", zap.Error(err))
	}

	if *destroyData {
		if err := destroy(ctx, mongoDB, users); err != nil {
			log.Fatal("❌ Error al borrar los datos", zap.Error(err))
		}
		log.Info("🗑️ Datos borrados")
		return
	}

	if err := bootcampRepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatal("failed to create MongoDB indexes", zap.Error(err))
	}

	var geo bootcampDomain.Geocoder = geocoder.DefaultStaticGeocoder()
	if cfg.GeocoderAPIKey != "" {
		geo = geocoder.NewMapQuestGeocoder(cfg.GeocoderAPIKey, nil, log)
	}

	s := &seeder{
		reader:   filesystem.NewSeedReader(*dataDir),
		geocoder: geo,
		users:    userApp.NewUserService(users, userApp.NewBcryptHasher(userApp.DefaultBcryptCost), nil, 0, log),
		db:       mongoDB,
		uow:      sharedMongo.NewUnitOfWork(mongoClient, cfg.MongoTransactions),
		outbox:   sharedMongo.NewOutboxRepo(mongoDB),
		log:      log,
	}
	if err := s.importAll(ctx); err != nil {
		log.Fatal("❌ Error al importar los datos", zap.Error(err))
	}
	log.Info("✅ Datos importados")
}

type seeder struct {
	reader   *filesystem.SeedReader
	geocoder bootcampDomain.Geocoder
	users    *userApp.UserService
	db       *mongo.Database
	uow      *sharedMongo.UnitOfWork
	outbox   *sharedMongo.OutboxRepo
	log      *zap.Logger
}

// importAll inserta usuarios, bootcamps, cursos y reviews en ese orden. Los cursos y reviews
// dejan su evento en el outbox: las medias se calculan cuando el servidor lo procese.
func (s *seeder) importAll(ctx context.Context) error {
	seedUsers, err := s.reader.Users()
	if err != nil {
		return err
	}
	for _, su := range seedUsers {
		if _, err := s.users.CreateUser(ctx, userApp.NewUserInput{
			ID: su.ID, Name: su.Name, Email: su.Email, Password: su.Password, Role: sharedDomain.Role(su.Role),
		}); err != nil {
			return fmt.Errorf("user %s: %w", su.Email, err)
		}
	}
	s.log.Info("👤 Usuarios importados", zap.Int("count", len(seedUsers)))

	bootcamps, addresses, err := s.reader.Bootcamps()
	if err != nil {
		return err
	}
	bootcampStore := bootcampRepo.NewBootcampRepoMongoDB(s.db, s.uow)
	for i, b := range bootcamps {
		if b.Location == nil {
			geo, err := s.geocoder.Geocode(ctx, addresses[i])
			if err != nil {
				return fmt.Errorf("bootcamp %q: %w", b.Name, err)
			}
			b.SetLocation(*geo)
		}
		if err := bootcampStore.Create(ctx, b); err != nil {
			return fmt.Errorf("bootcamp %q: %w", b.Name, err)
		}
	}
	s.log.Info("🏫 Bootcamps importados", zap.Int("count", len(bootcamps)))

	courses, err := s.reader.Courses()
	if err != nil {
		return err
	}
	courseService := bootcampApp.NewCourseService(bootcampRepo.NewCourseRepoMongoDB(s.db, s.uow, s.outbox), bootcampStore, s.log)
	for _, c := range courses {
		if err := courseService.Import(ctx, c); err != nil {
			return fmt.Errorf("course %q: %w", c.Title, err)
		}
	}
	s.log.Info("📚 Cursos importados", zap.Int("count", len(courses)))

	reviews, err := s.reader.Reviews()
	if err != nil {
		return err
	}
	reviewService := bootcampApp.NewReviewService(bootcampRepo.NewReviewRepoMongoDB(s.db, s.uow, s.outbox), bootcampStore, s.log)
	for _, r := range reviews {
		if err := reviewService.Import(ctx, r); err != nil {
			return fmt.Errorf("review %q: %w", r.Title, err)
		}
	}
	s.log.Info("⭐ Reviews importadas", zap.Int("count", len(reviews)))
	return nil
}

func destroy(ctx context.Context, db *mongo.Database, users *userRepo.UserRepoSQL) error {
	for _, name := range []string{
		bootcampRepo.BootcampsCollection,
		bootcampRepo.CoursesCollection,
		bootcampRepo.ReviewsCollection,
		sharedMongo.OutboxCollection,
	} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return users.DeleteAll(ctx)
}

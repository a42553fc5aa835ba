package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"safetrail/internal/audit"
	audithandler "safetrail/internal/audit/handler"
	credentialhandler "safetrail/internal/credential/handler"
	credentialservice "safetrail/internal/credential/service"
	credentialstore "safetrail/internal/credential/store"
	i18nhandler "safetrail/internal/i18n/handler"
	jwttoken "safetrail/internal/jwt_token"
	kychandler "safetrail/internal/kyc/handler"
	kycservice "safetrail/internal/kyc/service"
	kycstore "safetrail/internal/kyc/store"
	"safetrail/internal/location/cache"
	locationhandler "safetrail/internal/location/handler"
	"safetrail/internal/location/sampler"
	locationservice "safetrail/internal/location/service"
	locationstore "safetrail/internal/location/store"
	"safetrail/internal/notary"
	"safetrail/internal/objectstore"
	"safetrail/internal/platform/config"
	"safetrail/internal/platform/httpserver"
	"safetrail/internal/platform/logger"
	"safetrail/internal/platform/metrics"
	"safetrail/internal/platform/redis"
	profilehandler "safetrail/internal/profile/handler"
	profileservice "safetrail/internal/profile/service"
	profilestore "safetrail/internal/profile/store"
	settingshandler "safetrail/internal/settings/handler"
	settingsservice "safetrail/internal/settings/service"
	settingsstore "safetrail/internal/settings/store"
	soshandler "safetrail/internal/sos/handler"
	sosservice "safetrail/internal/sos/service"
	sosstore "safetrail/internal/sos/store"
	httptransport "safetrail/internal/transport/http"
	triphandler "safetrail/internal/trip/handler"
	tripservice "safetrail/internal/trip/service"
	tripstore "safetrail/internal/trip/store"
	"safetrail/pkg/platform/circuit"
)

const auditBuffer = 256

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := applyMigrations(ctx, db, cfg.MigrationsFile); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	m := metrics.New()

	// Location sample cache. Redis when configured so alerts survive a
	// process restart, in-process otherwise.
	var sampleCache cache.Cache
	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sampleCache = cache.NewRedis(redisClient, cfg.LocationFreshness)
		log.Info("location cache backed by redis")
	} else {
		sampleCache = cache.NewMemory(cfg.LocationFreshness)
		log.Info("location cache in-process; set REDIS_URL for durability")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	documents := objectstore.NewS3(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL)

	auditInbox := make(chan audit.Event, auditBuffer)
	auditStore := audit.NewPostgresStore(db)
	auditor := audit.NewPublisher(auditInbox, log)
	auditWorker := audit.NewWorker(auditStore, auditInbox, log)

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	kycSvc, err := kycservice.New(kycstore.NewPostgres(db), documents, auditor, log, m)
	if err != nil {
		return err
	}
	tripSvc, err := tripservice.New(tripstore.NewPostgres(db), log, m)
	if err != nil {
		return err
	}
	credSvc, err := credentialservice.New(
		kycstore.NewPostgres(db),
		tripstore.NewPostgres(db),
		credentialstore.NewPostgres(db),
		notary.WithBreaker(notary.NewSimulatedLedger(time.Now), circuit.New("notary", circuit.WithFailureThreshold(5)), log),
		auditor,
		log,
		m,
		cfg.VerifyBaseURL,
	)
	if err != nil {
		return err
	}
	samples := sampler.NewRegistry(sampleCache, cfg.LocationThrottle, log, m)
	defer samples.Close()
	locationSvc, err := locationservice.New(locationstore.NewPostgres(db), sampleCache, samples, log)
	if err != nil {
		return err
	}
	sosSvc, err := sosservice.New(sosstore.NewPostgres(db), sampleCache, auditor, log, m)
	if err != nil {
		return err
	}
	profileSvc, err := profileservice.New(profilestore.NewPostgres(db), log)
	if err != nil {
		return err
	}
	settingsSvc, err := settingsservice.New(settingsstore.NewPostgres(db), log)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(
		kychandler.New(kycSvc, log, m, tokens),
		credentialhandler.New(credSvc, log, m, tokens),
		triphandler.New(tripSvc, log, m, tokens),
		locationhandler.New(locationSvc, log, m, tokens),
		soshandler.New(sosSvc, log, m, tokens),
		profilehandler.New(profileSvc, log, m, tokens),
		settingshandler.New(settingsSvc, log, m, tokens),
		i18nhandler.New(log, m),
		audithandler.New(auditStore, log, m, tokens),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting safetrail", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

// applyMigrations executes the schema file in one statement batch. The schema
// is written to be idempotent (CREATE ... IF NOT EXISTS), so running it on
// every boot is safe.
func applyMigrations(ctx context.Context, db *sql.DB, path string) error {
	schema, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(schema))
	return err
}

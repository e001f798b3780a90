// Command server wires high-level dependencies and keeps the HTTP server
// lifecycle small. Business logic lives in the internal services packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	adminhandler "memberdesk/internal/admin/handler"
	adminservice "memberdesk/internal/admin/service"
	adminstore "memberdesk/internal/admin/store"
	membershiphandler "memberdesk/internal/membership/handler"
	membershipservice "memberdesk/internal/membership/service"
	membershipstore "memberdesk/internal/membership/store"
	"memberdesk/internal/payment"
	"memberdesk/internal/platform/config"
	"memberdesk/internal/platform/httpserver"
	"memberdesk/internal/platform/logger"
	"memberdesk/internal/platform/metrics"
	"memberdesk/internal/platform/middleware"
	"memberdesk/internal/platform/postgres"
	platformredis "memberdesk/internal/platform/redis"
	"memberdesk/internal/session"
	"memberdesk/internal/session/revocation"
	httptransport "memberdesk/internal/transport/http"
	"memberdesk/pkg/platform/audit"
	"memberdesk/pkg/platform/tx"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: PostgreSQL when configured, otherwise in-memory for local
	// development without infrastructure.
	var (
		members  membershipstore.MemberStore
		admins   adminstore.AdminStore
		txRunner tx.Runner = tx.PassthroughRunner{}
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(db); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		members = membershipstore.NewPostgres(db)
		admins = adminstore.NewPostgres(db)
		txRunner = tx.NewSQLRunner(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		members = membershipstore.NewInMemoryMemberStore()
		admins = adminstore.NewInMemoryAdminStore()
	}

	// Session revocation: shared via Redis when configured.
	var revoked session.RevocationList = revocation.NewInMemoryList()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		revoked = revocation.NewRedisList(redisClient.Client)
	}
	sessions := session.NewManager(cfg.SessionSigningKey, cfg.SessionTTL, revoked)

	// Audit sink: Kafka when brokers are configured, else the structured log.
	var auditor audit.Publisher = audit.NewLogPublisher(log)
	var kafkaAudit *audit.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaAudit, err = audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		auditor = kafkaAudit
	}

	var verifier payment.Verifier = payment.StaticVerifier{}
	if cfg.PaymentVerifyURL != "" {
		verifier = payment.NewHTTPVerifier(cfg.PaymentVerifyURL)
	}

	m := metrics.New()

	membershipSvc := membershipservice.New(members,
		membershipservice.WithTxRunner(txRunner),
		membershipservice.WithPaymentVerifier(verifier),
		membershipservice.WithLogger(log),
		membershipservice.WithMetrics(m),
		membershipservice.WithAuditPublisher(auditor),
	)
	adminSvc := adminservice.New(admins, sessions,
		adminservice.WithLogger(log),
		adminservice.WithMetrics(m),
		adminservice.WithAuditPublisher(auditor),
	)

	gate := middleware.RequireAdmin(sessions, log)
	publicHandler := membershiphandler.New(membershipSvc, log)
	adminHandler := adminhandler.New(membershipSvc, adminSvc, gate, cfg.SessionTTL, log)

	router := httptransport.NewRouter(publicHandler, adminHandler, m, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting memberdesk", "addr", cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if kafkaAudit != nil {
			if err := kafkaAudit.Close(shutdownCtx); err != nil {
				log.Warn("audit flush failed", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

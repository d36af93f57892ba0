package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/everflow"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/everflow/everflowclient"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/tune"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/integrator/tune/tuneclient"
	"github.com/vfg2006/affiliate-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/affiliate-dashboard-api/internal/api"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/scheduler"
	"github.com/vfg2006/affiliate-dashboard-api/internal/statscache"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/rules"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	ruleRepo := repository.NewRuleSetRepository(pgConn)
	snapshotRepo := repository.NewStatsSnapshotRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	everflowClient := everflowclient.NewClient(cfg)
	everflowIntegrator := everflow.New(cfg, everflowClient)

	tuneClient := tuneclient.NewClient(cfg)
	tuneIntegrator := tune.New(cfg, tuneClient)

	ruleService := rules.NewService(cfg, ruleRepo)

	// Cache de agregados com colapso de requisições concorrentes
	statsCache := statscache.New(time.Duration(cfg.StatsCache.TTLSeconds) * time.Second)

	reportingService := reporting.NewService(
		cfg,
		everflowIntegrator,
		tuneIntegrator,
		ruleService,
		statsCache,
		snapshotRepo,
	)

	// Agendador que mantém os snapshots de fallback aquecidos
	snapshotSyncService := scheduler.NewSnapshotSyncService(reportingService, cfg)

	if err := snapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de snapshots")
	} else {
		logrus.Info("Agendador de sincronização de snapshots iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		reportingService,
		ruleService,
		authenticator,
		snapshotSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/salesdesk/backoffice-api/infrastructure/database/postgres"
	"github.com/salesdesk/backoffice-api/infrastructure/render"
	"github.com/salesdesk/backoffice-api/infrastructure/repository"
	"github.com/salesdesk/backoffice-api/internal/api"
	"github.com/salesdesk/backoffice-api/internal/config"
	"github.com/salesdesk/backoffice-api/internal/scheduler"
	"github.com/salesdesk/backoffice-api/internal/usecases/aggregating"
	"github.com/salesdesk/backoffice-api/internal/usecases/authenticating"
	"github.com/salesdesk/backoffice-api/internal/usecases/managing"
	"github.com/salesdesk/backoffice-api/internal/usecases/ranking"
	"github.com/salesdesk/backoffice-api/internal/usecases/reporting"
	"github.com/salesdesk/backoffice-api/internal/usecases/selling"
	"github.com/sirupsen/logrus"
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
	customerRepo := repository.NewCustomerRepository(pgConn)
	productRepo := repository.NewProductRepository(pgConn)
	pricePointRepo := repository.NewPricePointRepository(pgConn)
	employeeRepo := repository.NewEmployeeRepository(pgConn)
	orderRepo := repository.NewOrderRepository(pgConn)
	paymentRepo := repository.NewPaymentRepository(pgConn)
	rankingSnapshotRepo := repository.NewRankingSnapshotRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	customerService := managing.NewCustomerService(customerRepo)
	productService := managing.NewProductService(productRepo, pricePointRepo)
	employeeService := managing.NewEmployeeService(employeeRepo)

	aggregator := aggregating.NewService(
		orderRepo,
		pricePointRepo,
		paymentRepo,
		productRepo,
		customerRepo,
		employeeRepo,
	)

	sellerService := selling.NewService(
		orderRepo,
		paymentRepo,
		customerRepo,
		employeeRepo,
		aggregator,
	)

	renderClient := render.NewClient(cfg.Render)
	reporter := reporting.NewService(aggregator, renderClient)

	rankingService := ranking.NewProductRankingService(rankingSnapshotRepo)

	// Inicializa o agendador do snapshot mensal do ranking de produtos
	rankingSnapshotService := scheduler.NewRankingSnapshotService(
		rankingSnapshotRepo,
		aggregator,
		cfg,
	)

	// Inicia o agendador em background
	if err := rankingSnapshotService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de snapshot do ranking de produtos")
	} else {
		logrus.Info("Agendador de snapshot do ranking de produtos iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		authenticator,
		customerService,
		productService,
		employeeService,
		sellerService,
		aggregator,
		reporter,
		rankingService,
		rankingSnapshotService,
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

// Package server initializes and runs the user API server. It loads AWS
// configuration once, wires the Cognito and DynamoDB adapters into the user
// service, ensures the mirror table exists, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/dmarquez/usermirror/internal/logging"
	"github.com/dmarquez/usermirror/internal/server/config"
	"github.com/dmarquez/usermirror/internal/server/httpapi"
	"github.com/dmarquez/usermirror/internal/server/identity"
	"github.com/dmarquez/usermirror/internal/server/records"
	"github.com/dmarquez/usermirror/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	httpServer  *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("aws config init error: %w", err)
	}

	cognitoClient := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if cfg.AWSBaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSBaseEndpoint)
		}
	})

	dynamoClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWSBaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSBaseEndpoint)
		}
	})

	idp, err := identity.NewAdapter(cognitoClient, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("identity adapter init error: %w", err)
	}

	store := records.NewStore(dynamoClient, cfg.UsersTable, logger)

	us := users.NewService(idp, store, cfg, logger)

	handler := httpapi.NewHandler(us, logger)
	srv := httpapi.NewServer(cfg.EndpointAddrHTTP, handler, cfg.RequestTimeout, logger)

	return &App{config: cfg, logger: logger, userService: us, httpServer: srv}, nil
}

func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	// static credentials only when given explicitly; otherwise the default
	// provider chain applies
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}

	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.userService.EnsureMirror(ctx); err != nil {
		app.logger.Error(ctx, "mirror table init failed", "error", err)
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}

package main

import (
	"context"
	"errors"
	"os"
	"user-service/internal/repository"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"
)

const (
	SEVERITY    = "severity"
	MESSAGE     = "message"
	TIMESTAMP   = "timestamp"
	COMPONENT   = "component"
	SERVICENAME = "user-api"
)

type EnvVars struct {
	tableName   string
	environment string
}

func getEnvironmentVariables() (envVars *EnvVars, err error) {
	tableName := os.Getenv("TABLE_NAME")
	if tableName == "" {
		return nil, errors.New("TABLE_NAME is not set")
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "dev"
	}

	return &EnvVars{
		tableName:   tableName,
		environment: environment,
	}, nil
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  TIMESTAMP,
			logrus.FieldKeyLevel: SEVERITY,
			logrus.FieldKeyMsg:   MESSAGE,
		},
	})
	logger := logrus.WithField(COMPONENT, SERVICENAME)

	envVars, err := getEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Error("Failed to get environment variables")
		panic(err)
	}

	// Production deployments only log warnings and above
	if envVars.environment == "prod" {
		logrus.SetLevel(logrus.WarnLevel)
	}

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.WithError(err).Error("Failed to load AWS config")
		panic(err)
	}
	dynamodbClient := dynamodb.NewFromConfig(cfg)

	userRepo := repository.NewUserRepository(logger, dynamodbClient, envVars.tableName)

	handler, err := NewHandler(logger, envVars, userRepo)
	if err != nil {
		logger.WithError(err).Error("Failed to create handler")
		panic(err)
	}

	lambda.Start(handler.EventHandler)
}

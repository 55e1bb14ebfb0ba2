package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"user-service/internal/models"
	"user-service/internal/repository"
	"user-service/internal/utils"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	logger   *logrus.Entry
	envVars  *EnvVars
	userRepo utils.UserRepository
}

func NewHandler(logger *logrus.Entry, envVars *EnvVars, userRepo utils.UserRepository) (*Handler, error) {
	return &Handler{
		logger:   logger,
		envVars:  envVars,
		userRepo: userRepo,
	}, nil
}

// EventHandler dispatches an API Gateway proxy event by method and resource
// template. Requests that match no route get a structured 404 instead of an
// empty response, and malformed input gets a 400 instead of a fault.
func (h *Handler) EventHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.WithFields(logrus.Fields{
		"method":   request.HTTPMethod,
		"resource": request.Resource,
	}).Info("Received request")

	switch request.HTTPMethod {
	case http.MethodGet:
		switch request.Resource {
		case "/users":
			return h.handleListUsers(ctx)
		case "/user/{user_id}":
			return h.handleGetUser(ctx, request)
		}
	case http.MethodPost:
		if request.Resource == "/user" {
			return h.handleCreateUser(ctx, request)
		}
	case http.MethodPut:
		if request.Resource == "/user/{user_id}" {
			return h.handleUpdateUser(ctx, request)
		}
	case http.MethodDelete:
		if request.Resource == "/user/{user_id}" {
			return h.handleDeleteUser(ctx, request)
		}
	}

	return h.errorResponse(http.StatusNotFound, "no route for method and resource"), nil
}

func (h *Handler) handleListUsers(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	records, err := h.userRepo.ListUsers(ctx)
	if err != nil {
		return h.errorResponse(http.StatusInternalServerError, "failed to list users"), nil
	}
	return h.jsonResponse(http.StatusOK, records), nil
}

func (h *Handler) handleGetUser(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID := request.PathParameters["user_id"]
	if userID == "" {
		return h.errorResponse(http.StatusBadRequest, "missing user_id path parameter"), nil
	}

	record, err := h.userRepo.GetUser(ctx, userID)
	if err != nil {
		return h.errorResponse(http.StatusInternalServerError, "failed to get user"), nil
	}
	if record == nil {
		// Absent records serialize as JSON null, not as an error
		return h.jsonResponse(http.StatusOK, nil), nil
	}
	return h.jsonResponse(http.StatusOK, record), nil
}

func (h *Handler) handleCreateUser(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	record, response, ok := h.parseRecordBody(request)
	if !ok {
		return response, nil
	}

	id, err := record.ID()
	if err != nil {
		return h.errorResponse(http.StatusBadRequest, err.Error()), nil
	}

	stored, err := h.userRepo.PutUser(ctx, record)
	if err != nil {
		return h.errorResponse(http.StatusInternalServerError, "failed to put user"), nil
	}

	h.logger.WithField("id", id).Info("Created user")
	return h.jsonResponse(http.StatusOK, stored), nil
}

func (h *Handler) handleUpdateUser(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID := request.PathParameters["user_id"]
	if userID == "" {
		return h.errorResponse(http.StatusBadRequest, "missing user_id path parameter"), nil
	}

	fields, response, ok := h.parseRecordBody(request)
	if !ok {
		return response, nil
	}

	updated, err := h.userRepo.UpdateUser(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNoUpdatableFields) {
			return h.errorResponse(http.StatusBadRequest, err.Error()), nil
		}
		return h.errorResponse(http.StatusInternalServerError, "failed to update user"), nil
	}

	h.logger.WithField("id", userID).Info("Updated user")
	return h.jsonResponse(http.StatusOK, updated), nil
}

func (h *Handler) handleDeleteUser(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID := request.PathParameters["user_id"]
	if userID == "" {
		return h.errorResponse(http.StatusBadRequest, "missing user_id path parameter"), nil
	}

	deleted, err := h.userRepo.DeleteUser(ctx, userID)
	if err != nil {
		return h.errorResponse(http.StatusInternalServerError, "failed to delete user"), nil
	}
	if deleted == nil {
		return h.jsonResponse(http.StatusOK, nil), nil
	}

	h.logger.WithField("id", userID).Info("Deleted user")
	return h.jsonResponse(http.StatusOK, deleted), nil
}

func (h *Handler) parseRecordBody(request events.APIGatewayProxyRequest) (models.Record, events.APIGatewayProxyResponse, bool) {
	if request.Body == "" {
		return nil, h.errorResponse(http.StatusBadRequest, "missing request body"), false
	}

	var record models.Record
	if err := json.Unmarshal([]byte(request.Body), &record); err != nil {
		h.logger.WithError(err).Error("Failed to parse request body")
		return nil, h.errorResponse(http.StatusBadRequest, "request body is not valid JSON"), false
	}
	return record, events.APIGatewayProxyResponse{}, true
}

func (h *Handler) jsonResponse(statusCode int, payload interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal response body")
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error":"internal error"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

func (h *Handler) errorResponse(statusCode int, message string) events.APIGatewayProxyResponse {
	return h.jsonResponse(statusCode, map[string]string{"error": message})
}

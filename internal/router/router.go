// Package router wires the HTTP endpoints of the biography writing
// assistant to the service layer and shapes every reply as the uniform
// response envelope.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/biodraft/internal/biography"
	"github.com/patric-chuzhbe/biodraft/internal/generator"
	"github.com/patric-chuzhbe/biodraft/internal/gzippedhttp"
	"github.com/patric-chuzhbe/biodraft/internal/ipchecker"
	"github.com/patric-chuzhbe/biodraft/internal/logger"
	"github.com/patric-chuzhbe/biodraft/internal/metrics"
	"github.com/patric-chuzhbe/biodraft/internal/models"
	"github.com/patric-chuzhbe/biodraft/internal/service"
	"github.com/patric-chuzhbe/biodraft/internal/user"
)

const rootBanner = "Biography writing assistant backend service - see the API reference for available endpoints"

type assistantService interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (user.User, error)

	GetUser(ctx context.Context, id string) (user.User, error)

	CreateBiography(ctx context.Context, req models.CreateBiographyRequest) (biography.Biography, error)

	ListBiographies(ctx context.Context, userID string) ([]biography.Biography, error)

	GetBiography(ctx context.Context, id string) (biography.Biography, error)

	UpdateBiography(
		ctx context.Context,
		id string,
		req models.UpdateBiographyRequest,
	) (biography.Biography, error)

	GetInternalStats(ctx context.Context) (models.InternalStatsResponse, error)

	Ping(ctx context.Context) error
}

// Router holds the dependencies of the HTTP handlers.
type Router struct {
	svc       assistantService
	generator generator.Generator
	ipChecker *ipchecker.IPChecker
	validate  *validator.Validate
}

// New builds the chi mux with all routes and middleware attached.
func New(
	svc assistantService,
	gen generator.Generator,
	checker *ipchecker.IPChecker,
	collector *metrics.Collector,
) *chi.Mux {
	theRouter := &Router{
		svc:       svc,
		generator: gen,
		ipChecker: checker,
		validate:  validator.New(),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		collector.Middleware,
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
	)

	router.Get(`/`, theRouter.GetRoot)
	router.Get(`/ping`, theRouter.GetPing)
	router.Method(http.MethodGet, `/metrics`, collector.Handler())

	router.Post(`/api/users`, theRouter.CreateUser)
	router.Get(`/api/users/{id}`, theRouter.GetUser)

	router.Post(`/api/biographies`, theRouter.CreateBiography)
	router.Get(`/api/biographies`, theRouter.ListBiographies)
	router.Get(`/api/biographies/{id}`, theRouter.GetBiography)
	router.Post(`/api/biographies/{id}`, theRouter.UpdateBiography)

	router.Post(`/api/ai/generate-outline`, theRouter.GenerateOutline)
	router.Post(`/api/ai/generate-content`, theRouter.GenerateContent)
	router.Post(`/api/ai/interview-questions`, theRouter.InterviewQuestions)

	router.Get(`/api/internal/stats`, theRouter.GetInternalStats)

	return router
}

func writeJSONResponse(response http.ResponseWriter, statusCode int, envelope models.APIResponse) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(statusCode)

	if err := json.NewEncoder(response).Encode(envelope); err != nil {
		logger.Log.Errorln("Error encoding the response envelope:", zap.Error(err))
	}
}

func (theRouter *Router) decodeAndValidate(request *http.Request, payload any) error {
	if err := json.NewDecoder(request.Body).Decode(payload); err != nil {
		return err
	}

	return theRouter.validate.Struct(payload)
}

// GetRoot serves the plain-text service banner.
// GET /
func (theRouter *Router) GetRoot(response http.ResponseWriter, request *http.Request) {
	response.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := response.Write([]byte(rootBanner)); err != nil {
		logger.Log.Errorln("Error writing the root banner:", zap.Error(err))
	}
}

// GetPing reports storage health.
// GET /ping
func (theRouter *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := theRouter.svc.Ping(request.Context()); err != nil {
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("storage is unavailable"))
		return
	}

	writeJSONResponse(response, http.StatusOK, models.OK(nil, "storage is healthy"))
}

// CreateUser registers a new user account.
// POST /api/users
func (theRouter *Router) CreateUser(response http.ResponseWriter, request *http.Request) {
	var payload models.CreateUserRequest
	if err := theRouter.decodeAndValidate(request, &payload); err != nil {
		writeJSONResponse(response, http.StatusBadRequest, models.Error("openid and nickname are required"))
		return
	}

	usr, err := theRouter.svc.CreateUser(request.Context(), payload)
	if err != nil {
		logger.Log.Errorln("Error calling the `svc.CreateUser()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to create user"))
		return
	}

	logger.Log.Infow("user created", "user_id", usr.ID)

	writeJSONResponse(response, http.StatusOK, models.OK(usr, "user created successfully"))
}

// GetUser returns a single user by id.
// GET /api/users/{id}
func (theRouter *Router) GetUser(response http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	usr, err := theRouter.svc.GetUser(request.Context(), id)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		logger.Log.Warnw("user not found", "user_id", id)
		writeJSONResponse(response, http.StatusNotFound, models.Error("user not found"))
		return

	case err != nil:
		logger.Log.Errorln("Error calling the `svc.GetUser()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to get user"))
		return
	}

	writeJSONResponse(response, http.StatusOK, models.OK(usr, "user retrieved successfully"))
}

// CreateBiography creates a new draft biography owned by an existing user.
// POST /api/biographies
func (theRouter *Router) CreateBiography(response http.ResponseWriter, request *http.Request) {
	var payload models.CreateBiographyRequest
	if err := theRouter.decodeAndValidate(request, &payload); err != nil {
		writeJSONResponse(response, http.StatusBadRequest, models.Error("user_id and title are required"))
		return
	}

	bio, err := theRouter.svc.CreateBiography(request.Context(), payload)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		logger.Log.Warnw("biography creation rejected, user does not exist", "user_id", payload.UserID)
		writeJSONResponse(response, http.StatusBadRequest, models.Error("user does not exist"))
		return

	case err != nil:
		logger.Log.Errorln("Error calling the `svc.CreateBiography()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to create biography"))
		return
	}

	logger.Log.Infow("biography created", "biography_id", bio.ID, "user_id", bio.UserID)

	writeJSONResponse(response, http.StatusOK, models.OK(bio, "biography created successfully"))
}

// ListBiographies returns every biography owned by the user given in the
// user_id query parameter.
// GET /api/biographies?user_id=ID
func (theRouter *Router) ListBiographies(response http.ResponseWriter, request *http.Request) {
	userID := request.URL.Query().Get("user_id")
	if userID == "" {
		writeJSONResponse(response, http.StatusBadRequest, models.Error("user_id query parameter is required"))
		return
	}

	bios, err := theRouter.svc.ListBiographies(request.Context(), userID)
	if err != nil {
		logger.Log.Errorln("Error calling the `svc.ListBiographies()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to list biographies"))
		return
	}

	writeJSONResponse(response, http.StatusOK, models.OK(bios, "biography list retrieved successfully"))
}

// GetBiography returns a single biography by id.
// GET /api/biographies/{id}
func (theRouter *Router) GetBiography(response http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	bio, err := theRouter.svc.GetBiography(request.Context(), id)
	switch {
	case errors.Is(err, service.ErrBiographyNotFound):
		logger.Log.Warnw("biography not found", "biography_id", id)
		writeJSONResponse(response, http.StatusNotFound, models.Error("biography not found"))
		return

	case err != nil:
		logger.Log.Errorln("Error calling the `svc.GetBiography()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to get biography"))
		return
	}

	writeJSONResponse(response, http.StatusOK, models.OK(bio, "biography retrieved successfully"))
}

// UpdateBiography overwrites the fields present in the payload and leaves
// absent ones unchanged.
// POST /api/biographies/{id}
func (theRouter *Router) UpdateBiography(response http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	var payload models.UpdateBiographyRequest
	if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
		writeJSONResponse(response, http.StatusBadRequest, models.Error("malformed update payload"))
		return
	}

	bio, err := theRouter.svc.UpdateBiography(request.Context(), id, payload)
	switch {
	case errors.Is(err, service.ErrBiographyNotFound):
		logger.Log.Warnw("biography not found", "biography_id", id)
		writeJSONResponse(response, http.StatusNotFound, models.Error("biography not found"))
		return

	case err != nil:
		logger.Log.Errorln("Error calling the `svc.UpdateBiography()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to update biography"))
		return
	}

	logger.Log.Infow("biography updated", "biography_id", bio.ID)

	writeJSONResponse(response, http.StatusOK, models.OK(bio, "biography updated successfully"))
}

func (theRouter *Router) decodeGenerationParams(request *http.Request) (map[string]string, error) {
	params := map[string]string{}
	if err := json.NewDecoder(request.Body).Decode(&params); err != nil {
		return nil, err
	}

	return params, nil
}

// GenerateOutline produces a biography outline.
// POST /api/ai/generate-outline
func (theRouter *Router) GenerateOutline(response http.ResponseWriter, request *http.Request) {
	params, err := theRouter.decodeGenerationParams(request)
	if err != nil {
		writeJSONResponse(response, http.StatusBadRequest, models.Error("malformed generation payload"))
		return
	}

	outline, err := theRouter.generator.Outline(request.Context(), params)
	if err != nil {
		logger.Log.Errorln("Error calling the `generator.Outline()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to generate outline"))
		return
	}

	writeJSONResponse(response, http.StatusOK, models.OK(outline, "outline generated successfully"))
}

// GenerateContent produces biography narrative text.
// POST /api/ai/generate-content
func (theRouter *Router) GenerateContent(response http.ResponseWriter, request *http.Request) {
	params, err := theRouter.decodeGenerationParams(request)
	if err != nil {
		writeJSONResponse(response, http.StatusBadRequest, models.Error("malformed generation payload"))
		return
	}

	content, err := theRouter.generator.Content(request.Context(), params)
	if err != nil {
		logger.Log.Errorln("Error calling the `generator.Content()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to generate content"))
		return
	}

	writeJSONResponse(response, http.StatusOK, models.OK(content, "content generated successfully"))
}

// InterviewQuestions produces interview questions for the subject.
// POST /api/ai/interview-questions
func (theRouter *Router) InterviewQuestions(response http.ResponseWriter, request *http.Request) {
	params, err := theRouter.decodeGenerationParams(request)
	if err != nil {
		writeJSONResponse(response, http.StatusBadRequest, models.Error("malformed generation payload"))
		return
	}

	questions, err := theRouter.generator.InterviewQuestions(request.Context(), params)
	if err != nil {
		logger.Log.Errorln("Error calling the `generator.InterviewQuestions()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to generate interview questions"))
		return
	}

	writeJSONResponse(response, http.StatusOK, models.OK(questions, "interview questions generated successfully"))
}

// GetInternalStats reports operational counters to callers inside the
// trusted subnet.
// GET /api/internal/stats
func (theRouter *Router) GetInternalStats(response http.ResponseWriter, request *http.Request) {
	if !theRouter.ipChecker.Enabled() {
		writeJSONResponse(response, http.StatusForbidden, models.Error("access denied"))
		return
	}

	clientIP, err := theRouter.ipChecker.GetClientIP(request)
	if err != nil || !theRouter.ipChecker.Check(clientIP) {
		writeJSONResponse(response, http.StatusForbidden, models.Error("access denied"))
		return
	}

	stats, err := theRouter.svc.GetInternalStats(request.Context())
	if err != nil {
		logger.Log.Errorln("Error calling the `svc.GetInternalStats()`:", zap.Error(err))
		writeJSONResponse(response, http.StatusInternalServerError, models.Error("failed to collect stats"))
		return
	}

	writeJSONResponse(response, http.StatusOK, models.OK(stats, "stats retrieved successfully"))
}

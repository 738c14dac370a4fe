package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/aarambh-bootcamp/registration-api/internal/auth"
	"github.com/aarambh-bootcamp/registration-api/internal/forms"
	"github.com/aarambh-bootcamp/registration-api/internal/models"
	"github.com/aarambh-bootcamp/registration-api/internal/notifier"
	"github.com/aarambh-bootcamp/registration-api/internal/store"
	"github.com/danielgtaylor/huma/v2"
)

type RegistrationHandler struct {
	configs     *store.ConfigStore
	regs        *store.RegistrationStore
	authHandler *auth.AuthHandler
	notifiers   []notifier.Notifier
}

func NewRegistrationHandler(configs *store.ConfigStore, regs *store.RegistrationStore, authHandler *auth.AuthHandler, notifiers ...notifier.Notifier) *RegistrationHandler {
	return &RegistrationHandler{
		configs:     configs,
		regs:        regs,
		authHandler: authHandler,
		notifiers:   notifiers,
	}
}

type RegistrationStatusRequest struct{}

type RegistrationStatusResponse struct {
	Body store.CapacityStatus
}

// HandleStatus serves the capacity block the public form uses to enable or
// disable the submit action.
func (h *RegistrationHandler) HandleStatus(ctx context.Context, input *RegistrationStatusRequest) (*RegistrationStatusResponse, error) {
	cfg, err := h.configs.Get(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load configuration")
	}
	taken, err := h.regs.ActiveCount(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to count registrations")
	}
	return &RegistrationStatusResponse{Body: store.Capacity(cfg.SiteInfo, taken)}, nil
}

type CreateRegistrationRequest struct {
	Body forms.Submission `doc:"Field name to value map, shaped by the configured form fields"`
}

type CreateRegistrationResponse struct {
	Body struct {
		Success bool                      `json:"success"`
		Message string                    `json:"message"`
		Data    models.PublicRegistration `json:"data"`
	}
}

// HandleCreate validates a submission against the live form schema and
// persists it. The capacity gate is checked before any per-field validation
// and again atomically inside the insert transaction.
func (h *RegistrationHandler) HandleCreate(ctx context.Context, input *CreateRegistrationRequest) (*CreateRegistrationResponse, error) {
	cfg, err := h.configs.Get(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load configuration")
	}
	schema := cfg.FormFields
	info := cfg.SiteInfo

	// Unknown and hidden keys are stripped; the schema is the sole source
	// of truth for the submission's shape.
	cleaned := forms.Clean(schema, input.Body)

	var email *string
	if f, ok := schema.EmailField(); ok {
		if v, ok := cleaned[f.Name].(string); ok {
			lower := strings.ToLower(v)
			cleaned[f.Name] = lower
			email = &lower
		}
	}

	// Capacity precondition, short-circuits before field validation. An
	// already-registered email reports as a duplicate even when the event
	// is full.
	if !info.RegistrationOpen {
		return nil, huma.Error400BadRequest(store.ErrRegistrationClosed.Error())
	}
	taken, err := h.regs.ActiveCount(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to count registrations")
	}
	if store.Capacity(info, taken).IsFull {
		if email != nil {
			exists, err := h.regs.EmailExists(ctx, *email)
			if err != nil {
				return nil, huma.Error500InternalServerError("Failed to check registration")
			}
			if exists {
				return nil, huma.Error400BadRequest(store.ErrDuplicateEmail.Error())
			}
		}
		return nil, huma.Error400BadRequest(store.ErrCapacityFull.Error())
	}

	if errs := forms.Validate(schema, cleaned); len(errs) > 0 {
		return nil, huma.Error400BadRequest(errs.Join())
	}

	reg, err := h.regs.Create(ctx, cleaned, email, info.RegistrationOpen, info.MaxParticipants)
	switch {
	case errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrCapacityFull),
		errors.Is(err, store.ErrRegistrationClosed):
		return nil, huma.Error400BadRequest(err.Error())
	case err != nil:
		return nil, huma.Error500InternalServerError("Registration failed. Please try again later.")
	}

	// Fire-and-forget: the registration is already committed, notification
	// outcomes are only logged.
	notifier.Dispatch(*reg, schema, h.notifiers...)

	res := &CreateRegistrationResponse{}
	res.Body.Success = true
	res.Body.Message = "Registration successful! Check your email for confirmation."
	res.Body.Data = reg.Public()
	return res, nil
}

type ListRegistrationsRequest struct {
	auth.AuthInput
	Page   int      `query:"page" default:"1" minimum:"1"`
	Limit  int      `query:"limit" default:"10" minimum:"1" maximum:"100"`
	Status string   `query:"status" doc:"Filter by status (pending, confirmed, cancelled)"`
	Filter []string `query:"filter" doc:"field:value pairs matching schema-defined answers, e.g. filter=experience:Beginner"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type ListRegistrationsResponse struct {
	Body struct {
		Success    bool                  `json:"success"`
		Data       []models.Registration `json:"data"`
		Pagination Pagination            `json:"pagination"`
	}
}

func (h *RegistrationHandler) HandleList(ctx context.Context, input *ListRegistrationsRequest) (*ListRegistrationsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	opts := store.ListOptions{
		Page:   input.Page,
		Limit:  input.Limit,
		Status: models.RegistrationStatus(input.Status),
		Fields: make(map[string]string),
	}
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, huma.Error400BadRequest(store.ErrInvalidStatus.Error())
	}
	for _, pair := range input.Filter {
		name, value, ok := strings.Cut(pair, ":")
		if !ok || name == "" {
			return nil, huma.Error400BadRequest("filter must be a field:value pair")
		}
		opts.Fields[name] = value
	}

	regs, total, err := h.regs.List(ctx, opts)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch registrations")
	}
	if regs == nil {
		regs = []models.Registration{}
	}

	pages := total / int64(opts.Limit)
	if total%int64(opts.Limit) != 0 {
		pages++
	}

	res := &ListRegistrationsResponse{}
	res.Body.Success = true
	res.Body.Data = regs
	res.Body.Pagination = Pagination{Page: opts.Page, Limit: opts.Limit, Total: total, Pages: pages}
	return res, nil
}

type GetRegistrationRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type GetRegistrationResponse struct {
	Body struct {
		Success bool                `json:"success"`
		Data    models.Registration `json:"data"`
	}
}

func (h *RegistrationHandler) HandleGet(ctx context.Context, input *GetRegistrationRequest) (*GetRegistrationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	reg, err := h.regs.Get(ctx, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("Registration not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch registration")
	}

	res := &GetRegistrationResponse{}
	res.Body.Success = true
	res.Body.Data = *reg
	return res, nil
}

type UpdateStatusRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Status models.RegistrationStatus `json:"status" enum:"pending,confirmed,cancelled" required:"true"`
	}
}

type UpdateStatusResponse struct {
	Body struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Data    models.Registration `json:"data"`
	}
}

func (h *RegistrationHandler) HandleUpdateStatus(ctx context.Context, input *UpdateStatusRequest) (*UpdateStatusResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	reg, err := h.regs.UpdateStatus(ctx, input.ID, input.Body.Status)
	switch {
	case errors.Is(err, store.ErrInvalidStatus):
		return nil, huma.Error400BadRequest(err.Error())
	case errors.Is(err, store.ErrNotFound):
		return nil, huma.Error404NotFound("Registration not found")
	case err != nil:
		return nil, huma.Error500InternalServerError("Failed to update status")
	}

	res := &UpdateStatusResponse{}
	res.Body.Success = true
	res.Body.Message = "Status updated successfully"
	res.Body.Data = *reg
	return res, nil
}

type DeleteRegistrationRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type DeleteRegistrationResponse struct {
	Body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
}

func (h *RegistrationHandler) HandleDelete(ctx context.Context, input *DeleteRegistrationRequest) (*DeleteRegistrationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	err := h.regs.Delete(ctx, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("Registration not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete registration")
	}

	res := &DeleteRegistrationResponse{}
	res.Body.Success = true
	res.Body.Message = "Registration deleted successfully"
	return res, nil
}

type StatsRequest struct {
	auth.AuthInput
}

type StatsResponse struct {
	Body struct {
		Success bool        `json:"success"`
		Data    store.Stats `json:"data"`
	}
}

func (h *RegistrationHandler) HandleStats(ctx context.Context, input *StatsRequest) (*StatsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	stats, err := h.regs.Stats(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to fetch statistics")
	}

	res := &StatsResponse{}
	res.Body.Success = true
	res.Body.Data = stats
	return res, nil
}

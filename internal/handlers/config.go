package handlers

import (
	"context"
	"errors"

	"github.com/aarambh-bootcamp/registration-api/internal/auth"
	"github.com/aarambh-bootcamp/registration-api/internal/forms"
	"github.com/aarambh-bootcamp/registration-api/internal/models"
	"github.com/aarambh-bootcamp/registration-api/internal/store"
	"github.com/danielgtaylor/huma/v2"
)

type ConfigHandler struct {
	configs     *store.ConfigStore
	authHandler *auth.AuthHandler
}

func NewConfigHandler(configs *store.ConfigStore, authHandler *auth.AuthHandler) *ConfigHandler {
	return &ConfigHandler{configs: configs, authHandler: authHandler}
}

type GetConfigRequest struct{}

type GetConfigResponse struct {
	Body struct {
		FormFields forms.Schema    `json:"formFields"`
		SiteInfo   models.SiteInfo `json:"siteInfo"`
	}
}

// HandleGetConfig serves the form schema and site info to both the public
// form and the admin panel. Hidden fields are included; the public renderer
// filters on visible.
func (h *ConfigHandler) HandleGetConfig(ctx context.Context, input *GetConfigRequest) (*GetConfigResponse, error) {
	cfg, err := h.configs.Get(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load configuration")
	}

	res := &GetConfigResponse{}
	res.Body.FormFields = cfg.FormFields
	res.Body.SiteInfo = cfg.SiteInfo
	return res, nil
}

type UpdateFormFieldsRequest struct {
	auth.AuthInput
	Body []forms.Field
}

type UpdateFormFieldsResponse struct {
	Body struct {
		Success    bool         `json:"success"`
		Message    string       `json:"message"`
		FormFields forms.Schema `json:"formFields"`
	}
}

// HandleUpdateFormFields replaces the whole field list. Array position
// becomes the authoritative order.
func (h *ConfigHandler) HandleUpdateFormFields(ctx context.Context, input *UpdateFormFieldsRequest) (*UpdateFormFieldsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	cfg, err := h.configs.ReplaceFormFields(ctx, forms.Schema(input.Body))
	if err != nil {
		if errors.Is(err, store.ErrInvalidSchema) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("Failed to save form fields")
	}

	res := &UpdateFormFieldsResponse{}
	res.Body.Success = true
	res.Body.Message = "Form fields updated successfully"
	res.Body.FormFields = cfg.FormFields
	return res, nil
}

type UpdateSiteInfoRequest struct {
	auth.AuthInput
	Body models.SiteInfo
}

type UpdateSiteInfoResponse struct {
	Body struct {
		Success  bool            `json:"success"`
		Message  string          `json:"message"`
		SiteInfo models.SiteInfo `json:"siteInfo"`
	}
}

func (h *ConfigHandler) HandleUpdateSiteInfo(ctx context.Context, input *UpdateSiteInfoRequest) (*UpdateSiteInfoResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Authorization); err != nil {
		return nil, err
	}

	cfg, err := h.configs.UpdateSiteInfo(ctx, input.Body)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to save site info")
	}

	res := &UpdateSiteInfoResponse{}
	res.Body.Success = true
	res.Body.Message = "Site info updated successfully"
	res.Body.SiteInfo = cfg.SiteInfo
	return res, nil
}

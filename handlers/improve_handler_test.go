package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pygamecrafter-server/models"
	"pygamecrafter-server/services"
)

type fakeImprover struct {
	resp *models.ImproveResponse
	err  error
	got  *models.ImproveRequest
}

func (f *fakeImprover) Improve(ctx context.Context, req *models.ImproveRequest) (*models.ImproveResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newImproveApp(svc Improver) *fiber.App {
	app := fiber.New()
	app.Post("/improve-code", NewImproveHandler(svc).ImproveCode)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func TestImproveCodeRequiresPrompt(t *testing.T) {
	app := newImproveApp(&fakeImprover{})

	resp, body := postJSON(t, app, "/improve-code", `{"code":"x = 1"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Prompt is required", body["error"])
}

func TestImproveCodeRejectsMalformedBody(t *testing.T) {
	app := newImproveApp(&fakeImprover{})

	resp, body := postJSON(t, app, "/improve-code", `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestImproveCodeSuccess(t *testing.T) {
	fake := &fakeImprover{resp: &models.ImproveResponse{
		ModifiedCode: "import pygame",
		Explanation:  "Generated a demo.",
	}}
	app := newImproveApp(fake)

	resp, body := postJSON(t, app, "/improve-code", `{"code":"","prompt":"bouncing ball","selected_code":""}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "import pygame", body["modified_code"])
	assert.Equal(t, "Generated a demo.", body["explanation"])

	require.NotNil(t, fake.got)
	assert.Equal(t, "bouncing ball", fake.got.Prompt)
}

func TestImproveCodeErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing credential", &services.GenerationError{Kind: services.ErrMissingCredential, Message: "no key"}, fiber.StatusInternalServerError},
		{"malformed credential", &services.GenerationError{Kind: services.ErrMalformedCredential, Message: "wrong provider"}, fiber.StatusInternalServerError},
		{"unauthorized", &services.GenerationError{Kind: services.ErrUnauthorized, Status: 401, Message: "rejected"}, fiber.StatusUnauthorized},
		{"upstream passthrough", &services.GenerationError{Kind: services.ErrUpstream, Status: 503, Message: "over capacity"}, fiber.StatusServiceUnavailable},
		{"transport", &services.GenerationError{Kind: services.ErrTransport, Message: "timeout"}, fiber.StatusBadGateway},
		{"empty content", &services.GenerationError{Kind: services.ErrEmptyContent, Message: "empty"}, fiber.StatusInternalServerError},
		{"missing code block", &services.GenerationError{Kind: services.ErrMissingCode, Message: "no code"}, fiber.StatusInternalServerError},
		{"unexpected", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newImproveApp(&fakeImprover{err: tc.err})

			resp, body := postJSON(t, app, "/improve-code", `{"prompt":"p"}`)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.err.Error(), body["error"])
		})
	}
}

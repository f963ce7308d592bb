package billing

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	svc := NewService(setupTestDB(t), zap.NewNop(), nil, "")
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if len(raw) > 0 {
		json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestHandleImportPatients(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := postJSON(t, app, "/patients",
		`[{"firstName": "Rick", "lastName": "Deckard", "dateOfBirth": "2094-02-01", "externalId": "5"}]`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OK", body["status"])

	summary, ok := body["summary"].(map[string]any)
	assert.True(t, ok)
	assert.EqualValues(t, 1, summary["received"])
	assert.EqualValues(t, 1, summary["inserted"])
}

func TestHandleImportPatients_RejectsNonArrayBody(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := postJSON(t, app, "/patients", `{"firstName": "Rick"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "JSON array")
}

func TestHandleImportPayments(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := postJSON(t, app, "/patients",
		`[{"firstName": "Rick", "lastName": "Deckard", "dateOfBirth": "2094-02-01", "externalId": "5"}]`)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := postJSON(t, app, "/payments",
		`[{"amount": 4.46, "patientId": 1, "externalId": "501"}]`)

	assert.Equal(t, fiber.StatusOK, status)
	summary, ok := body["summary"].(map[string]any)
	assert.True(t, ok)
	assert.EqualValues(t, 1, summary["inserted"])
}

func TestHandleListPatients(t *testing.T) {
	app, _ := setupTestApp(t)

	postJSON(t, app, "/patients",
		`[{"firstName": "Rick", "lastName": "Deckard", "dateOfBirth": "2094-02-01", "externalId": "5"},
		  {"firstName": "Rachael", "lastName": "Tyrell", "dateOfBirth": "2093-05-10", "externalId": "6"}]`)
	postJSON(t, app, "/payments",
		`[{"amount": 25.61, "patientId": 1, "externalId": "501"}]`)

	t.Run("All", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/patients", nil))
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var patients []map[string]any
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&patients))
		assert.Len(t, patients, 2)
	})

	t.Run("With Payment Bounds", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/patients?payment_min=20&payment_max=30", nil))
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var patients []map[string]any
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&patients))
		assert.Len(t, patients, 1)
		assert.Equal(t, "5", patients[0]["external_id"])
	})

	t.Run("Bad Bound", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/patients?payment_min=abc", nil))
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleListPayments(t *testing.T) {
	app, _ := setupTestApp(t)

	postJSON(t, app, "/patients",
		`[{"firstName": "Rick", "lastName": "Deckard", "dateOfBirth": "2094-02-01", "externalId": "5"}]`)
	postJSON(t, app, "/payments",
		`[{"amount": 4.46, "patientId": 1, "externalId": "501"},
		  {"amount": 10.00, "patientId": 1, "externalId": "502"}]`)

	t.Run("By External ID", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/payments?external_id=5", nil))
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var payments []map[string]any
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payments))
		assert.Len(t, payments, 2)
	})

	t.Run("Unknown External ID", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/payments?external_id=nobody", nil))
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var payments []map[string]any
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payments))
		assert.Empty(t, payments)
	})
}

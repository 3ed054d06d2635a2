package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arkiv-dev/arkiv/internal/config"
	"github.com/arkiv-dev/arkiv/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Server.Addr = ":0"
	cfg.Server.JWTSecret = "test-secret"
	cfg.Database.URL = filepath.Join(dir, "test.sqlite")
	cfg.Storage.Dir = filepath.Join(dir, "uploads")

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	return srv
}

// envelope is the generic response shape the test suite decodes into.
type testEnvelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     map[string][]string `json:"errors"`
	Pagination *paginationBlock    `json:"pagination"`
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) (int, testEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func registerUser(t *testing.T, srv *Server, name, email, password string) models.User {
	t.Helper()

	code, env := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, code)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	return user
}

func loginUser(t *testing.T, srv *Server, identifier, password string) string {
	t.Helper()

	code, env := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	require.Equal(t, http.StatusOK, code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	srv := newTestServer(t)

	first := registerUser(t, srv, "Alice", "alice@example.com", "password123")
	require.Equal(t, models.RoleAdmin, first.Role)

	second := registerUser(t, srv, "Bob", "bob@example.com", "password123")
	require.Equal(t, models.RoleStaff, second.Role)
}

func TestRegisterDoesNotIssueToken(t *testing.T) {
	srv := newTestServer(t)

	code, env := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotContains(t, payload, "token")
}

func TestLoginByNameOrEmail(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice", "alice@example.com", "password123")

	loginUser(t, srv, "alice@example.com", "password123")
	loginUser(t, srv, "alice", "password123")

	code, env := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"identifier": "alice",
		"password":   "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "error", env.Status)
	require.Equal(t, "Invalid credentials", env.Message)
}

func TestAuthenticatedMe(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Alice", "alice@example.com", "password123")
	token := loginUser(t, srv, "alice@example.com", "password123")

	code, env := doJSON(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	require.Equal(t, "alice@example.com", user.Email)
}

func TestMissingTokenRejected(t *testing.T) {
	srv := newTestServer(t)

	code, env := doJSON(t, srv, http.MethodGet, "/api/documents", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "error", env.Status)
	require.NotEmpty(t, env.Message)
}

func TestAdminGateOnCategoryMutations(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	registerUser(t, srv, "Staff", "staff@example.com", "password123")

	staffToken := loginUser(t, srv, "staff@example.com", "password123")
	code, _ := doJSON(t, srv, http.MethodPost, "/api/categories", staffToken, map[string]string{
		"name": "Invoices",
	})
	require.Equal(t, http.StatusForbidden, code)

	adminToken := loginUser(t, srv, "admin@example.com", "password123")
	code, env := doJSON(t, srv, http.MethodPost, "/api/categories", adminToken, map[string]string{
		"name": "Tax Returns 2026",
	})
	require.Equal(t, http.StatusCreated, code)

	var category models.Category
	require.NoError(t, json.Unmarshal(env.Data, &category))
	require.Equal(t, "tax-returns-2026", category.Slug)

	// Staff can still read categories.
	code, _ = doJSON(t, srv, http.MethodGet, "/api/categories", staffToken, nil)
	require.Equal(t, http.StatusOK, code)
}

func uploadTestDocument(t *testing.T, srv *Server, token, title, categoryID string, content []byte) models.Document {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("category_id", categoryID))
	require.NoError(t, w.WriteField("document_date", "2026-08-30"))
	part, err := w.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var doc models.Document
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	return doc
}

func createTestCategory(t *testing.T, srv *Server, token, name string) models.Category {
	t.Helper()

	code, env := doJSON(t, srv, http.MethodPost, "/api/categories", token, map[string]string{
		"name": name,
	})
	require.Equal(t, http.StatusCreated, code)

	var category models.Category
	require.NoError(t, json.Unmarshal(env.Data, &category))
	return category
}

func TestDocumentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	token := loginUser(t, srv, "admin@example.com", "password123")
	category := createTestCategory(t, srv, token, "Reports")

	content := []byte("%PDF-1.4 test content")
	doc := uploadTestDocument(t, srv, token, "Quarterly Report", category.ID, content)
	require.NotEmpty(t, doc.DocumentNumber)
	require.Equal(t, "report.pdf", doc.FileName)
	require.Equal(t, int64(len(content)), doc.FileSize)

	// The listing shows it, with pagination.
	code, env := doJSON(t, srv, http.MethodGet, "/api/documents", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Pagination)
	require.Equal(t, 1, env.Pagination.Total)

	// Download returns the original bytes with an attachment header.
	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+doc.ID+"/download", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "report.pdf")
	require.Equal(t, content, rec.Body.Bytes())

	// Delete soft-deletes: gone from the listing and from GET.
	code, _ = doJSON(t, srv, http.MethodDelete, "/api/documents/"+doc.ID, token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, srv, http.MethodGet, "/api/documents", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 0, env.Pagination.Total)

	code, _ = doJSON(t, srv, http.MethodGet, "/api/documents/"+doc.ID, token, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestDocumentSearchFilter(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	token := loginUser(t, srv, "admin@example.com", "password123")
	category := createTestCategory(t, srv, token, "Reports")

	uploadTestDocument(t, srv, token, "Annual Budget", category.ID, []byte("a"))
	uploadTestDocument(t, srv, token, "Meeting Minutes", category.ID, []byte("b"))

	code, env := doJSON(t, srv, http.MethodGet, "/api/documents?search=budget", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, env.Pagination.Total)

	var docs []models.Document
	require.NoError(t, json.Unmarshal(env.Data, &docs))
	require.Len(t, docs, 1)
	require.Equal(t, "Annual Budget", docs[0].Title)
}

func TestUploadValidation(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	token := loginUser(t, srv, "admin@example.com", "password123")

	// Missing title, category and file.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "error", env.Status)
	require.Contains(t, env.Errors, "title")
	require.Contains(t, env.Errors, "file")
}

func TestUploadRejectsMalformedDate(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	token := loginUser(t, srv, "admin@example.com", "password123")
	category := createTestCategory(t, srv, token, "Reports")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Report"))
	require.NoError(t, w.WriteField("category_id", category.ID))
	require.NoError(t, w.WriteField("document_date", "30/08/2026"))
	part, err := w.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Contains(t, env.Errors, "document_date")
}

func TestUploadNotifiesAdmins(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	registerUser(t, srv, "Staff", "staff@example.com", "password123")

	adminToken := loginUser(t, srv, "admin@example.com", "password123")
	staffToken := loginUser(t, srv, "staff@example.com", "password123")
	category := createTestCategory(t, srv, adminToken, "Reports")

	uploadTestDocument(t, srv, staffToken, "Staff Upload", category.ID, []byte("x"))

	code, env := doJSON(t, srv, http.MethodGet, "/api/notifications", adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	var payload struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Equal(t, 1, payload.UnreadCount)
	require.Len(t, payload.Notifications, 1)

	// The uploader gets no notification about their own upload.
	code, env = doJSON(t, srv, http.MethodGet, "/api/notifications", staffToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Equal(t, 0, payload.UnreadCount)

	// Mark all read clears the counter.
	code, _ = doJSON(t, srv, http.MethodPost, "/api/notifications/read-all", adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(t, srv, http.MethodGet, "/api/notifications", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Equal(t, 0, payload.UnreadCount)
}

func TestMarkSingleNotificationRead(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	registerUser(t, srv, "Staff", "staff@example.com", "password123")

	adminToken := loginUser(t, srv, "admin@example.com", "password123")
	staffToken := loginUser(t, srv, "staff@example.com", "password123")
	category := createTestCategory(t, srv, adminToken, "Reports")
	uploadTestDocument(t, srv, staffToken, "Staff Upload", category.ID, []byte("x"))

	code, env := doJSON(t, srv, http.MethodGet, "/api/notifications", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var payload struct {
		Notifications []models.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Len(t, payload.Notifications, 1)

	id := payload.Notifications[0].ID
	code, env = doJSON(t, srv, http.MethodPost, "/api/notifications/"+id+"/read", adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	var marked models.Notification
	require.NoError(t, json.Unmarshal(env.Data, &marked))
	require.True(t, marked.IsRead)

	// Other users cannot mark it.
	code, _ = doJSON(t, srv, http.MethodPost, "/api/notifications/"+id+"/read", staffToken, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestDeleteCategoryInUse(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	token := loginUser(t, srv, "admin@example.com", "password123")
	category := createTestCategory(t, srv, token, "Reports")
	uploadTestDocument(t, srv, token, "Doc", category.ID, []byte("x"))

	code, env := doJSON(t, srv, http.MethodDelete, "/api/categories/"+category.ID, token, nil)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "error", env.Status)

	// Removing the document frees the category.
	var docs []models.Document
	_, listEnv := doJSON(t, srv, http.MethodGet, "/api/documents", token, nil)
	require.NoError(t, json.Unmarshal(listEnv.Data, &docs))
	code, _ = doJSON(t, srv, http.MethodDelete, "/api/documents/"+docs[0].ID, token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, srv, http.MethodDelete, "/api/categories/"+category.ID, token, nil)
	require.Equal(t, http.StatusOK, code)
}

func TestUpdateDocumentMetadata(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	token := loginUser(t, srv, "admin@example.com", "password123")
	category := createTestCategory(t, srv, token, "Reports")
	doc := uploadTestDocument(t, srv, token, "Draft", category.ID, []byte("x"))

	code, env := doJSON(t, srv, http.MethodPut, "/api/documents/"+doc.ID, token, map[string]string{
		"title":  "Final",
		"status": "archived",
	})
	require.Equal(t, http.StatusOK, code)

	var updated models.Document
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, "Final", updated.Title)
	require.Equal(t, models.StatusArchived, updated.Status)

	// Unknown statuses are rejected.
	code, _ = doJSON(t, srv, http.MethodPut, "/api/documents/"+doc.ID, token, map[string]string{
		"status": "bogus",
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestUpdateCategory(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	token := loginUser(t, srv, "admin@example.com", "password123")
	category := createTestCategory(t, srv, token, "Old Name")

	code, env := doJSON(t, srv, http.MethodPut, "/api/categories/"+category.ID, token, map[string]string{
		"name": "New Name",
	})
	require.Equal(t, http.StatusOK, code)

	var updated models.Category
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, "New Name", updated.Name)
	require.Equal(t, "new-name", updated.Slug)
}

func TestUserManagement(t *testing.T) {
	srv := newTestServer(t)
	admin := registerUser(t, srv, "Admin", "admin@example.com", "password123")
	token := loginUser(t, srv, "admin@example.com", "password123")

	code, env := doJSON(t, srv, http.MethodPost, "/api/users", token, map[string]string{
		"name":     "Carol",
		"email":    "carol@example.com",
		"password": "password123",
		"role":     "staff",
	})
	require.Equal(t, http.StatusCreated, code)

	var created models.User
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, models.RoleStaff, created.Role)

	// The new account can log in right away.
	loginUser(t, srv, "carol@example.com", "password123")

	code, env = doJSON(t, srv, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, code)
	var users []models.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 2)

	// Self-deletion is refused.
	code, _ = doJSON(t, srv, http.MethodDelete, "/api/users/"+admin.ID, token, nil)
	require.Equal(t, http.StatusConflict, code)

	code, _ = doJSON(t, srv, http.MethodDelete, "/api/users/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, code)
}

func TestActivityLogRecordsActions(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Admin", "admin@example.com", "password123")
	token := loginUser(t, srv, "admin@example.com", "password123")

	code, env := doJSON(t, srv, http.MethodGet, "/api/activity-logs", token, nil)
	require.Equal(t, http.StatusOK, code)

	var logs []models.ActivityLog
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	require.NotEmpty(t, logs)
	require.Equal(t, "login", logs[0].Action)
}

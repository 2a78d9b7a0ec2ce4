package imports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielk69/AWIL/importer"
)

// --- Mock Importer ---

type MockImporter struct {
	Result *importer.Result
	Err    error

	lastFilename string
	lastContent  string
}

func (m *MockImporter) ImportFile(ctx context.Context, filename string, r io.Reader) (*importer.Result, error) {
	m.lastFilename = filename
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.lastContent = string(content)
	return m.Result, m.Err
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/data/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleImport(t *testing.T) {
	malformed := fmt.Errorf("%w at row 3: no category labels", importer.ErrMalformedInput)

	testCases := []struct {
		name               string
		request            func(t *testing.T) *http.Request
		mockImporterSetup  func() *MockImporter
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkImporterCall  func(t *testing.T, m *MockImporter)
	}{
		{
			name: "Success",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "catalog.xlsx", "sheet bytes")
			},
			mockImporterSetup: func() *MockImporter {
				return &MockImporter{Result: &importer.Result{Themes: 1, Subthemes: 1, Categories: 2, Names: 2, Links: 3}}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Response
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "Data imported successfully", resp.Message)
				require.NotNil(t, resp.Result)
				assert.Equal(t, 2, resp.Result.Categories)
				assert.Equal(t, 3, resp.Result.Links)
			},
			checkImporterCall: func(t *testing.T, m *MockImporter) {
				assert.Equal(t, "catalog.xlsx", m.lastFilename)
				assert.Equal(t, "sheet bytes", m.lastContent)
			},
		},
		{
			name: "No file uploaded",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "document", "catalog.xlsx", "sheet bytes")
			},
			mockImporterSetup:  func() *MockImporter { return &MockImporter{} },
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Equal(t, "No file uploaded", errResp["error"])
			},
			checkImporterCall: func(t *testing.T, m *MockImporter) {
				assert.Empty(t, m.lastFilename, "ImportFile should not be called without a file")
			},
		},
		{
			name: "Not a multipart body",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest("POST", "/api/data/import", bytes.NewBufferString("plain"))
			},
			mockImporterSetup:  func() *MockImporter { return &MockImporter{} },
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name: "Malformed spreadsheet",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "catalog.xlsx", "sheet bytes")
			},
			mockImporterSetup: func() *MockImporter {
				return &MockImporter{Err: malformed}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Equal(t, "malformed_input", errResp["error"])
				assert.Contains(t, errResp["message"], "no category labels")
			},
		},
		{
			name: "Storage failure",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "catalog.xlsx", "sheet bytes")
			},
			mockImporterSetup: func() *MockImporter {
				return &MockImporter{Err: fmt.Errorf("%w: commit: %w", importer.ErrStorageFailure, errors.New("db down"))}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Equal(t, "Error importing data", errResp["error"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockImporter := tc.mockImporterSetup()
			handler := NewImportHandler(mockImporter, 0, nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleImport(rec, tc.request(t))

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkImporterCall != nil {
				tc.checkImporterCall(t, mockImporter)
			}
		})
	}
}

func TestHandleImport_TooLarge(t *testing.T) {
	mockImporter := &MockImporter{}
	handler := NewImportHandler(mockImporter, 64, nil)
	rec := httptest.NewRecorder()

	handler.HandleImport(rec, uploadRequest(t, "file", "catalog.xlsx", string(bytes.Repeat([]byte("x"), 1024))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, mockImporter.lastFilename)
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/core"
	"veridoc/internal/detector"
)

// fakeService records the request it received and returns canned output.
type fakeService struct {
	records []detector.ValidationRecord
	err     error

	gotInputs []core.DocumentInput
	gotRef    detector.ReferenceProfile
}

func (f *fakeService) ValidateRequest(_ context.Context, inputs []core.DocumentInput, ref detector.ReferenceProfile) ([]detector.ValidationRecord, error) {
	f.gotInputs = inputs
	f.gotRef = ref
	return f.records, f.err
}

func newTestServer(service ValidationService) *WebServer {
	return NewWebServer("127.0.0.1:8080", 1<<20, service)
}

// buildMultipart assembles a request body with form values and file fields.
func buildMultipart(t *testing.T, values map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range values {
		require.NoError(t, writer.WriteField(key, value))
	}
	for field, content := range files {
		part, err := writer.CreateFormFile(field, field+".pdf")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestServeHome(t *testing.T) {
	ws := newTestServer(&fakeService{})
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nombreConductor")
}

func TestHealth(t *testing.T) {
	ws := newTestServer(&fakeService{})
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "veridoc-web", health["service"])
}

func TestValidateRejectsGet(t *testing.T) {
	ws := newTestServer(&fakeService{})
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/validar", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidateRequiresReferenceFields(t *testing.T) {
	ws := newTestServer(&fakeService{})
	body, contentType := buildMultipart(t,
		map[string]string{"cedula": "12345678"}, // nombreConductor missing
		map[string][]byte{"documento": []byte("datos")})

	req := httptest.NewRequest("POST", "/validar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "obligatorios")
}

func TestValidateRequiresIdentityUpload(t *testing.T) {
	ws := newTestServer(&fakeService{})
	body, contentType := buildMultipart(t,
		map[string]string{"cedula": "12345678", "nombreConductor": "Juan Perez"},
		map[string][]byte{"certificadoEPS": []byte("datos")})

	req := httptest.NewRequest("POST", "/validar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "identidad")
}

func TestValidateSuccess(t *testing.T) {
	service := &fakeService{records: []detector.ValidationRecord{
		{Kind: detector.KindIdentity, Status: detector.StatusOK, Valid: true},
		{Kind: detector.KindRisk, Status: detector.StatusOK, Valid: false},
	}}
	ws := newTestServer(service)

	body, contentType := buildMultipart(t,
		map[string]string{
			"cedula":              "12345678",
			"nombreConductor":     "Juan Carlos Perez",
			"nombreTransportador": "Transportes Andinos",
		},
		map[string][]byte{
			"documento":      []byte("cedula-bytes"),
			"certificadoARL": []byte("arl-bytes"),
		})

	req := httptest.NewRequest("POST", "/validar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Resultados, 2)

	// The service received identity first, then the ARL certificate
	require.Len(t, service.gotInputs, 2)
	assert.Equal(t, detector.KindIdentity, service.gotInputs[0].Kind)
	assert.Equal(t, []byte("cedula-bytes"), service.gotInputs[0].Data)
	assert.Equal(t, detector.KindRisk, service.gotInputs[1].Kind)
	assert.Equal(t, "Juan Carlos Perez", service.gotRef.Name)
	assert.Equal(t, "Transportes Andinos", service.gotRef.TransporterName)
}

func TestValidateIdentityFailureReturns422(t *testing.T) {
	service := &fakeService{
		records: []detector.ValidationRecord{
			detector.ErrorRecord(detector.KindIdentity, errors.New("ocr failed")),
		},
		err: errors.New("identity document could not be processed: ocr failed"),
	}
	ws := newTestServer(service)

	body, contentType := buildMultipart(t,
		map[string]string{"cedula": "12345678", "nombreConductor": "Juan Perez"},
		map[string][]byte{"documento": []byte("ilegible")})

	req := httptest.NewRequest("POST", "/validar", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "identity document")
	require.Len(t, resp.Resultados, 1)
	assert.Equal(t, detector.StatusError, resp.Resultados[0].Status)
}

func TestFormats(t *testing.T) {
	ws := newTestServer(&fakeService{})
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/formats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "json")
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web exposes document validation over HTTP. The endpoint
// mirrors the intake form: one multipart POST carrying the reference
// fields and up to seven document uploads.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"veridoc/internal/core"
	"veridoc/internal/detector"
	"veridoc/internal/formatters"
	"veridoc/internal/version"

	// Import formatters to register them
	_ "veridoc/internal/formatters/json"
	_ "veridoc/internal/formatters/text"
	_ "veridoc/internal/formatters/yaml"
)

// uploadFields maps multipart field names to document kinds. The
// "documento" field is the identity card and is mandatory.
var uploadFields = []struct {
	Field string
	Kind  string
}{
	{"documento", detector.KindIdentity},
	{"certificadoEPS", detector.KindAffiliation},
	{"certificadoARL", detector.KindRisk},
	{"certificadoPension", detector.KindPension},
	{"licencia", detector.KindLicense},
	{"poder", detector.KindAttorney},
	{"formatoCreacion", detector.KindTransportForm},
}

// ValidationService is the orchestration boundary the server calls.
type ValidationService interface {
	ValidateRequest(ctx context.Context, inputs []core.DocumentInput, ref detector.ReferenceProfile) ([]detector.ValidationRecord, error)
}

// WebServer represents the web server instance
type WebServer struct {
	addr           string
	maxUploadBytes int64
	service        ValidationService
	server         *http.Server
}

// ValidateResponse is the JSON envelope of POST /validar.
type ValidateResponse struct {
	Success    bool                        `json:"success"`
	Resultados []detector.ValidationRecord `json:"resultados,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

// NewWebServer creates a new web server instance
func NewWebServer(addr string, maxUploadBytes int64, service ValidationService) *WebServer {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &WebServer{
		addr:           addr,
		maxUploadBytes: maxUploadBytes,
		service:        service,
	}
}

// Start starts the web server, trying successive ports when the
// requested one is busy.
func (ws *WebServer) Start() error {
	mux := ws.routes()

	host, portStr, err := net.SplitHostPort(ws.addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", ws.addr, err)
	}
	basePort := 0
	if _, err := fmt.Sscanf(portStr, "%d", &basePort); err != nil {
		return fmt.Errorf("invalid port in address %q: %w", ws.addr, err)
	}

	var lastError error
	for i := 0; i < 10; i++ {
		currentAddr := net.JoinHostPort(host, fmt.Sprint(basePort+i))

		listener, err := net.Listen("tcp", currentAddr)
		if err != nil {
			lastError = err
			if i == 0 {
				fmt.Printf("Address %s is not available, trying alternative ports...\n", currentAddr)
			}
			continue
		}

		ws.server = ws.createSecureServer(currentAddr, mux)

		fmt.Printf("veridoc web server listening on %s\n", currentAddr)
		if err := ws.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lastError = err
			continue
		}
		return nil
	}

	return fmt.Errorf("could not bind a port in range %d-%d: %v", basePort, basePort+9, lastError)
}

// Stop stops the web server
func (ws *WebServer) Stop() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}

// routes configures all HTTP route handlers
func (ws *WebServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.serveHome)
	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/validar", ws.handleValidate)
	mux.HandleFunc("/formats", ws.handleFormats)
	return mux
}

// createSecureServer creates an HTTP server with security timeouts
func (ws *WebServer) createSecureServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: handler,
		// Timeout for reading request headers (prevents slow header attacks)
		ReadHeaderTimeout: 15 * time.Second,
		// Timeout for reading entire request, generous for large scans
		ReadTimeout: 60 * time.Second,
		// Timeout for writing response; OCR on a slow box takes a while
		WriteTimeout: 120 * time.Second,
		// Timeout for idle connections
		IdleTimeout: 60 * time.Second,
	}
}

// serveHome serves a minimal intake form
func (ws *WebServer) serveHome(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
	responseWriter.WriteHeader(http.StatusOK)
	responseWriter.Write([]byte(homePage))
}

// handleHealth provides a health check endpoint with version information
func (ws *WebServer) handleHealth(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	versionInfo := version.Full()
	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "veridoc-web",
		"version":   versionInfo["version"],
		"build_info": map[string]interface{}{
			"version":    versionInfo["version"],
			"commit":     versionInfo["commit"],
			"build_date": versionInfo["buildDate"],
			"go_version": versionInfo["goVersion"],
			"platform":   versionInfo["platform"],
		},
	}

	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(http.StatusOK)
	json.NewEncoder(responseWriter).Encode(healthData)
}

// handleFormats lists the output formats the export layer supports
func (ws *WebServer) handleFormats(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	responseWriter.Header().Set("Content-Type", "application/json")
	json.NewEncoder(responseWriter).Encode(formatters.GetSupportedFormats())
}

// handleValidate processes the multipart document set and returns the
// per-document validation records.
func (ws *WebServer) handleValidate(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	request.Body = http.MaxBytesReader(responseWriter, request.Body, ws.maxUploadBytes)
	if err := request.ParseMultipartForm(ws.maxUploadBytes); err != nil {
		ws.sendError(responseWriter, http.StatusBadRequest, "no se pudo leer el formulario")
		return
	}

	ref := detector.ReferenceProfile{
		Name:            strings.TrimSpace(request.FormValue("nombreConductor")),
		Identifier:      strings.TrimSpace(request.FormValue("cedula")),
		TransporterName: strings.TrimSpace(request.FormValue("nombreTransportador")),
		TransporterCode: strings.TrimSpace(request.FormValue("codigoTransportador")),
	}
	if ref.Name == "" || ref.Identifier == "" {
		ws.sendError(responseWriter, http.StatusBadRequest, "nombreConductor y cedula son obligatorios")
		return
	}

	inputs, err := ws.collectUploads(request)
	if err != nil {
		ws.sendError(responseWriter, http.StatusBadRequest, err.Error())
		return
	}
	if len(inputs) == 0 || inputs[0].Kind != detector.KindIdentity {
		ws.sendError(responseWriter, http.StatusBadRequest, "el documento de identidad es obligatorio")
		return
	}

	records, err := ws.service.ValidateRequest(request.Context(), inputs, ref)
	if err != nil {
		// The identity document failed processing; the request cannot
		// produce a meaningful verdict.
		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(responseWriter).Encode(ValidateResponse{
			Success:    false,
			Resultados: records,
			Error:      err.Error(),
		})
		return
	}

	responseWriter.Header().Set("Content-Type", "application/json")
	json.NewEncoder(responseWriter).Encode(ValidateResponse{
		Success:    true,
		Resultados: records,
	})
}

// collectUploads reads the known multipart fields into document
// inputs, identity first.
func (ws *WebServer) collectUploads(request *http.Request) ([]core.DocumentInput, error) {
	var inputs []core.DocumentInput

	for _, field := range uploadFields {
		headers := request.MultipartForm.File[field.Field]
		if len(headers) == 0 {
			continue
		}

		file, err := headers[0].Open()
		if err != nil {
			return nil, fmt.Errorf("no se pudo abrir el archivo %s", field.Field)
		}
		data, err := io.ReadAll(io.LimitReader(file, ws.maxUploadBytes))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("no se pudo leer el archivo %s", field.Field)
		}

		inputs = append(inputs, core.DocumentInput{
			Kind:     field.Kind,
			Filename: headers[0].Filename,
			Data:     data,
		})
	}

	return inputs, nil
}

// sendError writes a JSON error envelope
func (ws *WebServer) sendError(responseWriter http.ResponseWriter, status int, message string) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(status)
	json.NewEncoder(responseWriter).Encode(ValidateResponse{
		Success: false,
		Error:   message,
	})
}

const homePage = `<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>veridoc</title></head>
<body>
<h1>Validación de documentos</h1>
<form action="/validar" method="post" enctype="multipart/form-data">
  <p><label>Nombre del conductor <input name="nombreConductor" required></label></p>
  <p><label>Cédula <input name="cedula" required></label></p>
  <p><label>Transportador <input name="nombreTransportador"></label></p>
  <p><label>Código transportador <input name="codigoTransportador"></label></p>
  <p><label>Cédula (archivo) <input type="file" name="documento" required></label></p>
  <p><label>Certificado EPS <input type="file" name="certificadoEPS"></label></p>
  <p><label>Certificado ARL <input type="file" name="certificadoARL"></label></p>
  <p><label>Certificado de pensión <input type="file" name="certificadoPension"></label></p>
  <p><label>Licencia de conducción <input type="file" name="licencia"></label></p>
  <p><label>Poder <input type="file" name="poder"></label></p>
  <p><label>Formato de creación <input type="file" name="formatoCreacion"></label></p>
  <p><button type="submit">Validar</button></p>
</form>
</body>
</html>`

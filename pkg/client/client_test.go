// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// mockServer creates a test server that returns the given response.
func mockServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// jsonHandler creates a handler that writes v as JSON with the given status.
func jsonHandler(v interface{}, statusCode int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(v)
	}
}

// textHandler creates a handler that writes a plain-text body.
func textHandler(body string, statusCode int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(statusCode)
		io.WriteString(w, body)
	}
}

func TestNew(t *testing.T) {
	c := New("http://localhost:3000/")

	if c.BaseURL() != "http://localhost:3000" {
		t.Errorf("BaseURL() = %q, want trailing slash removed", c.BaseURL())
	}

	if c.Clients == nil || c.Cases == nil || c.Documents == nil {
		t.Error("entity sub-clients not initialized")
	}
	if c.Lookups == nil || c.Assistant == nil || c.Admin == nil || c.Reports == nil || c.Health == nil {
		t.Error("auxiliary sub-clients not initialized")
	}
}

func TestNewWithOptions(t *testing.T) {
	t.Run("WithTimeout", func(t *testing.T) {
		c := New("http://localhost:3000", WithTimeout(60*time.Second))
		if c.httpClient.Timeout != 60*time.Second {
			t.Errorf("Timeout = %v, want 60s", c.httpClient.Timeout)
		}
	})

	t.Run("WithHTTPClient", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		c := New("http://localhost:3000", WithHTTPClient(custom))
		if c.httpClient != custom {
			t.Error("custom HTTP client not used")
		}
	})

	t.Run("WithReportsPath", func(t *testing.T) {
		c := New("http://localhost:3000", WithReportsPath("/api/reports"))
		if c.Reports.path != "/api/reports" {
			t.Errorf("Reports path = %q, want %q", c.Reports.path, "/api/reports")
		}
	})

	t.Run("WithUserAgent", func(t *testing.T) {
		var got string
		srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
			w.Write([]byte(`[]`))
		})
		c := New(srv.URL, WithUserAgent("lawia-ctl/1"))
		if _, err := c.Cases.List(context.Background()); err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got != "lawia-ctl/1" {
			t.Errorf("User-Agent = %q, want %q", got, "lawia-ctl/1")
		}
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 500, Message: "Database connection error"}
	if err.Error() != "500 - Database connection error" {
		t.Errorf("Error() = %q", err.Error())
	}

	bare := &APIError{StatusCode: 502}
	if bare.Error() != "502" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "502")
	}

	if !errors.Is(&APIError{StatusCode: 404}, ErrNotFound) {
		t.Error("404 should match ErrNotFound")
	}
	if errors.Is(&APIError{StatusCode: 400}, ErrNotFound) {
		t.Error("400 should not match ErrNotFound")
	}
}

func TestParseResponseErrors(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantStatus  int
		wantMessage string
		logical     bool
	}{
		{
			name:        "json error body",
			handler:     jsonHandler(map[string]string{"error": "Nome is required."}, http.StatusBadRequest),
			wantStatus:  400,
			wantMessage: "Nome is required.",
		},
		{
			name:        "raw text body",
			handler:     textHandler("Database query error: boom", http.StatusInternalServerError),
			wantStatus:  500,
			wantMessage: "Database query error: boom",
		},
		{
			name:        "nested error envelope",
			handler:     jsonHandler(map[string]interface{}{"error": map[string]string{"code": "X", "message": "nested"}}, http.StatusConflict),
			wantStatus:  409,
			wantMessage: "nested",
		},
		{
			name:        "logical error in 200",
			handler:     jsonHandler(map[string]string{"error": "Failed to fetch clients list: timeout"}, http.StatusOK),
			wantMessage: "Failed to fetch clients list: timeout",
			logical:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := mockServer(t, tt.handler)
			c := New(srv.URL)

			_, err := c.Cases.List(context.Background())
			if err == nil {
				t.Fatal("List() expected error")
			}

			if tt.logical {
				var logical *LogicalError
				if !errors.As(err, &logical) {
					t.Fatalf("error type = %T, want *LogicalError", err)
				}
				if logical.Message != tt.wantMessage {
					t.Errorf("Message = %q, want %q", logical.Message, tt.wantMessage)
				}
				return
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T, want *APIError", err)
			}
			if apiErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.wantStatus)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url)
	_, err := c.Clients.List(context.Background())

	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("error type = %T, want *TransportError", err)
	}
	if tErr.Method != http.MethodGet || tErr.Path != "/api/clientes" {
		t.Errorf("TransportError = %s %s", tErr.Method, tErr.Path)
	}
	if StatusCode(err) != 0 {
		t.Errorf("StatusCode() = %d, want 0", StatusCode(err))
	}
}

func TestClientsCreateSendsQueryParameters(t *testing.T) {
	var got *http.Request
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Client created successfully","id_cliente":7}`))
	})

	c := New(srv.URL)
	id, err := c.Clients.Create(context.Background(), ClientInput{
		Nome:     "Ana Silva",
		Email:    "ana@x.com",
		Telefone: "11999999999",
		Endereco: "Rua A, 1",
		TaxID:    Individual{CPF: "12345678900"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 7 {
		t.Errorf("Create() id = %d, want 7", id)
	}

	if got.Method != http.MethodPost {
		t.Errorf("Method = %s, want POST", got.Method)
	}
	if got.URL.Path != "/api/clientes" {
		t.Errorf("Path = %s, want /api/clientes", got.URL.Path)
	}
	if got.ContentLength > 0 {
		t.Errorf("ContentLength = %d, want no body", got.ContentLength)
	}
	q := got.URL.Query()
	want := map[string]string{
		"nome":        "Ana Silva",
		"email":       "ana@x.com",
		"telefone":    "11999999999",
		"endereco":    "Rua A, 1",
		"tipoCliente": "fisica",
		"cpf":         "12345678900",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("query %s = %q, want %q", k, q.Get(k), v)
		}
	}
	if q.Has("cnpj") {
		t.Error("cnpj must not be sent for an individual")
	}
}

func TestClientsUpdateSendsOriginalType(t *testing.T) {
	var got *http.Request
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"message":"ok"}`))
	})

	c := New(srv.URL)
	err := c.Clients.Update(context.Background(), 4, ClientInput{
		Nome:         "ACME Ltda",
		TaxID:        Organization{CNPJ: "00.000.000/0001-00"},
		OriginalKind: KindIndividual,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	q := got.URL.Query()
	if got.Method != http.MethodPut {
		t.Errorf("Method = %s, want PUT", got.Method)
	}
	if q.Get("id") != "4" {
		t.Errorf("id = %q, want 4", q.Get("id"))
	}
	if q.Get("tipoCliente") != "juridica" || q.Get("originalTipoCliente") != "fisica" {
		t.Errorf("tipoCliente = %q, originalTipoCliente = %q", q.Get("tipoCliente"), q.Get("originalTipoCliente"))
	}
	if q.Get("cnpj") != "00.000.000/0001-00" || q.Has("cpf") {
		t.Errorf("unexpected tax id params: %v", q)
	}
}

func TestClientsGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("id") != "3" {
				t.Errorf("id = %q, want 3", r.URL.Query().Get("id"))
			}
			w.Write([]byte(`{"id_cliente":3,"nome":"Ana","email":"a@x","telefone":"1","endereco":"R","data_cadastro":"2024-05-01","cpf":"123","cnpj":null}`))
		})
		cl, err := New(srv.URL).Clients.Get(context.Background(), 3)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if cl.Nome != "Ana" {
			t.Errorf("Nome = %q, want Ana", cl.Nome)
		}
		if id, ok := cl.TaxID().(Individual); !ok || id.CPF != "123" {
			t.Errorf("TaxID() = %#v, want Individual{123}", cl.TaxID())
		}
	})

	for _, body := range []string{`null`, `{}`, ``} {
		t.Run("empty body "+body, func(t *testing.T) {
			srv := mockServer(t, textHandler(body, http.StatusOK))
			_, err := New(srv.URL).Clients.Get(context.Background(), 3)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() error = %v, want ErrNotFound", err)
			}
		})
	}

	t.Run("404", func(t *testing.T) {
		srv := mockServer(t, jsonHandler(map[string]string{"error": "Client not found."}, http.StatusNotFound))
		_, err := New(srv.URL).Clients.Get(context.Background(), 3)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("logical error is not not-found", func(t *testing.T) {
		srv := mockServer(t, jsonHandler(map[string]string{"error": "Client not found."}, http.StatusOK))
		_, err := New(srv.URL).Clients.Get(context.Background(), 3)
		var logical *LogicalError
		if !errors.As(err, &logical) {
			t.Errorf("Get() error = %T, want *LogicalError", err)
		}
	})
}

func TestCasesCreateSendsNulls(t *testing.T) {
	var body map[string]interface{}
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	})

	id, err := New(srv.URL).Cases.Create(context.Background(), CaseInput{
		IDCliente:    1,
		IDAdvogado:   2,
		IDStatus:     3,
		DataAbertura: "2024-01-15",
		Descricao:    Optional("  "),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 0 {
		t.Errorf("Create() id = %d, want 0 for an empty response", id)
	}

	for _, k := range []string{"id_vara_judicial", "id_categoria_caso", "descricao", "numero_processo", "data_fechamento"} {
		v, ok := body[k]
		if !ok {
			t.Errorf("%s missing, want explicit null", k)
		} else if v != nil {
			t.Errorf("%s = %v, want null", k, v)
		}
	}
	if body["id_cliente"] != float64(1) || body["data_abertura"] != "2024-01-15" {
		t.Errorf("unexpected body: %v", body)
	}
	if _, ok := body["id_caso"]; ok {
		t.Error("id_caso must not be sent on create")
	}
}

func TestCasesUpdateSendsID(t *testing.T) {
	var body map[string]interface{}
	var method string
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		json.NewDecoder(r.Body).Decode(&body)
	})

	err := New(srv.URL).Cases.Update(context.Background(), 9, CaseInput{IDCliente: 1, IDAdvogado: 1, IDStatus: 1, DataAbertura: "2024-01-01"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if method != http.MethodPut {
		t.Errorf("Method = %s, want PUT", method)
	}
	if body["id_caso"] != float64(9) {
		t.Errorf("id_caso = %v, want 9", body["id_caso"])
	}
}

func TestDocumentsUpdateOmitsContent(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
	})

	err := New(srv.URL).Documents.Update(context.Background(), 5, DocumentInput{
		IDCaso:      2,
		Descricao:   "Petição inicial",
		DataEnvio:   "2024-02-01",
		NomeArquivo: "peticao.pdf",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, ok := raw["arquivo_base64"]; ok {
		t.Error("arquivo_base64 must be absent when no new file is chosen")
	}
	if string(raw["id"]) != "5" {
		t.Errorf("id = %s, want 5", raw["id"])
	}
}

func TestDocumentsCreateRequiresContent(t *testing.T) {
	called := false
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := New(srv.URL).Documents.Create(context.Background(), DocumentInput{IDCaso: 1})
	if err == nil {
		t.Fatal("Create() expected error without content")
	}
	if called {
		t.Error("no request should be sent without content")
	}
}

func TestDocumentsDownload(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		var gotQuery string
		srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Documento não encontrado."}`))
		})

		dl, err := New(srv.URL).Documents.Download(context.Background(), 7)
		if dl != nil {
			t.Error("Download() returned a payload for a failed response")
		}
		if gotQuery != "download=true&id=7" {
			t.Errorf("query = %q, want download=true&id=7", gotQuery)
		}
		if StatusCode(err) != http.StatusNotFound {
			t.Errorf("StatusCode() = %d, want 404", StatusCode(err))
		}
		if !strings.Contains(err.Error(), "404") {
			t.Errorf("Error() = %q, want status code", err.Error())
		}
	})

	t.Run("success", func(t *testing.T) {
		srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="contrato.pdf"`)
			w.Write([]byte("%PDF-1.4"))
		})

		dl, err := New(srv.URL).Documents.Download(context.Background(), 7)
		if err != nil {
			t.Fatalf("Download() error = %v", err)
		}
		defer dl.Body.Close()

		data, _ := io.ReadAll(dl.Body)
		if string(data) != "%PDF-1.4" {
			t.Errorf("body = %q", data)
		}
		if dl.Filename != "contrato.pdf" || dl.ContentType != "application/pdf" {
			t.Errorf("Filename = %q, ContentType = %q", dl.Filename, dl.ContentType)
		}
	})

	t.Run("missing headers", func(t *testing.T) {
		srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header()["Content-Type"] = nil
			w.Write([]byte{0x00, 0x01})
		})

		dl, err := New(srv.URL).Documents.Download(context.Background(), 12)
		if err != nil {
			t.Fatalf("Download() error = %v", err)
		}
		defer dl.Body.Close()
		if dl.Filename != "documento-12" {
			t.Errorf("Filename = %q, want documento-12", dl.Filename)
		}
		if dl.ContentType != "application/octet-stream" {
			t.Errorf("ContentType = %q", dl.ContentType)
		}
	})
}

func TestEncodeFile(t *testing.T) {
	got, err := EncodeFile(strings.NewReader("hello"), 10)
	if err != nil {
		t.Fatalf("EncodeFile() error = %v", err)
	}
	if got != "aGVsbG8=" {
		t.Errorf("EncodeFile() = %q, want aGVsbG8=", got)
	}

	_, err = EncodeFile(strings.NewReader("hello world"), 5)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("EncodeFile() error = %v, want ErrFileTooLarge", err)
	}

	if _, err := EncodeFile(strings.NewReader("no limit"), 0); err != nil {
		t.Errorf("EncodeFile() without limit error = %v", err)
	}
}

func TestLookups(t *testing.T) {
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/advogados":
			w.Write([]byte(`[{"id":1,"nome":"Dr. Silva","oab":"SP123"}]`))
		case "/api/clientes":
			w.Write([]byte(`[{"id_cliente":4,"nome":"Ana"}]`))
		case "/api/casos":
			w.Write([]byte(`[{"id_caso":2,"cliente_nome":"Ana","numero_processo":"0001"},{"id_caso":3,"cliente_nome":"Bia","numero_processo":null}]`))
		default:
			w.Write([]byte(`[{"id":1,"nome":"Aberto"}]`))
		}
	})
	c := New(srv.URL)
	ctx := context.Background()

	counsel, err := c.Lookups.Counsel(ctx)
	if err != nil || len(counsel) != 1 {
		t.Fatalf("Counsel() = %v, %v", counsel, err)
	}
	if counsel[0].Label() != "Dr. Silva (OAB SP123)" {
		t.Errorf("Label() = %q", counsel[0].Label())
	}

	clients, err := c.Lookups.Clients(ctx)
	if err != nil || len(clients) != 1 || clients[0].ID != 4 || clients[0].Nome != "Ana" {
		t.Errorf("Clients() = %v, %v", clients, err)
	}

	cases, err := c.Lookups.Cases(ctx)
	if err != nil || len(cases) != 2 {
		t.Fatalf("Cases() = %v, %v", cases, err)
	}
	if cases[0].Nome != "#2 Ana (0001)" || cases[1].Nome != "#3 Bia" {
		t.Errorf("Cases() labels = %q, %q", cases[0].Nome, cases[1].Nome)
	}

	status, err := c.Lookups.Status(ctx)
	if err != nil || len(status) != 1 || status[0].Label() != "Aberto" {
		t.Errorf("Status() = %v, %v", status, err)
	}
}

func TestAssistantAsk(t *testing.T) {
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/ollama" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var q Question
		json.NewDecoder(r.Body).Decode(&q)
		if q.FileName != "a.pdf" || q.Model != "llama3" || q.Question != "Qual o prazo?" {
			t.Errorf("question = %+v", q)
		}
		w.Write([]byte(`{"message":"Resposta do LLM obtida com sucesso","llm_response":"  30 dias\n"}`))
	})

	answer, err := New(srv.URL).Assistant.Ask(context.Background(), Question{FileName: "a.pdf", Question: "Qual o prazo?", Model: "llama3"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer.Response != "  30 dias\n" {
		t.Errorf("Response = %q, want whitespace preserved", answer.Response)
	}
}

func TestAdminActions(t *testing.T) {
	var seen []string
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"message":"done"}`))
	})
	c := New(srv.URL)
	ctx := context.Background()

	for _, action := range Actions {
		res, err := c.Admin.Run(ctx, action)
		if err != nil {
			t.Fatalf("Run(%s) error = %v", action, err)
		}
		if res.Message != "done" {
			t.Errorf("Run(%s) message = %q", action, res.Message)
		}
	}

	want := []string{"DELETE /api/clean", "POST /api/init", "PUT /api/populate_db"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Errorf("requests = %v, want %v", seen, want)
	}

	if _, err := c.Admin.Run(ctx, Action("drop")); err == nil {
		t.Error("Run() with unknown action expected error")
	}
	if _, ok := ParseAction("populate"); !ok {
		t.Error("ParseAction(populate) not found")
	}
}

func TestReportsAndHealth(t *testing.T) {
	srv := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DefaultReportsPath:
			w.Write([]byte(`{"report_data_docs_clientes_casos":[{"cliente_nome":"Ana","numero_processo":null,"total_documentos":2}]}`))
		case DefaultHealthPath:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
	c := New(srv.URL)

	reports, err := c.Reports.Get(context.Background())
	if err != nil {
		t.Fatalf("Reports.Get() error = %v", err)
	}
	if len(reports.DocsPerClientCase) != 1 || reports.DocsPerClientCase[0].TotalDocumentos != 2 {
		t.Errorf("DocsPerClientCase = %+v", reports.DocsPerClientCase)
	}
	if reports.CasesPerCounselStatus != nil {
		t.Errorf("missing dataset should decode as empty, got %v", reports.CasesPerCounselStatus)
	}

	status, err := c.Health.Check(context.Background())
	if err != nil {
		t.Fatalf("Health.Check() error = %v", err)
	}
	if status != "503 Service Unavailable" {
		t.Errorf("Check() = %q", status)
	}
}

func TestCreatedID(t *testing.T) {
	tests := []struct {
		name string
		body string
		key  string
		want int
	}{
		{"entity key", `{"message":"ok","id_documento":9}`, "id_documento", 9},
		{"generic id", `{"id":3}`, "id_caso", 3},
		{"entity key wins", `{"id":3,"id_caso":4}`, "id_caso", 4},
		{"missing", `{"message":"ok"}`, "id_caso", 0},
		{"empty", ``, "id_caso", 0},
		{"not an object", `[1,2]`, "id_caso", 0},
		{"not a number", `{"id_caso":"x"}`, "id_caso", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := createdID([]byte(tt.body), tt.key); got != tt.want {
				t.Errorf("createdID() = %d, want %d", got, tt.want)
			}
		})
	}
}

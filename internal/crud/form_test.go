// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawia/lawia-web/pkg/client"
)

// fakeAPI is a LawIA backend that records requests and answers per path.
type fakeAPI struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	handlers map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) (*fakeAPI, *client.Client) {
	t.Helper()
	f := &fakeAPI{handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, r)
		f.bodies = append(f.bodies, string(body))
		h, ok := f.handlers[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, client.New(srv.URL)
}

func (f *fakeAPI) on(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
}

func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.URL.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last(method, path string) (*http.Request, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Method == method && f.requests[i].URL.Path == path {
			return f.requests[i], f.bodies[i]
		}
	}
	return nil, ""
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestClientForm_CreateScenario(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodPost, "/api/clientes", respond(201, `{"message":"Client created successfully","id_cliente":12}`))
	form := NewClientForm(c)

	values := url.Values{
		"nome":        {"Ana Silva"},
		"email":       {"ana@x.com"},
		"telefone":    {"11999999999"},
		"endereco":    {"Rua A, 1"},
		"tipoCliente": {"fisica"},
		"cpf":         {"12345678900"},
	}
	v := form.Submit(context.Background(), "pt", ModeCreate, 0, Submission{Draft: form.DraftFrom(values)})

	req, _ := api.last(http.MethodPost, "/api/clientes")
	require.NotNil(t, req)
	q := req.URL.Query()
	assert.Equal(t, "Ana Silva", q.Get("nome"))
	assert.Equal(t, "ana@x.com", q.Get("email"))
	assert.Equal(t, "11999999999", q.Get("telefone"))
	assert.Equal(t, "Rua A, 1", q.Get("endereco"))
	assert.Equal(t, "fisica", q.Get("tipoCliente"))
	assert.Equal(t, "12345678900", q.Get("cpf"))
	assert.False(t, q.Has("cnpj"))

	assert.Empty(t, v.Error)
	assert.Equal(t, "Cliente adicionado com sucesso!", v.Success)
	assert.Equal(t, "/clientes", v.Redirect)
	assert.Equal(t, 12, v.ID)
	assert.Equal(t, Draft{"tipoCliente": "fisica"}, v.Draft, "form cleared")
}

func TestClientForm_CPFRequiredBlocksRequest(t *testing.T) {
	api, c := newFakeAPI(t)
	form := NewClientForm(c)

	d := Draft{"nome": "Ana", "email": "a@x.com", "telefone": "1", "endereco": "Rua", "tipoCliente": "fisica", "cpf": "  "}
	v := form.Submit(context.Background(), "pt", ModeCreate, 0, Submission{Draft: d})

	assert.Equal(t, "Por favor, insira o CPF para Pessoa Física.", v.Error)
	assert.Equal(t, 0, api.count(http.MethodPost, "/api/clientes"))
	assert.Equal(t, "Ana", v.Draft["nome"], "draft kept")
}

func TestClientForm_CNPJRequired(t *testing.T) {
	_, c := newFakeAPI(t)
	form := NewClientForm(c)

	d := Draft{"nome": "Alfa", "email": "a@x.com", "telefone": "1", "endereco": "Rua", "tipoCliente": "juridica", "cpf": "123"}
	verr := form.Validate(ModeCreate, Submission{Draft: d})
	require.NotNil(t, verr)
	assert.Equal(t, "clients.cnpj_required", verr.Key)
}

func TestClientForm_RequiredFields(t *testing.T) {
	_, c := newFakeAPI(t)
	form := NewClientForm(c)

	verr := form.Validate(ModeCreate, Submission{Draft: Draft{"nome": "Ana", "tipoCliente": "fisica", "cpf": "1"}})
	require.NotNil(t, verr)
	assert.Equal(t, "Por favor, preencha todos os campos obrigatórios (Nome, Email, Endereço, Telefone).", verr.Text("pt"))
	assert.Equal(t, []string{"email", "telefone", "endereco"}, verr.Fields)
}

func TestClientForm_APIError(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodPost, "/api/clientes", respond(400, `{"error":"Email já cadastrado"}`))
	form := NewClientForm(c)

	d := Draft{"nome": "Ana", "email": "a@x.com", "telefone": "1", "endereco": "Rua", "tipoCliente": "fisica", "cpf": "1"}
	v := form.Submit(context.Background(), "pt", ModeCreate, 0, Submission{Draft: d})

	assert.Equal(t, "Erro ao adicionar cliente: 400 - Email já cadastrado", v.Error)
	assert.False(t, v.Done())
	assert.Equal(t, "Ana", v.Draft["nome"])
}

func TestClientForm_EditRoundTrip(t *testing.T) {
	api, c := newFakeAPI(t)

	stored := client.Customer{ID: 5, Nome: "Construtora Alfa", Email: "c@alfa.com", Telefone: "3133", Endereco: "Av. B, 2", CNPJ: strp("12.345.678/0001-99")}
	api.on(http.MethodGet, "/api/clientes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stored)
	})
	api.on(http.MethodPut, "/api/clientes", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		stored = client.Customer{ID: 5, Nome: q.Get("nome"), Email: q.Get("email"), Telefone: q.Get("telefone"), Endereco: q.Get("endereco")}
		if q.Get("tipoCliente") == client.KindOrganization {
			stored.CNPJ = strp(q.Get("cnpj"))
		} else {
			stored.CPF = strp(q.Get("cpf"))
		}
		io.WriteString(w, `{"message":"ok"}`)
	})

	form := NewClientForm(c)
	ctx := context.Background()

	first := form.Prepare(ctx, "pt", ModeEdit, 5)
	require.Empty(t, first.Error)
	assert.Equal(t, "juridica", first.Draft["tipoCliente"])
	assert.Equal(t, "juridica", first.Draft["originalTipoCliente"])

	posted := url.Values{}
	for k, v := range first.Draft {
		posted.Set(k, v)
	}
	done := form.Submit(ctx, "pt", ModeEdit, 5, Submission{Draft: form.DraftFrom(posted)})
	require.True(t, done.Done(), done.Error)
	assert.Equal(t, "Cliente atualizado com sucesso!", done.Success)
	assert.Equal(t, "/clientes/5", done.Redirect)

	req, _ := api.last(http.MethodPut, "/api/clientes")
	assert.Equal(t, "5", req.URL.Query().Get("id"))
	assert.Equal(t, "juridica", req.URL.Query().Get("originalTipoCliente"))

	second := form.Prepare(ctx, "pt", ModeEdit, 5)
	if diff := cmp.Diff(first.Draft, second.Draft); diff != "" {
		t.Errorf("round trip changed the draft (-before +after):\n%s", diff)
	}
}

func TestClientForm_EditNotFound(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/clientes", respond(200, `null`))

	v := NewClientForm(c).Prepare(context.Background(), "pt", ModeEdit, 99)
	assert.True(t, v.NotFound)
	assert.Equal(t, "Cliente não encontrado.", v.Error)
}

func TestCaseForm_LookupsAggregated(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/clientes", respond(200, `[{"id_cliente":1,"nome":"Ana"}]`))
	api.on(http.MethodGet, "/api/advogados", respond(500, `{"error":"db down"}`))
	api.on(http.MethodGet, "/api/status", respond(200, `[{"id":1,"nome":"Aberto"}]`))
	api.on(http.MethodGet, "/api/varas_judiciais", respond(503, `indisponível`))
	api.on(http.MethodGet, "/api/categorias_caso", respond(200, `[]`))

	v := NewCaseForm(c).Prepare(context.Background(), "pt", ModeCreate, 0)

	assert.True(t, strings.HasPrefix(v.LookupError, "Erro ao carregar opções para os campos: "))
	assert.Contains(t, v.LookupError, "Advogado: ")
	assert.Contains(t, v.LookupError, "Vara Judicial: ")
	assert.Equal(t, 1, strings.Count(v.LookupError, "Erro ao carregar"))

	byName := map[string]Input{}
	for _, in := range v.Inputs {
		byName[in.Name] = in
	}
	assert.True(t, byName["id_advogado"].Disabled)
	assert.True(t, byName["id_vara_judicial"].Disabled)
	assert.False(t, byName["id_cliente"].Disabled)
	assert.Equal(t, []Option{{Value: "1", Label: "Ana"}}, byName["id_cliente"].Options)
	assert.Equal(t, []Option{{Value: "1", Label: "Aberto"}}, byName["id_status"].Options)
}

func TestCaseForm_EditDraftAndPayload(t *testing.T) {
	api, c := newFakeAPI(t)
	for _, p := range []string{"/api/clientes", "/api/advogados", "/api/status", "/api/varas_judiciais", "/api/categorias_caso"} {
		api.on(http.MethodGet, p, respond(200, `[]`))
	}
	api.on(http.MethodGet, "/api/casos", respond(200, `{
		"id_caso": 3, "id_cliente": 1, "id_advogado": 2, "id_status": 4,
		"data_abertura": "2024-03-01T00:00:00.000Z", "data_fechamento": null,
		"numero_processo": "0001", "descricao": null,
		"id_vara_judicial": 9, "id_categoria_caso": null
	}`))
	api.on(http.MethodPut, "/api/casos", respond(200, `{"message":"ok"}`))

	form := NewCaseForm(c)
	ctx := context.Background()
	v := form.Prepare(ctx, "pt", ModeEdit, 3)

	want := Draft{
		"id_cliente": "1", "id_advogado": "2", "id_status": "4",
		"numero_processo": "0001", "descricao": "",
		"data_abertura": "2024-03-01", "data_fechamento": "",
		"id_vara_judicial": "9", "id_categoria_caso": "",
	}
	if diff := cmp.Diff(want, v.Draft); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}

	done := form.Submit(ctx, "pt", ModeEdit, 3, Submission{Draft: v.Draft})
	require.True(t, done.Done(), done.Error)
	assert.Equal(t, "/casos/3", done.Redirect)

	_, body := api.last(http.MethodPut, "/api/casos")
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &sent))
	assert.Equal(t, float64(3), sent["id_caso"])
	assert.Equal(t, float64(9), sent["id_vara_judicial"])
	assert.Nil(t, sent["id_categoria_caso"])
	assert.Contains(t, sent, "id_categoria_caso")
	assert.Nil(t, sent["descricao"])
	assert.Equal(t, "2024-03-01", sent["data_abertura"])
}

func TestCaseForm_RequiredMessage(t *testing.T) {
	_, c := newFakeAPI(t)
	verr := NewCaseForm(c).Validate(ModeCreate, Submission{Draft: Draft{"id_cliente": "1"}})
	require.NotNil(t, verr)
	assert.Equal(t, "Por favor, preencha todos os campos obrigatórios (Cliente, Advogado, Status, Data Abertura).", verr.Text("pt"))
}

func TestCaseInputFromDraft_BadNumber(t *testing.T) {
	_, verr := CaseInputFromDraft(Draft{"id_cliente": "x", "id_advogado": "1", "id_status": "1", "data_abertura": "2024-01-01"})
	require.NotNil(t, verr)
	assert.Equal(t, []string{"id_cliente"}, verr.Fields)
}

func TestDocumentForm_CreateRequiresFile(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/casos", respond(200, `[]`))
	form := NewDocumentForm(c)

	d := Draft{"id_caso": "1", "descricao": "x", "data_envio": "2024-01-01", "nome_arquivo": "a.pdf"}
	v := form.Submit(context.Background(), "pt", ModeCreate, 0, Submission{Draft: d})
	assert.Equal(t, "Por favor, selecione um arquivo.", v.Error)
	assert.Equal(t, 0, api.count(http.MethodPost, "/api/documentos"))
}

func TestDocumentForm_UploadMirrorsName(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodPost, "/api/documentos", respond(201, `{"message":"ok"}`))
	form := NewDocumentForm(c)

	sub := WithUpload(Submission{Draft: Draft{"id_caso": "1", "descricao": "Petição", "data_envio": "2024-01-01"}},
		&Upload{Name: "peticao.pdf", Base64: "JVBERi0="})
	v := form.Submit(context.Background(), "pt", ModeCreate, 0, sub)
	require.True(t, v.Done(), v.Error)
	assert.Equal(t, "Documento adicionado com sucesso!", v.Success)
	assert.Equal(t, "/documentos", v.Redirect)

	_, body := api.last(http.MethodPost, "/api/documentos")
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &sent))
	assert.Equal(t, "peticao.pdf", sent["nome_arquivo"])
	assert.Equal(t, "JVBERi0=", sent["arquivo_base64"])
}

func TestDocumentForm_EditWithoutFileOmitsContent(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodPut, "/api/documentos", respond(200, `{"message":"ok"}`))
	form := NewDocumentForm(c)

	d := Draft{"id_caso": "1", "descricao": "x", "data_envio": "2024-01-01", "nome_arquivo": "a.pdf"}
	v := form.Submit(context.Background(), "pt", ModeEdit, 8, Submission{Draft: d})
	require.True(t, v.Done(), v.Error)

	_, body := api.last(http.MethodPut, "/api/documentos")
	assert.NotContains(t, body, "arquivo_base64")
	assert.Contains(t, body, `"id":8`)
}

func TestForm_LookupsRunConcurrently(t *testing.T) {
	var inflight, peak atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) ([]client.LookupItem, error) {
		n := inflight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		inflight.Add(-1)
		return nil, nil
	}

	form := &Form[client.Case]{
		Base:    "/casos",
		Schema:  caseSchema,
		Lookups: []Lookup{{Name: "a", Load: load}, {Name: "b", Load: load}, {Name: "c", Load: load}},
	}

	done := make(chan *View)
	go func() { done <- form.Prepare(context.Background(), "pt", ModeCreate, 0) }()

	require.Eventually(t, func() bool { return inflight.Load() == 3 }, time2s, tick)
	close(release)
	<-done
	assert.Equal(t, int32(3), peak.Load())
}

func TestForm_NetworkError(t *testing.T) {
	form := &Form[client.Customer]{
		Base:     "/clientes",
		Schema:   clientSchema,
		Messages: entityMessages("clients"),
		Create: func(context.Context, Submission) (int, error) {
			return 0, &client.TransportError{Method: "POST", Path: "/api/clientes", Err: errors.New("refused")}
		},
	}
	d := Draft{"nome": "Ana", "email": "a@x.com", "telefone": "1", "endereco": "Rua", "tipoCliente": "fisica", "cpf": "1"}
	v := form.Submit(context.Background(), "pt", ModeCreate, 0, Submission{Draft: d})
	assert.Equal(t, "Erro de rede ou servidor ao tentar adicionar o cliente.", v.Error)
}

func TestHydrateClients(t *testing.T) {
	list := []client.Customer{{ID: 1, Nome: "Ana"}, {ID: 2, Nome: "Bruno"}, {ID: 3, Nome: "Full", Email: "f@x.com"}}
	get := func(_ context.Context, id int) (*client.Customer, error) {
		if id == 2 {
			return nil, &client.APIError{StatusCode: 500}
		}
		return &client.Customer{ID: id, Nome: "Ana", Email: "ana@x.com", CPF: strp("1")}, nil
	}

	out, failed := HydrateClients(context.Background(), get, list, 2)
	assert.Equal(t, 1, failed)
	assert.Equal(t, "ana@x.com", out[0].Email)
	assert.Equal(t, "Bruno", out[1].Nome)
	assert.Equal(t, "f@x.com", out[2].Email)
	assert.Equal(t, "", list[0].Email, "input untouched")
}

const (
	time2s = 2 * time.Second
	tick   = 5 * time.Millisecond
)

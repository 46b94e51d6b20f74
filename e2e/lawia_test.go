// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawia/lawia-web/internal/activity"
	"github.com/lawia/lawia-web/internal/api"
	"github.com/lawia/lawia-web/internal/api/handlers"
	"github.com/lawia/lawia-web/internal/views"
	"github.com/lawia/lawia-web/pkg/client"
)

// clientStore is an in-memory stand-in for the clients endpoint of the
// LawIA API.
type clientStore struct {
	mu      sync.Mutex
	nextID  int
	records map[int]client.Customer
}

func newClientStore() *clientStore {
	return &clientStore{nextID: 1, records: map[int]client.Customer{}}
}

func (s *clientStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		if raw := q.Get("id"); raw != "" {
			id, _ := strconv.Atoi(raw)
			c, ok := s.records[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `{"error": "Cliente não encontrado"}`)
				return
			}
			json.NewEncoder(w).Encode(c)
			return
		}
		list := make([]client.Customer, 0, len(s.records))
		for _, c := range s.records {
			// The list endpoint only carries summaries
			list = append(list, client.Customer{ID: c.ID, Nome: c.Nome})
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		json.NewEncoder(w).Encode(list)

	case http.MethodPost, http.MethodPut:
		id := s.nextID
		if r.Method == http.MethodPut {
			id, _ = strconv.Atoi(q.Get("id"))
			if _, ok := s.records[id]; !ok {
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `{"error": "Cliente não encontrado"}`)
				return
			}
		} else {
			s.nextID++
		}
		c := client.Customer{
			ID:       id,
			Nome:     q.Get("nome"),
			Email:    q.Get("email"),
			Telefone: q.Get("telefone"),
			Endereco: q.Get("endereco"),
		}
		if v := q.Get("cpf"); v != "" {
			c.CPF = &v
		}
		if v := q.Get("cnpj"); v != "" {
			c.CNPJ = &v
		}
		s.records[id] = c
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"message": "Client created successfully", "id_cliente": %d}`, id)
			return
		}
		io.WriteString(w, `{"message": "ok"}`)

	case http.MethodDelete:
		id, _ := strconv.Atoi(q.Get("id"))
		delete(s.records, id)
		io.WriteString(w, `{"message": "ok"}`)
	}
}

func (s *clientStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *clientStore) name(id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id].Nome
}

func newServer(t *testing.T) (*httptest.Server, *clientStore) {
	t.Helper()
	store := newClientStore()
	mux := http.NewServeMux()
	mux.Handle("/api/clientes", store)
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	renderer, err := views.New(views.Options{})
	require.NoError(t, err)
	bus := activity.NewMemoryBus(activity.Config{MaxEvents: 50, MaxAge: time.Hour})
	t.Cleanup(func() { bus.Close() })

	router := api.NewRouter(api.Dependencies{
		API:   client.New(backend.URL),
		Views: renderer,
		Bus:   bus,
		Settings: handlers.Settings{
			RedirectDelay:     time.Second,
			MaxUploadBytes:    1 << 20,
			HydrateClientList: true,
			Concurrency:       4,
		},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func get(t *testing.T, u string) (int, string) {
	t.Helper()
	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func postForm(t *testing.T, u string, form url.Values) (int, string) {
	t.Helper()
	resp, err := http.PostForm(u, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// TestServerStartup verifies that the server wires its router.
func TestServerStartup(t *testing.T) {
	renderer, err := views.New(views.Options{})
	require.NoError(t, err)
	server := api.NewServer(api.ServerConfig{Host: "127.0.0.1", Port: 0}, api.Dependencies{
		API:   client.New("http://127.0.0.1:1"),
		Views: renderer,
	})
	require.NotNil(t, server)
	require.NotNil(t, server.Router())
	assert.Equal(t, "127.0.0.1:0", server.Addr())
}

// TestClientLifecycle creates, lists, edits and deletes a client through
// the pages while watching the activity stream.
func TestClientLifecycle(t *testing.T) {
	srv, store := newServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/activity?pattern=cliente.*"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	events := make(chan activity.Event, 8)
	go func() {
		for {
			var ev activity.Event
			if err := conn.ReadJSON(&ev); err != nil {
				close(events)
				return
			}
			events <- ev
		}
	}()
	// Let the subscription register before the first change
	require.Eventually(t, func() bool {
		status, _ := get(t, srv.URL+"/api/activity")
		return status == http.StatusOK
	}, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	// Create
	status, body := postForm(t, srv.URL+"/clientes/new", url.Values{
		"nome":        {"Empresa X"},
		"email":       {"contato@x.com"},
		"telefone":    {"1133334444"},
		"endereco":    {"Av. Paulista, 1000"},
		"tipoCliente": {"juridica"},
		"cnpj":        {"12345678000199"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Cliente adicionado com sucesso!")
	require.Equal(t, 1, store.count())

	// The list hydrates summaries with the full record
	_, body = get(t, srv.URL+"/clientes")
	assert.Contains(t, body, "Empresa X")
	assert.Contains(t, body, "contato@x.com")

	// Edit form is prefilled
	_, body = get(t, srv.URL+"/clientes/edit/1")
	assert.Contains(t, body, `value="Empresa X"`)
	assert.Contains(t, body, `value="12345678000199"`)

	status, body = postForm(t, srv.URL+"/clientes/edit/1", url.Values{
		"nome":        {"Empresa X Ltda"},
		"email":       {"contato@x.com"},
		"telefone":    {"1133334444"},
		"endereco":    {"Av. Paulista, 1000"},
		"tipoCliente": {"juridica"},
		"cnpj":        {"12345678000199"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Cliente atualizado com sucesso!")
	assert.Equal(t, "Empresa X Ltda", store.name(1))

	// Delete
	_, body = postForm(t, srv.URL+"/clientes/1/delete", nil)
	assert.Contains(t, body, "Cliente excluído com sucesso!")
	assert.Equal(t, 0, store.count())

	status, _ = get(t, srv.URL+"/clientes/1")
	assert.Equal(t, http.StatusNotFound, status)

	var (
		types []string
		ids   []int
	)
	timeout := time.After(2 * time.Second)
	for len(types) < 3 {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "activity stream closed")
			types = append(types, ev.Type)
			ids = append(ids, ev.EntityID)
		case <-timeout:
			t.Fatalf("received only %v", types)
		}
	}
	assert.Equal(t, []string{"cliente.created", "cliente.updated", "cliente.deleted"}, types)
	assert.Equal(t, []int{1, 1, 1}, ids)
}

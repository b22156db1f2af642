package ledgerhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/customers"
	"github.com/ia-usgs/field-service-manager-sub001/internal/ledger"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/trash"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))

	facade := ledger.New(conn, trash.NewManager(30*time.Second, nil, nil), audit.NewService(conn), nil, nil, nil)

	r := chi.NewRouter()
	NewHandler(nil, facade).MountRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func TestCustomerEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/customers", customers.CreateCustomerRequest{Name: "Dana Whitfield"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created customers.Customer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	listResp, err := http.Get(srv.URL + "/customers")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var list []customers.Customer
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list, 1)
}

func TestValidationErrorsMapTo400(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/customers", customers.CreateCustomerRequest{Email: "dana@example.com"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownIDMapsTo404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/customers/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRestoreWithoutTrashEntryMapsTo404(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/jobs/nope/restore", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s ledger.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	require.Zero(t, s.Customers)
}

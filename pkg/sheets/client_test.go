package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/rekod-api/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(config.SheetsConfig{
		BaseURL:       srv.URL,
		Token:         "test-token",
		SpreadsheetID: "sheet-1",
		Timeout:       5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestClientValuesKeepsLiteralCellText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Path, "/v4/spreadsheets/sheet-1/values/")
		// A quoted digit string, a bare number and an empty cell. The
		// client must hand all of them back as literal text.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Students!A1:C2","values":[["Name","MyKid","Active"],["Alice","0012345",true],["Bala",90202,null]]}`))
	})

	rows, err := client.Values(context.Background(), "Students", "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "0012345", rows[1][1])
	assert.Equal(t, "TRUE", rows[1][2])
	assert.Equal(t, "90202", rows[2][1])
	assert.Equal(t, "", rows[2][2])
}

func TestClientAppendSendsRawValues(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody valueRange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	err := client.Append(context.Background(), "Students", [][]string{{"Alice", "4A", "0012345"}})
	require.NoError(t, err)
	assert.Contains(t, gotPath, "Students:append")
	assert.Contains(t, gotQuery, "valueInputOption=RAW")
	assert.Contains(t, gotQuery, "insertDataOption=INSERT_ROWS")
	require.Len(t, gotBody.Values, 1)
	assert.Equal(t, "0012345", gotBody.Values[0][2])
}

func TestClientUpdateTargetsExactRange(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	err := client.Update(context.Background(), "Students", "A3:G3", [][]string{{"Alicia", "4A", "0012345", "", "", "", ""}})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	// The range travels path-escaped as Sheet!A1-notation.
	assert.Contains(t, gotPath, "Students%21A3:G3")
}

func TestClientSurfacesAPIErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`))
	})

	_, err := client.Values(context.Background(), "Students", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "does not have permission")
}

func TestClientPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/spreadsheets/sheet-1", r.URL.Path)
		assert.Equal(t, "fields=spreadsheetId", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	})

	require.NoError(t, client.Ping(context.Background()))
}

func TestClientObserverSeesEveryCall(t *testing.T) {
	var ops []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := NewClient(config.SheetsConfig{
		BaseURL:       srv.URL,
		SpreadsheetID: "sheet-1",
	}, WithObserver(func(op string, _ time.Duration, _ error) {
		ops = append(ops, op)
	}))
	require.NoError(t, err)

	_, _ = client.Values(context.Background(), "Students", "")
	_ = client.Append(context.Background(), "Students", [][]string{{"x"}})
	assert.Equal(t, []string{"values", "append"}, ops)
}

func TestNewClientRequiresBaseURLAndSpreadsheet(t *testing.T) {
	_, err := NewClient(config.SheetsConfig{SpreadsheetID: "sheet-1"})
	assert.Error(t, err)

	_, err = NewClient(config.SheetsConfig{BaseURL: "http://localhost"})
	assert.Error(t, err)
}

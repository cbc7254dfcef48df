package graph_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-m365-admin/go-m365-admin/internal/graph"
)

// newTokenServer serves a static client-credentials token.
func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	}))
}

func newTestClient(t *testing.T, apiURL, tokenURL string) *graph.Client {
	t.Helper()

	client, err := graph.New(graph.Config{
		TenantID:     "test-tenant",
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		BaseURL:      apiURL,
		TokenURL:     tokenURL,
	})
	require.NoError(t, err, "failed to create graph client")

	return client
}

func TestNewMissingCredentials(t *testing.T) {
	testCases := []struct {
		name string
		cfg  graph.Config
	}{
		{name: "all missing", cfg: graph.Config{}},
		{name: "missing secret", cfg: graph.Config{TenantID: "t", ClientID: "c"}},
		{name: "missing tenant", cfg: graph.Config{ClientID: "c", ClientSecret: "s"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := graph.New(tc.cfg)
			assert.ErrorIs(t, err, graph.ErrMissingCredentials)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	client := newTestClient(t, "http://unused", tokenSrv.URL)

	err := client.Authenticate(context.Background())
	assert.NoError(t, err)
}

func TestAuthenticateErrorSurfacesBody(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"secret expired"}`))
	}))
	defer tokenSrv.Close()

	client := newTestClient(t, "http://unused", tokenSrv.URL)

	err := client.Authenticate(context.Background())
	require.Error(t, err)

	var authErr *graph.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "secret expired")
	assert.Contains(t, authErr.Error(), "secret expired")
}

func TestFetchUsersPagination(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	var (
		apiSrv       *httptest.Server
		pageRequests int
	)

	makeUsers := func(from, count int) []map[string]any {
		users := make([]map[string]any, 0, count)
		for i := range count {
			users = append(users, map[string]any{
				"id":                fmt.Sprintf("user-%03d", from+i),
				"displayName":       fmt.Sprintf("User %03d", from+i),
				"userPrincipalName": fmt.Sprintf("user%03d@example.com", from+i),
				"accountEnabled":    true,
			})
		}

		return users
	}

	apiSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageRequests++

		w.Header().Set("Content-Type", "application/json")

		page := map[string]any{}

		switch r.URL.Query().Get("page") {
		case "2":
			page["value"] = makeUsers(100, 50)
		default:
			page["value"] = makeUsers(0, 100)
			page["@odata.nextLink"] = apiSrv.URL + "/users?page=2"
		}

		_ = json.NewEncoder(w).Encode(page)
	}))
	defer apiSrv.Close()

	client := newTestClient(t, apiSrv.URL, tokenSrv.URL)

	users, err := client.FetchUsers(context.Background())
	require.NoError(t, err)

	assert.Len(t, users, 150)
	assert.Equal(t, 2, pageRequests, "must not issue a third page request")

	// no duplicates across the page boundary
	seen := make(map[string]bool, len(users))
	for _, u := range users {
		assert.False(t, seen[u.ID], "duplicate user %s", u.ID)
		seen[u.ID] = true
	}
}

func TestFetchUsersPageErrorDiscardsPartialResult(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	var apiSrv *httptest.Server

	apiSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"server choked"}`))

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"value":           []map[string]any{{"id": "user-1"}},
			"@odata.nextLink": apiSrv.URL + "/users?page=2",
		})
	}))
	defer apiSrv.Close()

	client := newTestClient(t, apiSrv.URL, tokenSrv.URL)

	users, err := client.FetchUsers(context.Background())
	require.Error(t, err)
	assert.Nil(t, users, "partial pages must be discarded")

	var fetchErr *graph.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Body, "server choked")
	assert.False(t, fetchErr.Retryable())
}

func TestFetchSubscribedSkus(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribedSkus", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":[
			{"skuId":"sku-1","skuPartNumber":"ENTERPRISEPACK","consumedUnits":80,
			 "prepaidUnits":{"enabled":100},"capabilityStatus":"Enabled","appliesTo":"User"}
		]}`))
	}))
	defer apiSrv.Close()

	client := newTestClient(t, apiSrv.URL, tokenSrv.URL)

	skus, err := client.FetchSubscribedSkus(context.Background())
	require.NoError(t, err)
	require.Len(t, skus, 1)
	assert.Equal(t, "ENTERPRISEPACK", skus[0].SkuPartNumber)
	assert.Equal(t, 100, skus[0].PrepaidUnits.Enabled)
	assert.Equal(t, 80, skus[0].ConsumedUnits)
}

func TestFetchMailboxUsageReport(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	csvBody := "\uFEFFReport Refresh Date,User Principal Name,Display Name,Is Deleted,Deleted Date," +
		"Created Date,Last Activity Date,Item Count,Storage Used (Byte),Issue Warning Quota (Byte)," +
		"Prohibit Send Quota (Byte),Prohibit Send/Receive Quota (Byte),Report Period\r\n" +
		`2024-05-01,jsmith@example.com,"Smith, John",FALSE,,2020-01-01,2024-04-30,1200,5368709120,` +
		"52613349376,53687091200,55834574848,7\r\n" +
		"2024-05-01,broken@example.com,Broken Row,TRUE,2024-04-01,2020-01-01,,not-a-number,-5,0,0,0,7\r\n"

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csvBody))
	}))
	defer apiSrv.Close()

	client := newTestClient(t, apiSrv.URL, tokenSrv.URL)

	rows, err := client.FetchMailboxUsageReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// quoted field with embedded comma stays one value
	assert.Equal(t, "Smith, John", rows[0].DisplayName)
	assert.Equal(t, "jsmith@example.com", rows[0].UserPrincipalName)
	assert.Equal(t, int64(5368709120), rows[0].StorageUsedBytes)
	assert.Equal(t, int64(1200), rows[0].ItemCount)
	assert.False(t, rows[0].IsDeleted)

	// parse failures and negative values clamp to zero
	assert.Equal(t, int64(0), rows[1].ItemCount)
	assert.Equal(t, int64(0), rows[1].StorageUsedBytes)
	assert.True(t, rows[1].IsDeleted)
}

func TestFetchOneDriveUsageReport(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	csvBody := "Report Refresh Date,Site URL,Owner Display Name,Owner Principal Name,Is Deleted," +
		"Last Activity Date,File Count,Active File Count,Storage Used (Byte),Storage Allocated (Byte),Report Period\r\n" +
		`2024-05-01,https://contoso-my.sharepoint.com/personal/jdoe,"Doe, Jane",jdoe@example.com,False,` +
		"2024-04-29,420,17,10737418240,1099511627776,7\r\n"

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csvBody))
	}))
	defer apiSrv.Close()

	client := newTestClient(t, apiSrv.URL, tokenSrv.URL)

	rows, err := client.FetchOneDriveUsageReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Doe, Jane", rows[0].OwnerDisplayName)
	assert.Equal(t, "jdoe@example.com", rows[0].OwnerPrincipalName)
	assert.Equal(t, int64(420), rows[0].FileCount)
	assert.Equal(t, int64(1099511627776), rows[0].StorageAllocatedBytes)
}

func TestFetchReportForbiddenDegradesToEmpty(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"S2SUnattendedNotAllowed"}}`))
	}))
	defer apiSrv.Close()

	client := newTestClient(t, apiSrv.URL, tokenSrv.URL)

	rows, err := client.FetchMailboxUsageReport(context.Background())
	assert.NoError(t, err, "permission denied must degrade, not fail")
	assert.Empty(t, rows)
}

func TestFetchReportServerErrorFails(t *testing.T) {
	tokenSrv := newTokenServer(t)
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer apiSrv.Close()

	client := newTestClient(t, apiSrv.URL, tokenSrv.URL)

	rows, err := client.FetchOneDriveUsageReport(context.Background())
	require.Error(t, err)
	assert.Nil(t, rows)

	var fetchErr *graph.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
}

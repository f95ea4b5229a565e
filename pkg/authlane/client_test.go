package authlane_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authlane/authlane-go/pkg/authlane"
)

// recordedRequest captures what the SDK actually sent.
type recordedRequest struct {
	method string
	path   string
	query  string
	header http.Header
	form   map[string]string
}

// newRecordingSDK spins up a provider fake that records the last request and
// replies with the given status and JSON body.
func newRecordingSDK(t *testing.T, status int, body any) (*authlane.SDKClient, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.header = r.Header.Clone()
		rec.form = map[string]string{}
		if err := r.ParseForm(); err == nil {
			for k := range r.PostForm {
				rec.form[k] = r.PostForm.Get(k)
			}
		}

		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(srv.Close)

	return authlane.New(authlane.Config{APIKey: "test_abc", APIURL: srv.URL}), rec
}

func TestVerifyClient(t *testing.T) {
	sdk, rec := newRecordingSDK(t, http.StatusOK, authlane.Client{
		ID:                  "client_1",
		SessionIDs:          []string{"sess_1", "sess_2"},
		LastActiveSessionID: "sess_2",
	})

	client, err := sdk.VerifyClient(context.Background(), "cookie-token")
	require.NoError(t, err)
	require.Equal(t, "client_1", client.ID)
	require.Equal(t, "sess_2", client.LastActiveSessionID)

	require.Equal(t, http.MethodPost, rec.method)
	require.Equal(t, "/v1/clients/verify", rec.path)
	require.Equal(t, "cookie-token", rec.form["token"])
	require.Equal(t, "Bearer test_abc", rec.header.Get("Authorization"))
	require.Contains(t, rec.header.Get("User-Agent"), "authlane-go")
	require.Contains(t, rec.header.Get("Content-Type"), "x-www-form-urlencoded")
}

func TestVerifySession(t *testing.T) {
	sdk, rec := newRecordingSDK(t, http.StatusOK, authlane.Session{
		ID:     "sess_1",
		UserID: "user_1",
		Status: authlane.SessionStatusActive,
	})

	session, err := sdk.VerifySession(context.Background(), "sess_1", "cookie-token")
	require.NoError(t, err)
	require.Equal(t, "sess_1", session.ID)
	require.True(t, session.Active())

	require.Equal(t, "/v1/sessions/sess_1/verify", rec.path)
	require.Equal(t, "cookie-token", rec.form["token"])
}

func TestListSessionsQueryParams(t *testing.T) {
	sdk, rec := newRecordingSDK(t, http.StatusOK, []authlane.Session{{ID: "sess_1"}})

	sessions, err := sdk.ListSessions(context.Background(), authlane.SessionListParams{
		ClientID: "client_1",
		UserID:   "user_1",
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	require.Equal(t, "/v1/sessions", rec.path)
	require.Equal(t, "client_id=client_1&user_id=user_1", rec.query)
}

func TestUpdateUserPartialForm(t *testing.T) {
	sdk, rec := newRecordingSDK(t, http.StatusOK, authlane.User{ID: "user_1", Username: "alice"})

	username := "alice"
	user, err := sdk.UpdateUser(context.Background(), "user_1", authlane.UserUpdateParams{
		Username: &username,
	})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	require.Equal(t, http.MethodPatch, rec.method)
	require.Equal(t, "/v1/users/user_1", rec.path)
	require.Equal(t, "alice", rec.form["username"])

	// Nil params stay out of the form entirely.
	_, sent := rec.form["first_name"]
	require.False(t, sent)
}

func TestDeleteUser(t *testing.T) {
	sdk, rec := newRecordingSDK(t, http.StatusNoContent, nil)

	require.NoError(t, sdk.DeleteUser(context.Background(), "user_1"))
	require.Equal(t, http.MethodDelete, rec.method)
	require.Equal(t, "/v1/users/user_1", rec.path)
}

func TestAPIErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"code":"resource_not_found","message":"no such session","long_message":"Session sess_x does not exist"}]}`))
	}))
	t.Cleanup(srv.Close)
	sdk := authlane.New(authlane.Config{APIKey: "test_abc", APIURL: srv.URL})

	_, err := sdk.GetSession(context.Background(), "sess_x")
	require.Error(t, err)
	require.True(t, authlane.IsNotFound(err))

	var apiErr *authlane.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "resource_not_found", apiErr.Code)
	require.Contains(t, apiErr.Error(), "resource_not_found")
}

func TestAPIErrorUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	t.Cleanup(srv.Close)
	sdk := authlane.New(authlane.Config{APIKey: "test_abc", APIURL: srv.URL})

	_, err := sdk.VerifyClient(context.Background(), "bad-token")
	require.Error(t, err)
	require.True(t, authlane.IsUnauthorized(err))

	var apiErr *authlane.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusText(http.StatusUnauthorized), apiErr.Message)
}

func TestFetchInterstitial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/internal/interstitial", r.URL.Path)
		_, _ = w.Write([]byte("<html>wait</html>"))
	}))
	t.Cleanup(srv.Close)
	sdk := authlane.New(authlane.Config{APIKey: "test_abc", APIURL: srv.URL})

	body, err := sdk.FetchInterstitial(context.Background())
	require.NoError(t, err)
	require.Equal(t, "<html>wait</html>", string(body))
}

func TestJWKSURL(t *testing.T) {
	sdk := authlane.New(authlane.Config{APIKey: "test_abc", APIURL: "https://api.authlane.com/"})
	require.Equal(t, "https://api.authlane.com/v1/jwks", sdk.JWKSURL())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUTHLANE_API_KEY", "test_env")
	t.Setenv("AUTHLANE_API_URL", "https://api.example.com")

	sdk, err := authlane.NewFromEnv()
	require.NoError(t, err)
	require.Equal(t, "test_env", sdk.APIKey())
	require.Equal(t, "https://api.example.com/v1/jwks", sdk.JWKSURL())
}

func TestLoadConfigMissingKey(t *testing.T) {
	t.Setenv("AUTHLANE_API_KEY", "")

	_, err := authlane.NewFromEnv()
	require.Error(t, err)
}

func TestEnvironmentClassification(t *testing.T) {
	require.True(t, authlane.IsDevelopmentOrStaging("test_abc"))
	require.False(t, authlane.IsDevelopmentOrStaging("live_abc"))
	require.True(t, authlane.IsProduction("live_abc"))
	require.False(t, authlane.IsProduction("test_abc"))
}

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Principal is the caller a handler test runs as
type Principal struct {
	ProfileID uuid.UUID
	Role      string
}

// HTTPTestCase drives one handler call. ExpectedErrorCode checks the code in
// the error envelope; ExpectedBody compares top-level keys of the response.
type HTTPTestCase struct {
	Name              string
	Method            string
	Path              string
	Body              interface{}
	Headers           map[string]string
	Principal         *Principal
	ExpectedStatus    int
	ExpectedErrorCode string
	ExpectedBody      map[string]interface{}
	Setup             func(t *testing.T, tc *TestContext)
	Validate          func(t *testing.T, tc *TestContext)
}

// RunHTTPTestCases runs a slice of HTTP test cases against a handler.
func RunHTTPTestCases(t *testing.T, handler gin.HandlerFunc, cases []HTTPTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, handler, tc)
		})
	}
}

// RunHTTPTestCase runs a single HTTP test case.
func RunHTTPTestCase(t *testing.T, handler gin.HandlerFunc, tc HTTPTestCase) {
	t.Helper()

	var body io.Reader
	if tc.Body != nil {
		jsonBody, err := json.Marshal(tc.Body)
		require.NoError(t, err, "Failed to marshal request body")
		body = bytes.NewReader(jsonBody)
	}

	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	path := tc.Path
	if path == "" {
		path = "/"
	}
	req := httptest.NewRequest(method, path, body)

	if tc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	testCtx := &TestContext{Context: c, Recorder: w}
	if tc.Principal != nil {
		testCtx.SetPrincipal(tc.Principal.ProfileID, tc.Principal.Role)
	}
	if tc.Setup != nil {
		tc.Setup(t, testCtx)
	}

	handler(c)

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, w.Code, "Unexpected status code")
	}

	if tc.ExpectedErrorCode != "" {
		AssertErrorResponse(t, testCtx, tc.ExpectedErrorCode)
	}

	if tc.ExpectedBody != nil {
		var actualBody map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		require.NoError(t, err, "Failed to unmarshal response body")

		for key, expectedValue := range tc.ExpectedBody {
			assert.Equal(t, expectedValue, actualBody[key], "Unexpected value for key: %s", key)
		}
	}

	if tc.Validate != nil {
		tc.Validate(t, testCtx)
	}
}

// JSONResponse parses the response body as JSON.
func JSONResponse(t *testing.T, tc *TestContext) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	err := json.Unmarshal(tc.ResponseBody(), &result)
	require.NoError(t, err, "Failed to parse JSON response")
	return result
}

// JSONResponseAs parses the response body into the provided struct.
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()

	var result T
	err := json.Unmarshal(tc.ResponseBody(), &result)
	require.NoError(t, err, "Failed to parse JSON response")
	return result
}

// AssertSuccessResponse asserts the response is a successful API response.
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.True(t, resp["success"].(bool), "Expected success to be true")
	assert.Nil(t, resp["error"], "Expected no error")
}

// AssertErrorResponse asserts the response is an error API response.
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.False(t, resp["success"].(bool), "Expected success to be false")

	errMap, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, expectedCode, errMap["code"], "Unexpected error code")
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v interface{}) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}

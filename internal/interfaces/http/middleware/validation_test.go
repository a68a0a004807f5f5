package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/interfaces/http/dto"
	"github.com/taponce/backend/tests/testutil"
)

type mspItem struct {
	CardDesignID string `json:"card_design_id" binding:"required,uuid"`
	Price        int    `json:"price" binding:"gte=100"`
}

type validationRequest struct {
	FullName string    `json:"full_name" binding:"required,min=2,max=10"`
	Email    string    `json:"email" binding:"omitempty,email"`
	Kind     string    `json:"kind" binding:"omitempty,oneof=photos logos"`
	Items    []mspItem `json:"items" binding:"dive"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req validationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postValidation(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "val-req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError(t *testing.T) {
	router := validationRouter()

	t.Run("valid request", func(t *testing.T) {
		w := postValidation(router, `{"full_name":"Asha","items":[{"card_design_id":"1b4e28ba-2fa1-11d2-883f-0016d3cca427","price":100}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("field errors use json paths", func(t *testing.T) {
		w := postValidation(router, `{"full_name":"A","email":"nope","kind":"videos","items":[{"card_design_id":"x","price":5}]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := testutil.JSONResponseAs[dto.Response](t, &testutil.TestContext{Recorder: w})
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "val-req-1", resp.Error.RequestID)

		messages := map[string]string{}
		for _, d := range resp.Error.Details {
			messages[d.Field] = d.Message
		}
		assert.Equal(t, "Must be at least 2 characters", messages["full_name"])
		assert.Equal(t, "Invalid email format", messages["email"])
		assert.Equal(t, "Must be one of: photos logos", messages["kind"])
		assert.Equal(t, "Invalid UUID format", messages["items[0].card_design_id"])
		assert.Equal(t, "Must be greater than or equal to 100", messages["items[0].price"])
	})

	t.Run("malformed json has no details", func(t *testing.T) {
		w := postValidation(router, `{"full_name":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := testutil.JSONResponseAs[dto.Response](t, &testutil.TestContext{Recorder: w})
		assert.Empty(t, resp.Error.Details)
	})
}

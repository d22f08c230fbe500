package circulation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc, store := newTestService(t)
	seed(t, store, 1)
	r := gin.New()
	passAuth := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r, svc, passAuth)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", path, strings.NewReader(body)))
	return w
}

func TestHandlerIssueAndReturn(t *testing.T) {
	r := newTestRouter(t)

	w := post(r, "/issue", `{"member_id":"m1","isbn":"111"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var issued IssueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issued))
	assert.Equal(t, "1", issued.Loan.LoanID)

	// 在庫切れは409
	w = post(r, "/issue", `{"member_id":"m1","isbn":"111"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "NO_COPIES_AVAILABLE")

	w = post(r, "/return", `{"member_id":"m1","isbn":"111"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var returned ReturnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &returned))
	assert.True(t, returned.LoanClosed)
}

func TestHandlerIssueValidation(t *testing.T) {
	r := newTestRouter(t)

	w := post(r, "/issue", `{"member_id":"m1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/issue", `{"member_id":"ghost","isbn":"111"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerListLoans(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, post(r, "/issue", `{"member_id":"m1","isbn":"111"}`).Code)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/loans", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var loans []LoanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loans))
	require.Len(t, loans, 1)
	assert.Equal(t, "m1", loans[0].MemberID)
}

func TestHandlerUpdateLoan(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, post(r, "/issue", `{"member_id":"m1","isbn":"111"}`).Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/loans/1", strings.NewReader(`{"due_date":"2026-05-01"}`))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026-05-01")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/loans/99", strings.NewReader(`{"returned":true}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	"github.com/erp/ecocare/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func importEngine(svc *mockExclusivityService) *gin.Engine {
	engine := newEngine()
	engine.POST("/exclusivity/import", NewProductHandler(nil, svc).ImportExclusivity)
	return engine
}

func postCSV(t *testing.T, engine *gin.Engine, query, content string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/exclusivity/import"+query, strings.NewReader(content))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestProductHandler_ImportExclusivity(t *testing.T) {
	product, customer := uuid.New(), uuid.New()
	file := fmt.Sprintf("product_id,customer_id\n%s,%s\n%s,%s\n", product, customer, product, customer)

	t.Run("applies assignments from a csv body", func(t *testing.T) {
		svc := new(mockExclusivityService)
		rows := []catalogapp.ExclusivityAssignment{{Row: 2, ProductID: product, CustomerID: customer}}
		svc.On("ImportAssignments", mock.Anything, testTenant, rows, catalogapp.ImportExclusivityOptions{Replace: true}).
			Return(&catalogapp.ImportExclusivityResult{Assignments: 1, Products: 1, Changed: []uuid.UUID{product}}, nil)

		w := postCSV(t, importEngine(svc), "?replace=true", file)

		require.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]any)
		assert.EqualValues(t, 2, data["total_rows"])
		assert.EqualValues(t, 1, data["duplicates"])
		assert.EqualValues(t, 1, data["result"].(map[string]any)["products"])
		svc.AssertExpectations(t)
	})

	t.Run("accepts a multipart upload", func(t *testing.T) {
		svc := new(mockExclusivityService)
		svc.On("ImportAssignments", mock.Anything, testTenant, mock.Anything, catalogapp.ImportExclusivityOptions{DryRun: true}).
			Return(&catalogapp.ImportExclusivityResult{Assignments: 1, DryRun: true, Changed: []uuid.UUID{}}, nil)

		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		part, err := form.CreateFormFile("file", "exclusivity.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(file))
		require.NoError(t, err)
		require.NoError(t, form.Close())

		req := httptest.NewRequest(http.MethodPost, "/exclusivity/import?dry_run=true", &body)
		req.Header.Set("Content-Type", form.FormDataContentType())
		w := httptest.NewRecorder()
		importEngine(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid rows reject the file", func(t *testing.T) {
		svc := new(mockExclusivityService)

		w := postCSV(t, importEngine(svc), "", "product_id,customer_id\nnope,"+customer.String()+"\n")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeImportRejected, resp.Error.Code)
		data := resp.Data.(map[string]any)
		assert.Len(t, data["errors"], 1)
		svc.AssertNotCalled(t, "ImportAssignments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown references reject the file", func(t *testing.T) {
		svc := new(mockExclusivityService)
		svc.On("ImportAssignments", mock.Anything, testTenant, mock.Anything, mock.Anything).
			Return(&catalogapp.ImportExclusivityResult{
				Assignments: 1,
				Changed:     []uuid.UUID{},
				Unknown:     []catalogapp.UnknownReference{{Row: 2, Column: "product_id", Value: product}},
			}, catalogapp.ErrImportRejected)

		w := postCSV(t, importEngine(svc), "", file)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		data := decode(t, w).Data.(map[string]any)
		unknown := data["result"].(map[string]any)["unknown"].([]any)
		assert.Len(t, unknown, 1)
	})

	t.Run("missing column", func(t *testing.T) {
		w := postCSV(t, importEngine(new(mockExclusivityService)), "", "product_id\n"+product.String())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeImportInvalidFile, decode(t, w).Error.Code)
	})

	t.Run("bad delimiter", func(t *testing.T) {
		w := postCSV(t, importEngine(new(mockExclusivityService)), "?delimiter=ab", file)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)
	})
}

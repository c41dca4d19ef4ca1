package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	"github.com/erp/ecocare/internal/infrastructure/csvimport"
	"github.com/erp/ecocare/internal/interfaces/http/dto"
	"github.com/erp/ecocare/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

const (
	maxImportFileSize = 10 << 20
	maxImportErrors   = 100
)

// ImportExclusivityQuery holds the import switches.
type ImportExclusivityQuery struct {
	Replace   bool   `form:"replace"`
	DryRun    bool   `form:"dry_run"`
	Delimiter string `form:"delimiter" binding:"omitempty,len=1"`
}

// ExclusivityImportReport describes a processed exclusivity file.
type ExclusivityImportReport struct {
	TotalRows   int                                 `json:"total_rows" example:"120"`
	Duplicates  int                                 `json:"duplicates" example:"2"`
	Errors      []csvimport.RowError                `json:"errors,omitempty"`
	TotalErrors int                                 `json:"total_errors,omitempty"`
	IsTruncated bool                                `json:"is_truncated,omitempty"`
	Result      *catalogapp.ImportExclusivityResult `json:"result,omitempty"`
}

// ImportExclusivity godoc
// @ID           importExclusivity
// @Summary      Import product/customer exclusivity assignments
// @Description  Reads a CSV file with product_id and customer_id columns, sent as the multipart field "file" or as a text/csv body.
// @Description  Any invalid row or unknown reference rejects the whole file.
// @Tags         products
// @Accept       multipart/form-data
// @Accept       text/csv
// @Produce      json
// @Param        file formData file false "CSV file"
// @Param        replace query bool false "Make the file the whole allow-list of each listed product"
// @Param        dry_run query bool false "Validate and report without saving"
// @Param        delimiter query string false "Field delimiter, defaults to a comma"
// @Success      200 {object} APIResponse[ExclusivityImportReport]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      422 {object} APIResponse[ExclusivityImportReport]
// @Security     BearerAuth
// @Router       /catalog/exclusivity/import [post]
func (h *ProductHandler) ImportExclusivity(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var query ImportExclusivityQuery
	if !h.bindQuery(c, &query) {
		return
	}

	body, ok := h.importBody(c)
	if !ok {
		return
	}
	defer body.Close()

	var opts []csvimport.ParserOption
	if query.Delimiter != "" {
		opts = append(opts, csvimport.WithDelimiter([]rune(query.Delimiter)[0]))
	}
	read, err := csvimport.ReadExclusivity(io.LimitReader(body, maxImportFileSize+1), maxImportErrors, opts...)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeImportInvalidFile, err.Error())
		return
	}

	report := ExclusivityImportReport{TotalRows: read.TotalRows, Duplicates: read.Duplicates}
	if read.Errors.HasErrors() {
		report.Errors = read.Errors.Errors()
		report.TotalErrors = read.Errors.TotalCount()
		report.IsTruncated = read.Errors.IsTruncated()
		h.rejectImport(c, "File contains invalid rows", report)
		return
	}

	result, err := h.exclusivity.ImportAssignments(c.Request.Context(), tenantID, read.Assignments, catalogapp.ImportExclusivityOptions{
		Replace: query.Replace,
		DryRun:  query.DryRun,
	})
	if err != nil {
		if errors.Is(err, catalogapp.ErrImportRejected) && result != nil {
			report.Result = result
			h.rejectImport(c, "File references unknown products or customers", report)
			return
		}
		h.HandleError(c, err)
		return
	}
	report.Result = result
	h.Success(c, report)
}

func (h *ProductHandler) importBody(c *gin.Context) (io.ReadCloser, bool) {
	if c.Request.ContentLength > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, "file exceeds maximum size of 10MB")
		return nil, false
	}
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			h.BadRequest(c, "file is required")
			return nil, false
		}
		if header.Size > maxImportFileSize {
			_ = file.Close()
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, "file exceeds maximum size of 10MB")
			return nil, false
		}
		return file, true
	}
	if c.Request.Body == nil {
		h.BadRequest(c, "file is required")
		return nil, false
	}
	return c.Request.Body, true
}

func (h *ProductHandler) rejectImport(c *gin.Context, message string, report ExclusivityImportReport) {
	c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithData(
		dto.ErrCodeImportRejected, message, middleware.GetRequestID(c), report,
	))
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/service"
	"fintrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes binds report endpoints behind the auth middleware.
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/invoices", h.InvoiceReport)
		reports.GET("/summary/csv", h.SummaryCSV)
		reports.GET("/invoice/:id/pdf", h.InvoicePDF)
		reports.GET("/revenue", h.RevenueStatistics)
	}
}

// InvoiceReport handles GET /reports/invoices
// @Summary      Invoice report
// @Description  Lists invoices in range with totals recomputed; rows whose stored totals drifted carry totalsStale
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Unpaid or Paid"
// @Param        from    query     string  false  "Issue date lower bound (YYYY-MM-DD)"
// @Param        to      query     string  false  "Issue date upper bound (YYYY-MM-DD)"
// @Success      200     {object}  response.Response{data=[]service.ReportInvoiceRow}
// @Failure      500     {object}  response.Response
// @Router       /reports/invoices [get]
func (h *ReportHandler) InvoiceReport(c *gin.Context) {
	rows, err := h.reportService.InvoiceReport(c.Request.Context(), h.filterFrom(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// SummaryCSV handles GET /reports/summary/csv
// @Summary      Invoice summary CSV
// @Description  Streams the invoice summary as a CSV download and logs the export
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        status  query  string  false  "Unpaid or Paid"
// @Param        from    query  string  false  "Issue date lower bound (YYYY-MM-DD)"
// @Param        to      query  string  false  "Issue date upper bound (YYYY-MM-DD)"
// @Success      200
// @Failure      500  {object}  response.Response
// @Router       /reports/summary/csv [get]
func (h *ReportHandler) SummaryCSV(c *gin.Context) {
	data, err := h.reportService.SummaryCSV(c.Request.Context(), h.filterFrom(c))
	if err != nil {
		fail(c, err)
		return
	}

	filename := "invoice-summary-" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "text/csv", data)
}

// InvoicePDF handles GET /reports/invoice/:id/pdf
// @Summary      Invoice PDF
// @Description  Renders a single invoice as a PDF download
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "Invoice ID"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /reports/invoice/{id}/pdf [get]
func (h *ReportHandler) InvoicePDF(c *gin.Context) {
	data, filename, err := h.reportService.InvoicePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// RevenueStatistics handles GET /reports/revenue
// @Summary      Revenue statistics
// @Description  Income vs group expense totals grouped by week, month, quarter or year
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        group_by    query     string  false  "week, month, quarter or year (default month)"
// @Param        start_date  query     string  false  "RFC3339 start (default: first of current month)"
// @Param        end_date    query     string  false  "RFC3339 end (default: now)"
// @Success      200         {object}  response.Response{data=[]service.RevenueDataPoint}
// @Failure      500         {object}  response.Response
// @Router       /reports/revenue [get]
func (h *ReportHandler) RevenueStatistics(c *gin.Context) {
	filter := service.RevenueFilter{
		GroupBy:   c.DefaultQuery("group_by", "month"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if filter.StartDate == "" || filter.EndDate == "" {
		start, end := service.DefaultRevenueRange(time.Now())
		if filter.StartDate == "" {
			filter.StartDate = start
		}
		if filter.EndDate == "" {
			filter.EndDate = end
		}
	}

	points, err := h.reportService.RevenueStatistics(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}

func (h *ReportHandler) filterFrom(c *gin.Context) service.ReportFilter {
	return service.ReportFilter{
		UserID: c.GetString("userID"),
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
}

package ui

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"abtest/domain/abtest"
	"abtest/internal/api"
)

// calculateForm is the HTML form posted to /calculate
type calculateForm struct {
	ControlSize          int `form:"control_size"`
	ControlConversions   int `form:"control_conversions"`
	VariationSize        int `form:"variation_size"`
	VariationConversions int `form:"variation_conversions"`
}

// pageData is shared by all templates
type pageData struct {
	Title  string
	Params abtest.Params
	Input  abtest.Input
	Report *abtest.Report
	Error  string
	Body   template.HTML
}

func (s *Server) page(title string) pageData {
	return pageData{Title: title, Params: s.params}
}

// handleIndex renders the empty calculator
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", s.page("Calculator"))
}

// handleCalculateForm renders the calculator with the analysis of the posted counts
func (s *Server) handleCalculateForm(c *gin.Context) {
	data := s.page("Results")

	var form calculateForm
	if err := c.ShouldBind(&form); err != nil {
		_, data.Error = api.StatusFor(api.DecodeError(err))
		s.renderTemplate(c, http.StatusBadRequest, "index.html", data)
		return
	}

	req := api.CalculateRequest{
		ControlSize:          api.Count(form.ControlSize),
		ControlConversions:   api.Count(form.ControlConversions),
		VariationSize:        api.Count(form.VariationSize),
		VariationConversions: api.Count(form.VariationConversions),
	}
	data.Input = req.Input()

	report, err := s.service.Calculate(req)
	if err != nil {
		var status int
		status, data.Error = api.StatusFor(err)
		s.renderTemplate(c, status, "index.html", data)
		return
	}
	data.Report = &report
	s.renderTemplate(c, http.StatusOK, "index.html", data)
}

// handleCalculateJSON is the JSON API used by the frontend
func (s *Server) handleCalculateJSON(c *gin.Context) {
	var req api.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, api.DecodeError(err))
		return
	}

	report, err := s.service.Calculate(req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.Header("X-Analysis-ID", uuid.NewString())
	c.JSON(http.StatusOK, report)
}

// handleSampleSize plans the per-group size of a future experiment
func (s *Server) handleSampleSize(c *gin.Context) {
	var req api.SampleSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, api.DecodeError(err))
		return
	}

	plan, err := s.service.PlanSampleSize(req)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// handleConcepts renders the statistical concepts page
func (s *Server) handleConcepts(c *gin.Context) {
	data := s.page("Concepts")
	data.Body = s.concepts
	s.renderTemplate(c, http.StatusOK, "concepts.html", data)
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status, message := api.StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("calculation failed", "err", err)
	}
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: message})
}

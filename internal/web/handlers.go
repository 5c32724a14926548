package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/implantsim/internal/config"
	"github.com/san-kum/implantsim/internal/experiment"
	"github.com/san-kum/implantsim/internal/export"
	"github.com/san-kum/implantsim/internal/release"
)

var errBadRequest = errors.New("bad request")

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type KindResponse struct {
	Name    string             `json:"name"`
	Title   string             `json:"title"`
	Summary string             `json:"summary"`
	YLabel  string             `json:"y_label"`
	Samples int                `json:"samples"`
	Is3D    bool               `json:"is_3d"`
	Params  []config.ParamSpec `json:"params"`
}

type SimulateRequest struct {
	Kind    string             `json:"kind" binding:"required"`
	Params  map[string]float64 `json:"params"`
	Samples int                `json:"samples"`
}

type SimulateResponse struct {
	Kind      string             `json:"kind"`
	Title     string             `json:"title"`
	YLabel    string             `json:"y_label"`
	Samples   int                `json:"samples"`
	Params    map[string]float64 `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
	Times     []float64          `json:"times"`
	Values    []float64          `json:"values"`
	Thickness []float64          `json:"thickness,omitempty"`
	ElapsedUS int64              `json:"elapsed_us"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "kinds": len(s.reg.Names())})
}

func (s *Server) kinds(c *gin.Context) {
	kinds := s.reg.Kinds()
	out := make([]KindResponse, len(kinds))
	for i, k := range kinds {
		out[i] = KindResponse{
			Name:    k.Name,
			Title:   k.Title,
			Summary: k.Summary,
			YLabel:  k.YLabel,
			Samples: k.Samples,
			Is3D:    k.Is3D,
			Params:  k.Params,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	res, err := s.run(c, req.Kind, req.Params, req.Samples)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := SimulateResponse{
		Kind:      res.Kind,
		Title:     res.Title,
		YLabel:    res.YLabel,
		Samples:   res.Samples,
		Params:    res.Params,
		Metrics:   export.FiniteOnly(res.Metrics),
		Times:     res.Series.Times,
		Values:    res.Series.Values,
		ElapsedUS: res.Elapsed.Microseconds(),
	}
	if res.Surface != nil {
		resp.Thickness = res.Surface.Thickness
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) csv(c *gin.Context) {
	res, err := s.runQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := res.Table().CSV()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(res.Title)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) chart(c *gin.Context) {
	res, err := s.runQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	svg, err := res.ChartSVG(c.DefaultQuery("mode", "2d"), c.Query("scale"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

// runQuery evaluates the kind in the path with parameters from the query
// string.
func (s *Server) runQuery(c *gin.Context) (*experiment.Result, error) {
	k, err := s.reg.Get(c.Param("kind"))
	if err != nil {
		return nil, err
	}
	params, err := queryParams(c, k)
	if err != nil {
		return nil, err
	}
	samples := 0
	if raw := c.Query("samples"); raw != "" {
		if samples, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("%w: samples: %v", errBadRequest, err)
		}
	}
	return s.run(c, k.Name, params, samples)
}

func queryParams(c *gin.Context, k experiment.Kind) (config.Params, error) {
	params := config.Params{}
	for _, spec := range k.Params {
		raw, ok := c.GetQuery(spec.Name)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errBadRequest, spec.Name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &release.ParamError{Name: spec.Name, Value: v, Wrapped: release.ErrNonFinite}
		}
		params[spec.Name] = v
	}
	return params, nil
}

// run validates names, clamps values to their ranges and evaluates.
func (s *Server) run(c *gin.Context, kind string, params config.Params, samples int) (*experiment.Result, error) {
	k, err := s.reg.Get(kind)
	if err != nil {
		return nil, err
	}
	if samples > MaxSamples {
		return nil, fmt.Errorf("%w: samples must be at most %d", errBadRequest, MaxSamples)
	}
	if _, err := k.Resolve(params); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.reg.Run(c.Request.Context(), k.Name, k.Clamp(params), samples)
	if err != nil {
		return nil, err
	}
	s.metrics.observe(k.Name, time.Since(start))
	s.log.WithFields(logrus.Fields{
		"kind":    k.Name,
		"samples": res.Samples,
		"elapsed": res.Elapsed,
	}).Info("simulation")
	return res, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, experiment.ErrUnknownKind),
		errors.Is(err, experiment.ErrUnknownParam),
		errors.Is(err, experiment.ErrChartMode),
		errors.Is(err, experiment.ErrChartScale),
		errors.Is(err, release.ErrNonFinite),
		errors.Is(err, release.ErrSampleCount):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	s.metrics.fail()
	status := statusFor(err)
	msg := "simulation failed"
	if status == http.StatusBadRequest {
		msg = "invalid request"
	}
	c.JSON(status, ErrorResponse{Error: msg, Details: err.Error()})
}

package api

import (
	stderrors "errors"
	"net/http"

	"github.com/charmbracelet/log"

	"abtest/domain/abtest"
	"abtest/internal/engine"
	"abtest/internal/errors"
	"abtest/internal/metrics"
)

// Client-facing messages for failures that must not leak internals
const (
	MsgCalculationFailed = "An error occurred during calculation"
	msgInvalidValues     = "Invalid input values: "
)

// Service is the boundary between transport handlers and the engine:
// it validates input, runs the analysis and records telemetry
type Service struct {
	engine  *engine.Engine
	metrics *metrics.Metrics
	logger  *log.Logger
}

// NewService creates a new calculation service; metrics may be nil
func NewService(e *engine.Engine, m *metrics.Metrics, logger *log.Logger) *Service {
	return &Service{engine: e, metrics: m, logger: logger.WithPrefix("service")}
}

// Calculate validates the request and returns the analysis report
func (s *Service) Calculate(req CalculateRequest) (report abtest.Report, err error) {
	in := req.Input()
	if err := in.Validate(); err != nil {
		return abtest.Report{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analysis panicked", "panic", r, "input", in)
			err = errors.InternalError(MsgCalculationFailed)
		}
	}()

	report = s.engine.Analyze(in)
	if s.metrics != nil {
		s.metrics.ObserveReport(report)
	}
	if failed := report.StatisticalTests.FailedProcedures(); len(failed) > 0 {
		s.logger.Debug("procedures could not be evaluated", "procedures", failed, "input", in)
	}
	return report, nil
}

// PlanSampleSize sizes a future experiment with the engine's alpha and power
func (s *Service) PlanSampleSize(req SampleSizeRequest) (engine.Plan, error) {
	return s.engine.Sizer().Plan(req.BaselineRate, req.MinimumDetectableEffect)
}

// DecodeError wraps a body decoding failure as invalid input
func DecodeError(err error) error {
	return errors.InvalidInput(msgInvalidValues + err.Error())
}

// StatusFor maps an error to its HTTP status and client-safe message
func StatusFor(err error) (int, string) {
	if errors.IsClientError(err) {
		return http.StatusBadRequest, clientMessage(err)
	}
	return http.StatusInternalServerError, MsgCalculationFailed
}

func clientMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

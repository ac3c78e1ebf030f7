package transport

import "go.uber.org/zap"

type RequestLog struct {
	Method string
	URL    string
	Body   any
}

type ResponseLog struct {
	URL        string
	StatusCode int
	Body       any
}

// Hook observes traffic for diagnostics. It must not retain or modify bodies.
type Hook interface {
	OnRequest(RequestLog)
	OnResponse(ResponseLog)
}

type logHook struct {
	logger *zap.Logger
}

// NewLogHook logs every request and response at debug level.
func NewLogHook(logger *zap.Logger) Hook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logHook{logger: logger.Named("api")}
}

func (h *logHook) OnRequest(r RequestLog) {
	h.logger.Debug("api request",
		zap.String("method", r.Method),
		zap.String("url", r.URL),
		zap.Any("body", r.Body),
	)
}

func (h *logHook) OnResponse(r ResponseLog) {
	h.logger.Debug("api response",
		zap.String("url", r.URL),
		zap.Int("status", r.StatusCode),
		zap.Any("body", r.Body),
	)
}

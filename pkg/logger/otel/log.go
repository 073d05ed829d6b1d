package otel

import (
	"encoding/json"

	"go.opentelemetry.io/otel/trace"

	"github.com/instill-ai/medical-backend/pkg/constant"
)

type Option func(l logMessage) logMessage

type logMessage struct {
	ID          string `json:"ID"`
	ServiceName string `json:"serviceName"`
	TraceInfo   struct {
		TraceID string `json:"traceID"`
		SpanID  string `json:"spanID"`
	}
	Event struct {
		EventName     string `json:"eventName"`
		EventResource any    `json:"eventResource"`
		EventResult   any    `json:"eventResult"`
		EventMessage  string `json:"eventMessage"`
	}
	ErrorMessage string `json:"errorMessage"`
}

// SetEventResource records the model or upload the event acted on.
func SetEventResource(res any) Option {
	return func(l logMessage) logMessage {
		l.Event.EventResource = res
		return l
	}
}

func SetEventResult(result any) Option {
	return func(l logMessage) logMessage {
		l.Event.EventResult = result
		return l
	}
}

func SetEventMessage(message string) Option {
	return func(l logMessage) logMessage {
		l.Event.EventMessage = message
		return l
	}
}

func SetErrorMessage(e string) Option {
	return func(l logMessage) logMessage {
		l.ErrorMessage = e
		return l
	}
}

// NewLogMessage builds the JSON audit line emitted once per handled request.
func NewLogMessage(span trace.Span, logID string, eventName string, options ...Option) []byte {
	msg := logMessage{}
	msg.ID = logID
	msg.ServiceName = constant.ServiceName
	msg.TraceInfo.TraceID = span.SpanContext().TraceID().String()
	msg.TraceInfo.SpanID = span.SpanContext().SpanID().String()
	msg.Event.EventName = eventName

	for _, o := range options {
		msg = o(msg)
	}

	b, _ := json.Marshal(msg)

	return b
}

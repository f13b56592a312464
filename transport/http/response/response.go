package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"lodging/shared/constant"
	"lodging/shared/failure"
	"lodging/shared/logger"
)

// Data wraps every successful payload as {"data": ...}.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the body of every failed request. Kind is the stable, machine
// readable failure class.
type Error struct {
	Error *string      `json:"error,omitempty"`
	Kind  failure.Kind `json:"kind,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError maps err to its status code and kind. Internal failures and
// unclassified errors are reported with a generic message.
func WithError(writer http.ResponseWriter, err error) {
	kind := failure.GetKind(err)
	message := http.StatusText(http.StatusInternalServerError)

	if fail := (*failure.Failure)(nil); errors.As(err, &fail) && kind != failure.KindInternal {
		message = fail.Message
	}

	write(writer, failure.GetCode(err), Error{Error: &message, Kind: kind})
}

// WithFile sends data as a download named fileName.
func WithFile(writer http.ResponseWriter, contentType, fileName string, data []byte) {
	header := writer.Header()
	header.Set(constant.RequestHeaderContentType, contentType)
	header.Set(constant.RequestHeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	writer.WriteHeader(http.StatusOK)

	if _, err := writer.Write(data); err != nil {
		logger.ErrorWithStack(err)
	}
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

// write marshals payload before touching the writer, so an encoding failure
// still yields a well-formed 500.
func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		code = http.StatusInternalServerError
		body = []byte(`{"error":"Internal Server Error","kind":"` + string(failure.KindInternal) + `"}`)
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}

package middleware

import (
	"net/http"

	"lodging/shared/constant"
	"lodging/shared/failure"
	"lodging/shared/validator"
	"lodging/transport/http/response"

	"github.com/go-chi/chi/v5"
)

// ValidID rejects a request whose {id} path parameter is not a UUID before it
// reaches a handler.
func ValidID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		id := chi.URLParam(request, constant.RequestParamID)
		if err := validator.ValidateVar(id, "required,uuid"); err != nil {
			response.WithError(writer, failure.BadRequestFromString("id must be a valid id"))

			return
		}

		next.ServeHTTP(writer, request)
	})
}

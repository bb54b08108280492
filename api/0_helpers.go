package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/nilsmartel/hotel/api/apicollectionv1"
	"github.com/nilsmartel/hotel/collection"
	"github.com/nilsmartel/hotel/database"
	"github.com/nilsmartel/hotel/service"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	type envelope PrettyError
	return json.Marshal(map[string]envelope{
		"error": envelope(p),
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("%w: opening", ErrUnavailable))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: closing", ErrUnavailable))
				return
			}
			next(ctx)
		}
	}
}

type errorStatus struct {
	err         error
	status      int
	description string
}

var errorStatuses = []errorStatus{
	{ErrUnauthorized, http.StatusUnauthorized, "user is not authenticated"},
	{ErrUnavailable, http.StatusServiceUnavailable, "try again later"},
	{service.ErrorCollectionNotFound, http.StatusNotFound, "collection not found"},
	{service.ErrorCollectionAlreadyExists, http.StatusConflict, "collection already exists"},
	{database.ErrInvalidName, http.StatusBadRequest, "invalid collection name"},
	{collection.ErrNotFound, http.StatusNotFound, "document not found"},
	{collection.ErrIndexNotFound, http.StatusNotFound, "index not found"},
	{collection.ErrKeyConflict, http.StatusConflict, "key already exists"},
	{collection.ErrIndexExists, http.StatusConflict, "index already exists"},
	{collection.ErrKeyChanged, http.StatusBadRequest, "key field cannot change"},
	{collection.ErrInvalidKey, http.StatusBadRequest, "invalid key"},
	{collection.ErrInvalidDocument, http.StatusBadRequest, "invalid document"},
	{apicollectionv1.ErrBadRequest, http.StatusBadRequest, "bad request"},
}

func isMalformedJSON(err error) bool {
	var syntaxError *json.SyntaxError
	var syntacticError *jsontext.SyntacticError
	var typeError *json.UnmarshalTypeError
	return errors.As(err, &syntaxError) ||
		errors.As(err, &syntacticError) ||
		errors.As(err, &typeError) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func writePrettyError(w http.ResponseWriter, status int, message, description string) {
	w.WriteHeader(status)
	PrettyError{
		Message:     message,
		Description: description,
	}.MarshalTo(w)
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		if err == box.ErrResourceNotFound {
			writePrettyError(w, http.StatusNotFound, err.Error(),
				fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()))
			return
		}

		if err == box.ErrMethodNotAllowed {
			writePrettyError(w, http.StatusMethodNotAllowed, err.Error(),
				fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method))
			return
		}

		for _, e := range errorStatuses {
			if errors.Is(err, e.err) {
				writePrettyError(w, e.status, err.Error(), e.description)
				return
			}
		}

		if isMalformedJSON(err) {
			writePrettyError(w, http.StatusBadRequest, err.Error(), "Malformed JSON")
			return
		}

		writePrettyError(w, http.StatusInternalServerError, err.Error(), "Unexpected error")
	}
}

// Package http provides helpers for writing JSON responses
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "snapgate/internal/platform/errors"
	pnet "snapgate/internal/platform/net"
)

// Bodies are written directly (no envelope): the report client and approval
// tooling consume ApprovalResult and status payloads as-is. Request ids ride
// on the X-Request-Id header instead.

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONStatus writes only a status with an empty object body
func JSONStatus(w stdhttp.ResponseWriter, status int) {
	JSON(w, status, map[string]any{})
}

// stampRequestID copies the request id from ctx onto the response header
func stampRequestID(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if id := pnet.RequestID(r.Context()); id != "" {
		w.Header().Set("X-Request-Id", id)
	}
}

//
// Effectful helpers (Respond*) for classic handlers
//

// RespondOK writes data as a 200 JSON body
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	stampRequestID(w, r)
	JSON(w, stdhttp.StatusOK, data)
}

// RespondCreated writes data as a 201 JSON body
func RespondCreated(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	stampRequestID(w, r)
	JSON(w, stdhttp.StatusCreated, data)
}

// RespondNoContent writes a 204 with no body
func RespondNoContent(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
	w.WriteHeader(stdhttp.StatusNoContent)
}

// RespondData is an alias for RespondOK
func RespondData(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	RespondOK(w, r, data)
}

// RespondError maps a project error onto a Wire body with the mapped status
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	stampRequestID(w, r)
	JSON(w, perr.HTTPStatus(err), perr.WireFrom(err))
}

//
// Return-style helpers for early returns in handlers
//

// Response is a functional response object for return-style handlers
type Response struct {
	Status int
	Body   any
	// optional headers if a handler wants to add any
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	// allow header overrides
	if resp.Header != nil {
		for k, vv := range resp.Header {
			for _, v := range vv {
				w.Header().Add(k, v)
			}
		}
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}

	stampRequestID(w, r)

	// If Body is an error, derive status from the error and write its Wire form
	if err, ok := resp.Body.(error); ok && err != nil {
		JSON(w, perr.HTTPStatus(err), perr.WireFrom(err))
		return
	}

	JSON(w, status, resp.Body)
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created returns a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Data is an alias for OK
func Data(v any) Response { return OK(v) }

// With returns a response with an explicit status and body
// (approval failures ride a 500 while still carrying a structured result body)
func With(status int, body any) Response { return Response{Status: status, Body: body} }

// Error returns a response that maps the error to a status and Wire body
func Error(err error) Response { return Response{Body: err} }

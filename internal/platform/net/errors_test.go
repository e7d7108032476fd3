package net_test

import (
	"errors"
	"net/http"
	"testing"

	perr "snapgate/internal/platform/errors"
	pnet "snapgate/internal/platform/net"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error -> 200",
			err:  nil,
			want: http.StatusOK,
		},
		{
			name: "generic error -> perr mapping (expect 5xx)",
			err:  errors.New("boom"),
			want: 0, // special: we'll assert range
		},
		{
			name: "project forbidden -> 403",
			err:  perr.New(perr.ErrorCodeForbidden, "outside report root"),
			want: http.StatusForbidden,
		},
		{
			name: "project not found -> 404",
			err:  perr.New(perr.ErrorCodeNotFound, "no current screenshot"),
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pnet.HTTPStatus(tt.err)
			if tt.want == 0 {
				if got < 400 || got > 599 {
					t.Fatalf("expected 4xx/5xx for generic error, got %d", got)
				}
				return
			}
			if got != tt.want {
				t.Fatalf("want %d got %d", tt.want, got)
			}
		})
	}
}

package req_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"sky_mods/pkg/errcodes"
	"sky_mods/pkg/httpx/req"
)

type body struct {
	Name   string   `json:"name" validate:"required"`
	Fields []string `json:"fields" validate:"max=2"`
}

func TestRead(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		valid   bool
	}{
		{name: "ok", payload: `{"name":"a","fields":["x"]}`, valid: true},
		{name: "broken json", payload: `{"name":`},
		{name: "missing name", payload: `{"fields":[]}`},
		{name: "too many fields", payload: `{"name":"a","fields":["x","y","z"]}`},
		{name: "too large", payload: `{"name":"` + strings.Repeat("a", req.MaxBodySize) + `"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)

			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.payload))

			var dest body

			err := req.Read(r, &dest)
			if tc.valid {
				rq.NoError(err)
				rq.Equal("a", dest.Name)

				return
			}

			rq.Error(err)
			rq.True(failure.IsInvalidArgumentError(err))
			rq.Equal(errcodes.ValidationError, failure.Code(err))
		})
	}
}

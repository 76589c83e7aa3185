package trans

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lainio/err2/assert"
)

func TestHTTP_Send(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != ContentType {
			http.Error(w, "wrong content type", http.StatusUnsupportedMediaType)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/fail/") {
			http.Error(w, "cannot process", http.StatusInternalServerError)
			return
		}
		got, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	h := &HTTP{Client: srv.Client(), Timeout: time.Second}

	assert.NoError(h.Send(context.Background(), srv.URL+"/a2a/", []byte("packed")))
	assert.Equal(string(got), "packed")

	err := h.Send(context.Background(), srv.URL+"/fail/", []byte("packed"))
	assert.Error(err)
	assert.That(strings.Contains(err.Error(), "cannot process"))

	assert.Error(h.Send(context.Background(), "ws://localhost/a2a/", nil))
	assert.Error(h.Send(context.Background(), "://", nil))
}

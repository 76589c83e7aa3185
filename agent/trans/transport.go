/*
Package trans is the outbound HTTP transport of the packed agent to agent
messages. Messages are POSTed to the endpoint of the other end, and the
reply of the other end comes later as its own inbound request.
*/
package trans

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ContentType is the media type of the packed messages.
const ContentType = "application/ssi-agent-wire"

// errorMessageMaxLength is the maximum length of the response body we will
// include into the generated error message
const errorMessageMaxLength = 80

// Sender sends packed messages to their endpoints.
type Sender interface {
	Send(ctx context.Context, endpoint string, data []byte) error
}

// HTTP is the HTTP Sender.
type HTTP struct {
	Client  *http.Client
	Timeout time.Duration
}

var _ Sender = (*HTTP)(nil)

// NewHTTP returns the HTTP sender with the request timeout of the settings.
func NewHTTP() *HTTP {
	return &HTTP{Client: &http.Client{}, Timeout: utils.Settings.Timeout()}
}

// Send POSTs the data to the endpoint. Any other status than 2xx is an error.
func (h *HTTP) Send(ctx context.Context, endpoint string, data []byte) (err error) {
	defer err2.Handle(&err, "send to %s", endpoint)

	URL := try.To1(url.Parse(endpoint))
	if URL.Scheme != "http" && URL.Scheme != "https" {
		return fmt.Errorf("unsupported endpoint scheme %q", URL.Scheme)
	}

	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	request := try.To1(http.NewRequestWithContext(ctx, http.MethodPost,
		URL.String(), bytes.NewReader(data)))
	request.Close = true // deferred response.Body.Close isn't always enough
	request.Header.Set("Content-Type", ContentType)

	glog.V(5).Infof("POST %d bytes to %s", len(data), URL)
	response := try.To1(h.Client.Do(request))
	defer func() {
		closeErr := response.Body.Close()
		if closeErr != nil {
			glog.Warningln("body.Close: ", closeErr)
		}
	}()

	body, _ := io.ReadAll(io.LimitReader(response.Body, errorMessageMaxLength))
	return checkHTTPStatus(response, body)
}

// checkHTTPStatus checks the status code and gets the server message
func checkHTTPStatus(response *http.Response, data []byte) error {
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	glog.Warning("http code:", response.Status)
	contentType := response.Header.Get("Content-type")
	if strings.HasPrefix(contentType, "text/plain") && len(data) > 0 {
		return fmt.Errorf("%s: %s", response.Status, data)
	}
	return fmt.Errorf("%v", response.Status)
}

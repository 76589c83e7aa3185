/*
Package server encapsulates the http server entry point of the agent to
agent transport. The packed messages are POSTed to /<service name>/ and
processed before the response, and the replies are sent to the other end's
endpoint in the background.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/findy-network/findy-a2a/agent/comm"
	"github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/prot"
	"github.com/findy-network/findy-a2a/agent/sec"
	"github.com/findy-network/findy-a2a/agent/trans"
	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// maxMessageSize limits the size of the inbound messages.
const maxMessageSize = 4 << 20

// Server feeds the inbound messages to the processor and sends the replies.
type Server struct {
	Processor *prot.Processor
	AgentKey  string
	Sender    trans.Sender

	wg sync.WaitGroup
}

func New(proc *prot.Processor, agentKey string, sender trans.Sender) *Server {
	return &Server{Processor: proc, AgentKey: agentKey, Sender: sender}
}

// Handler returns the mux of the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	pattern := fmt.Sprintf("/%s/", utils.Settings.ServiceName())
	mux.HandleFunc(pattern, s.protocolTransport)

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		if glog.V(5) {
			glog.Info("/version requested")
		}
		_, _ = w.Write([]byte(utils.Version))
	})
	return mux
}

// Start starts the http server. The function blocks until the server is
// closed by the context.
func (s *Server) Start(ctx context.Context, serverPort uint) (err error) {
	defer err2.Handle(&err, "http server")

	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", serverPort),
		Handler: s.Handler(),
	}
	go func() {
		<-ctx.Done()
		glog.V(1).Infoln("shutting down http server")
		_ = server.Shutdown(context.Background())
	}()

	if glog.V(1) {
		glog.Info(utils.Settings.VersionInfo())
		glog.Infof("HTTP Server on port: %v, endpoint: %s",
			serverPort, utils.Settings.Endpoint())
	}
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	try.To(err)
	s.Wait()
	return nil
}

// Wait waits until the replies sent in the background are done.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) protocolTransport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	glog.V(3).Infoln("===== A2A TRANSPORT =====", r.URL.Path)

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageSize))
	if err != nil {
		http.Error(w, "cannot read message", http.StatusBadRequest)
		return
	}

	reply, endpoint, err := s.Processor.ProcessBytes(r.Context(), data, s.AgentKey)
	if err != nil {
		glog.Errorln("process:", err)
		http.Error(w, http.StatusText(statusOf(err)), statusOf(err))
		return
	}
	if reply != nil {
		s.send(endpoint, reply)
	}
	w.WriteHeader(http.StatusAccepted)
}

// send sends the reply in the background. The request context isn't used
// since it ends with the request.
func (s *Server) send(endpoint string, data []byte) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer err2.Catch(err2.Err(func(err error) {
			glog.Errorln("send reply:", err)
		}))
		try.To(s.Sender.Send(context.Background(), endpoint, data))
		glog.V(3).Infoln("reply sent to", endpoint)
	}()
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, sec.ErrDecryptionFailed),
		errors.Is(err, didcomm.ErrMalformedEnvelope),
		errors.Is(err, didcomm.ErrMalformedJSON),
		errors.Is(err, didcomm.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, prot.ErrUnknownConnection):
		return http.StatusNotFound
	case errors.Is(err, connection.ErrInvalidState),
		errors.Is(err, comm.ErrNoHandler):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

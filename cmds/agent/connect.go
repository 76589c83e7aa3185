package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	cnx "github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/prot"
	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/findy-network/findy-a2a/cmds"
	"github.com/findy-network/findy-a2a/server"
	stdconn "github.com/findy-network/findy-a2a/std/connection"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const pollInterval = 200 * time.Millisecond

var ErrNotConnected = errors.New("connection not ready")

// ConnectCmd accepts the invitation and sends the connection request to the
// inviter. With Wait the command serves the endpoint itself until the
// connection is ready, otherwise the response is handled by the next serve.
type ConnectCmd struct {
	Cmd
	Invitation string // URL or JSON
	Label      string
	Alias      string
	ServerPort uint
	Wait       time.Duration
}

func (c ConnectCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.Invitation == "" {
		return fmt.Errorf("%w: invitation cannot be empty", cmds.ErrInvalid)
	}
	if c.Wait > 0 && c.ServerPort == 0 {
		return fmt.Errorf("%w: waiting needs the server port", cmds.ErrInvalid)
	}
	return nil
}

type ConnectResult struct {
	Connection *cnx.Record `json:"connection"`
}

func (r ConnectResult) JSON() ([]byte, error) {
	return jsonOf(r.Connection)
}

func (c ConnectCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "connect")

	inv := try.To1(stdconn.ParseInvitation(c.Invitation))

	ctx := context.Background()
	a := try.To1(c.Open(ctx, w))
	defer a.Close()

	label := c.Label
	if label == "" {
		label = utils.Settings.Label()
	}
	req, rec := try.To2(a.Protocol.AcceptInvitation(ctx, inv, label, c.Alias))

	if c.Wait <= 0 {
		try.To(a.Send(ctx, &prot.Outbound{Message: req, Connection: rec}))
		cmds.Fprintln(w, rec.ID)
		return ConnectResult{Connection: rec}, nil
	}

	srvCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	srv := server.New(a.Processor, a.AgentKey, a.Sender)
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(srvCtx, c.ServerPort)
	}()

	try.To(a.Send(ctx, &prot.Outbound{Message: req, Connection: rec}))

	progress := cmds.Progress(w)
	rec, err = waitConnected(ctx, a, rec.ID, c.Wait)
	close(progress)
	cmds.Fprintln(w)

	cancel()
	if serr := <-done; serr != nil {
		glog.Warningln("server:", serr)
	}
	try.To(err)

	cmds.Fprintln(w, rec.ID)
	return ConnectResult{Connection: rec}, nil
}

// waitConnected polls the record until it's connected, it ends to the
// terminal state or the timeout.
func waitConnected(ctx context.Context, a *Agent, id string, timeout time.Duration) (*cnx.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		rec, err := a.Store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		switch {
		case rec.IsConnected():
			return rec, nil
		case rec.State.IsTerminal():
			return nil, fmt.Errorf("%w: connection is %s", ErrNotConnected, rec.State)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ErrNotConnected, rec.State, ctx.Err())
		case <-ticker.C:
		}
	}
}

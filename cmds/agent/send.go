package agent

import (
	"context"
	"fmt"
	"io"

	cnx "github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/prot"
	"github.com/findy-network/findy-a2a/cmds"
	"github.com/findy-network/findy-a2a/std/basicmessage"
	"github.com/findy-network/findy-a2a/std/trustping"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// SendCmd sends a basic message to the connection.
type SendCmd struct {
	Cmd
	ConnectionID string
	Message      string
}

func (c SendCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ConnectionID == "" {
		return fmt.Errorf("%w: connection id cannot be empty", cmds.ErrInvalid)
	}
	if c.Message == "" {
		return fmt.Errorf("%w: message cannot be empty", cmds.ErrInvalid)
	}
	return nil
}

func (c SendCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "send message")

	return sendTo(c.Cmd, c.ConnectionID, basicmessage.New(c.Message), w)
}

// PingCmd sends a trust ping to the connection. The response arrives to the
// served endpoint of the agent.
type PingCmd struct {
	Cmd
	ConnectionID string
}

func (c PingCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ConnectionID == "" {
		return fmt.Errorf("%w: connection id cannot be empty", cmds.ErrInvalid)
	}
	return nil
}

func (c PingCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "ping")

	return sendTo(c.Cmd, c.ConnectionID, trustping.NewPing(""), w)
}

type SendResult struct {
	ID         string `json:"id"`
	Connection string `json:"connectionId"`
}

func (r SendResult) JSON() ([]byte, error) {
	return jsonOf(r)
}

func sendTo(c Cmd, connID string, m didcomm.MessageHdr, w io.Writer) (cmds.Result, error) {
	ctx := context.Background()
	a := try.To1(c.Open(ctx, nil))
	defer a.Close()

	rec := try.To1(a.Store.Get(ctx, connID))
	if !rec.IsConnected() {
		return nil, fmt.Errorf("%w: connection %s is %s",
			cnx.ErrInvalidState, connID, rec.State)
	}
	try.To(a.Send(ctx, &prot.Outbound{Message: m, Connection: rec}))

	cmds.Fprintln(w, m.ID())
	return SendResult{ID: m.ID(), Connection: connID}, nil
}

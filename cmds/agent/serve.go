package agent

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/findy-network/findy-a2a/cmds"
	"github.com/findy-network/findy-a2a/server"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const DefaultJanitorInterval = time.Hour

// ServeCmd runs the agent to agent endpoint until the context is done.
type ServeCmd struct {
	Cmd
	ServerPort      uint
	InvitationTTL   time.Duration
	JanitorInterval time.Duration

	Ctx context.Context
}

func (c ServeCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ServerPort == 0 {
		return fmt.Errorf("%w: server port cannot be zero", cmds.ErrInvalid)
	}
	if c.InvitationTTL < 0 || c.JanitorInterval < 0 {
		return fmt.Errorf("%w: negative duration", cmds.ErrInvalid)
	}
	return nil
}

type ServeResult struct {
	AgentKey string `json:"agentKey"`
	Endpoint string `json:"endpoint"`
}

func (r ServeResult) JSON() ([]byte, error) {
	return jsonOf(r)
}

func (c ServeCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "serve")

	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	a := try.To1(c.Open(ctx, w))
	defer a.Close()

	ttl := c.InvitationTTL
	if ttl == 0 {
		ttl = utils.Settings.InvitationTTL()
	}
	interval := c.JanitorInterval
	if interval == 0 {
		interval = DefaultJanitorInterval
	}
	janitor := try.To1(server.StartJanitor(a.Store, ttl, interval))
	defer janitor.Stop()

	res := ServeResult{AgentKey: a.AgentKey, Endpoint: utils.Settings.Endpoint()}
	cmds.Fprintf(w, "agent %s serving at %s\n", c.Name, res.Endpoint)

	try.To(server.New(a.Processor, a.AgentKey, a.Sender).Start(ctx, c.ServerPort))
	return res, nil
}

package agent

import (
	"context"
	"encoding/json"
	"io"

	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/findy-network/findy-a2a/cmds"
	stdconn "github.com/findy-network/findy-a2a/std/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// InvitationCmd creates a single use invitation. The invitation is stored
// with its connection record, so the agent served later accepts it.
type InvitationCmd struct {
	Cmd
	Label string
	Alias string
	URL   bool // print the URL form instead of JSON
}

func (c InvitationCmd) Validate() error {
	return c.Cmd.Validate()
}

type InvitationResult struct {
	Invitation   *stdconn.Invitation `json:"invitation"`
	URL          string              `json:"url"`
	ConnectionID string              `json:"connectionId"`
}

func (r InvitationResult) JSON() ([]byte, error) {
	return json.Marshal(r.Invitation)
}

func (c InvitationCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "invitation")

	ctx := context.Background()
	a := try.To1(c.Open(ctx, nil))
	defer a.Close()

	label := c.Label
	if label == "" {
		label = utils.Settings.Label()
	}
	inv, rec := try.To2(a.Protocol.CreateInvitation(ctx, label, c.Alias))
	ir := InvitationResult{
		Invitation:   inv,
		URL:          try.To1(stdconn.InvitationURL(inv)),
		ConnectionID: rec.ID,
	}
	if c.URL {
		cmds.Fprintln(w, ir.URL)
	} else {
		cmds.Fprintln(w, string(try.To1(ir.JSON())))
	}
	return ir, nil
}

func jsonOf(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

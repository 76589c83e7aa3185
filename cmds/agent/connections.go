package agent

import (
	"context"
	"fmt"
	"io"

	cnx "github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/pairwise"
	"github.com/findy-network/findy-a2a/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ListCmd lists the connections of the agent, all of them or the ones in
// the State.
type ListCmd struct {
	Cmd
	State string
}

func (c ListCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.State != "" && !cnx.State(c.State).IsValid() {
		return fmt.Errorf("%w: unknown state %q", cmds.ErrInvalid, c.State)
	}
	return nil
}

type ListResult struct {
	Connections []*cnx.Record `json:"connections"`
}

func (r ListResult) JSON() ([]byte, error) {
	return jsonOf(r)
}

func (c ListCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "list connections")

	ctx := context.Background()
	a := try.To1(c.Open(ctx, nil))
	defer a.Close()

	expr := pairwise.TagState
	if c.State != "" {
		expr += ":" + c.State
	}
	res := ListResult{Connections: try.To1(a.Store.Find(ctx, expr))}
	for _, rec := range res.Connections {
		cmds.Fprintf(w, "%s\t%-11s\t%s\t%s\n",
			rec.ID, rec.State, rec.Alias, rec.TheirLabel)
	}
	return res, nil
}

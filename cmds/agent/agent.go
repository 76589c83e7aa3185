/*
Package agent implements the agent commands of the CLI: serving the agent to
agent endpoint, creating and accepting invitations, listing connections, and
sending messages to connected agents. All of them work on the bolt storage of
one agent, and since a bolt file can be opened by one process at the time,
the commands which need the endpoint for replies (serve, connect --wait) run
the server themselves.
*/
package agent

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/findy-network/findy-a2a/agent/comm"
	cnx "github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/pairwise"
	"github.com/findy-network/findy-a2a/agent/prot"
	"github.com/findy-network/findy-a2a/agent/ssi"
	"github.com/findy-network/findy-a2a/agent/storage/cfg"
	"github.com/findy-network/findy-a2a/agent/trans"
	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/findy-network/findy-a2a/cmds"
	"github.com/findy-network/findy-a2a/protocol/basicmessage"
	"github.com/findy-network/findy-a2a/protocol/challenge"
	"github.com/findy-network/findy-a2a/protocol/connection"
	"github.com/findy-network/findy-a2a/protocol/notification"
	"github.com/findy-network/findy-a2a/protocol/trustping"
	stdbm "github.com/findy-network/findy-a2a/std/basicmessage"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const storageKeyLen = 64

// Cmd is the common part of the agent commands: where the agent lives and
// how it is reached.
type Cmd struct {
	Name       string `cmd_usage:"agent name is required"`
	DataDir    string
	StorageKey string // hex coded sealing key of the stored values
	Seed       string // seed of the agent key, used at the first start
	HostAddr   string // public address, e.g. http://localhost:8090
}

func (c Cmd) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: agent name cannot be empty", cmds.ErrInvalid)
	}
	if err := cmds.ValidateSeed(c.Seed); err != nil {
		return err
	}
	if c.StorageKey != "" {
		if _, err := hex.DecodeString(c.StorageKey); err != nil || len(c.StorageKey) != storageKeyLen {
			return fmt.Errorf("%w: storage key must be %d hex characters",
				cmds.ErrInvalid, storageKeyLen)
		}
	}
	return nil
}

func (c Cmd) storage() *cfg.AgentStorage {
	dir := c.DataDir
	if dir == "" {
		dir = utils.Settings.DataDir()
	}
	return &cfg.AgentStorage{
		AgentKey: c.StorageKey,
		AgentID:  c.Name,
		FilePath: dir,
	}
}

// Agent is the open agent: its storage, keys, connections and the message
// processor with all the protocol handlers registered.
type Agent struct {
	storage *cfg.AgentStorage

	Wallet    *ssi.Wallet
	Store     *pairwise.Store
	AgentKey  string
	Protocol  *connection.Protocol
	Registry  *comm.Registry
	Processor *prot.Processor
	Sender    trans.Sender
}

// Open opens the agent of the command. Basic messages are printed to w. The
// caller must Close the agent.
func (c Cmd) Open(ctx context.Context, w io.Writer) (a *Agent, err error) {
	defer err2.Handle(&err, "open agent %s", c.Name)

	if c.HostAddr != "" {
		utils.Settings.SetHostAddr(c.HostAddr)
	}

	st := c.storage()
	provider := try.To1(st.Open())
	defer err2.Handle(&err, func(err error) error {
		if cerr := st.Close(); cerr != nil {
			glog.Warningln("close storage:", cerr)
		}
		return err
	})

	a = &Agent{storage: st, Sender: trans.NewHTTP()}
	a.Wallet = ssi.NewWallet(try.To1(provider.OpenStore(cfg.WalletStore)))
	a.Store = pairwise.New(try.To1(provider.OpenStore(cfg.ConnectionStore)))
	a.AgentKey = try.To1(a.Wallet.AgentKey(ctx, c.Seed)).VerKey

	a.Protocol = connection.New(a.Wallet, a.Store, utils.Settings.Endpoint(), a.AgentKey)
	a.Registry = try.To1(comm.NewRegistry(
		a.Protocol,
		trustping.Handler(),
		basicmessage.Handler(printer(w)),
		challenge.Handler(nil),
		notification.Handler(),
	))
	a.Processor = prot.New(a.Wallet, a.Store, a.Registry)

	glog.V(1).Infof("agent %s open, key: %s, handlers: %s",
		c.Name, a.AgentKey, a.Registry)
	return a, nil
}

func printer(w io.Writer) basicmessage.Listener {
	return func(rec *cnx.Record, msg *stdbm.Basicmessage) {
		if w == nil {
			return
		}
		from := rec.TheirLabel
		if rec.Alias != "" {
			from = rec.Alias
		}
		_, _ = fmt.Fprintf(w, "%s (%s): %s\n", from, rec.ID, msg.Content)
	}
}

// Close closes the storage of the agent.
func (a *Agent) Close() error {
	return a.storage.Close()
}

// Send packs the message to the connection and sends it to the endpoint of
// the connection.
func (a *Agent) Send(ctx context.Context, out *prot.Outbound) (err error) {
	defer err2.Handle(&err, "send %s", out.Message.Type())

	if out.Connection.Endpoint == "" {
		return errors.New("connection has no endpoint")
	}
	data := try.To1(a.Processor.Pack(ctx, out))
	try.To(a.Sender.Send(ctx, out.Connection.Endpoint, data))
	return nil
}

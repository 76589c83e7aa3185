// Package key implements the key tools of the CLI.
package key

import (
	"context"
	"encoding/json"
	"io"

	"github.com/findy-network/findy-a2a/agent/ssi"
	"github.com/findy-network/findy-a2a/agent/storage/cfg"
	"github.com/findy-network/findy-a2a/agent/storage/mem"
	"github.com/findy-network/findy-a2a/agent/storage/wrapper"
	"github.com/findy-network/findy-a2a/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// CreateCmd creates an ed25519 key from the seed, or the sealing key for
// the agent storage when Storage is set.
type CreateCmd struct {
	Seed    string
	Storage bool
}

func (c *CreateCmd) Validate() error {
	if err := cmds.ValidateSeed(c.Seed); err != nil {
		return err
	}
	return nil
}

type Result struct {
	VerKey     string `json:"verkey,omitempty"`
	DID        string `json:"did,omitempty"`
	StorageKey string `json:"storageKey,omitempty"`
}

func (r Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (c *CreateCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "create key")

	if c.Storage {
		res := Result{StorageKey: wrapper.GenerateKey()}
		cmds.Fprintln(w, res.StorageKey)
		return res, nil
	}

	store := try.To1(mem.New().OpenStore(cfg.WalletStore))
	k := try.To1(ssi.NewWallet(store).CreateKey(context.Background(), c.Seed))
	res := Result{VerKey: k.VerKey, DID: k.DID}
	cmds.Fprintln(w, res.VerKey)
	cmds.Fprintln(w, res.DID)
	return res, nil
}

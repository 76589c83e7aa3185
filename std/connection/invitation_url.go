package connection

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const invitationParam = "c_i"

var ErrInvalidInvitation = errors.New("invalid invitation")

// InvitationURL returns the invitation in the URL form:
// endpoint?c_i=<base64url(JSON)>.
func InvitationURL(inv *Invitation) (s string, err error) {
	defer err2.Handle(&err, "invitation URL")

	u := try.To1(url.Parse(inv.ServiceEndpoint))
	q := u.Query()
	q.Set(invitationParam, utils.EncodeB64(try.To1(json.Marshal(inv))))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseInvitation reads the invitation from the URL form or from plain JSON.
func ParseInvitation(s string) (inv *Invitation, err error) {
	defer err2.Handle(&err, func(err error) error {
		return fmt.Errorf("%w: %v", ErrInvalidInvitation, err)
	})

	data := []byte(s)
	if len(s) > 0 && s[0] != '{' {
		u := try.To1(url.Parse(s))
		param := u.Query().Get(invitationParam)
		if param == "" {
			return nil, errors.New("c_i parameter missing")
		}
		data = try.To1(utils.DecodeB64(param))
	}
	parsed := new(Invitation)
	try.To(json.Unmarshal(data, parsed))
	inv = parsed

	if pltype.Normalize(inv.Type()) != pltype.Normalize(pltype.AriesConnectionInvitation) {
		return nil, fmt.Errorf("wrong type %q", inv.Type())
	}
	if inv.RecipientKey() == "" || inv.ServiceEndpoint == "" {
		return nil, errors.New("recipient key or endpoint missing")
	}
	return inv, nil
}

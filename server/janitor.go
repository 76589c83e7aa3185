package server

import (
	"context"
	"errors"
	"time"

	"github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/pairwise"
	"github.com/go-co-op/gocron"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// StartJanitor starts the cron job which abandons our invitations nobody
// has used in ttl. Stop the returned scheduler at shutdown.
func StartJanitor(store *pairwise.Store, ttl, interval time.Duration) (cron *gocron.Scheduler, err error) {
	defer err2.Handle(&err, "start janitor")

	cron = gocron.NewScheduler(time.Now().Location())
	try.To1(cron.Every(interval).Do(func() {
		n, err := AbandonStale(context.Background(), store, ttl, time.Now())
		if err != nil {
			glog.Warningln("janitor:", err)
			return
		}
		glog.V(1).Infof("janitor: %d invitations abandoned", n)
	}))
	cron.StartAsync()
	return cron, nil
}

// AbandonStale moves our invitations older than ttl to the abandoned state.
// Invitations accepted in the meantime are left as they are.
func AbandonStale(ctx context.Context, store *pairwise.Store, ttl time.Duration, now time.Time) (n int, err error) {
	defer err2.Handle(&err, "abandon stale invitations")

	invited := try.To1(store.Find(ctx, pairwise.TagState+":"+string(connection.Invited)))
	for _, rec := range invited {
		if rec.MyKey != rec.InvitationKey || now.Sub(rec.Created) < ttl {
			continue
		}
		ok, err := abandonInvited(ctx, store, rec.ID)
		if err != nil {
			glog.Warningf("connection %s: %v", rec.ID, err)
			continue
		}
		if !ok {
			glog.V(3).Infoln("connection", rec.ID, "accepted meanwhile")
			continue
		}
		n++
	}
	return n, nil
}

var errNotInvited = errors.New("not invited")

// abandonInvited aborts the record only if it's still invited when modified.
func abandonInvited(ctx context.Context, store *pairwise.Store, id string) (bool, error) {
	_, err := store.Modify(ctx, id, func(r *connection.Record) error {
		if r.State != connection.Invited {
			return errNotInvited
		}
		return r.Transit(connection.EventAbort)
	})
	if errors.Is(err, errNotInvited) {
		return false, nil
	}
	return err == nil, err
}

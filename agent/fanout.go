package agent

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/hupe1980/agentbus/core"
	"github.com/hupe1980/agentbus/tracker"
)

// leg is one delegated send of a fan-out.
type leg struct {
	agentID string
	content string
}

// fanOut runs every leg concurrently and blocks until conv has collected a
// response from each assignee (in arrival order) or ctx is done. send never
// fails; coordinators turn errors into response text themselves.
func fanOut(
	ctx context.Context,
	conv *tracker.Tracker,
	pool *ants.Pool,
	conversationID string,
	legs []leg,
	send func(ctx context.Context, l leg) core.Response,
) ([]core.Response, error) {
	ids := make([]string, 0, len(legs))
	for _, l := range legs {
		ids = append(ids, l.agentID)
	}

	done := make(chan []core.Response, 1)
	conv.Start(conversationID, ids, func(responses []core.Response) error {
		done <- responses
		return nil
	})

	for _, l := range legs {
		submit(pool, func() {
			resp := send(ctx, l)
			// attribute to the assignee so a loop-guard reply still closes the leg
			resp.From = l.agentID
			_ = conv.Receive(conversationID, resp)
		})
	}

	select {
	case responses := <-done:
		return responses, nil
	case <-ctx.Done():
		conv.Cancel(conversationID)
		return nil, ctx.Err()
	}
}

// responseFrom returns the content of the first response sent by id.
func responseFrom(responses []core.Response, id, missing string) string {
	for _, r := range responses {
		if r.From == id {
			return r.Content
		}
	}
	return missing
}

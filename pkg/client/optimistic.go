package client

import "context"

// Optimistic applies a local prediction before the request completes and
// rolls it back with Compensate when the request fails.
type Optimistic struct {
	Apply      func()
	Do         func(ctx context.Context) error
	Compensate func()
}

func (o Optimistic) Run(ctx context.Context) error {
	if o.Apply != nil {
		o.Apply()
	}
	if err := o.Do(ctx); err != nil {
		if o.Compensate != nil {
			o.Compensate()
		}
		return err
	}
	return nil
}

// LikeSet is a client-side view of a project's likers.
type LikeSet map[string]struct{}

func NewLikeSet(ids []string) LikeSet {
	set := make(LikeSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (l LikeSet) Has(id string) bool {
	_, ok := l[id]
	return ok
}

func (l LikeSet) toggle(id string) {
	if l.Has(id) {
		delete(l, id)
	} else {
		l[id] = struct{}{}
	}
}

// ToggleLikeOptimistic flips the session user's entry in likes immediately,
// then syncs likes with the server's answer. On failure the flip is undone.
func (c *Client) ToggleLikeOptimistic(ctx context.Context, s *Session, p *Project, likes LikeSet) error {
	me := s.User.ID.String()
	return Optimistic{
		Apply: func() { likes.toggle(me) },
		Do: func(ctx context.Context) error {
			ids, err := c.ToggleLike(ctx, s, p.ID)
			if err != nil {
				return err
			}
			for k := range likes {
				delete(likes, k)
			}
			for _, id := range ids {
				likes[id.String()] = struct{}{}
			}
			p.Likes = ids
			return nil
		},
		Compensate: func() { likes.toggle(me) },
	}.Run(ctx)
}

package suggestion

import (
	"context"
	"errors"
)

// Tiered reads through a fast front store to a shared origin store and
// backfills the front on origin hits.
type Tiered struct {
	front  Store
	origin Store
}

func NewTiered(front, origin Store) *Tiered {
	return &Tiered{front: front, origin: origin}
}

func (t *Tiered) Get(ctx context.Context, key string) (Record, bool, error) {
	if rec, ok, err := t.front.Get(ctx, key); err == nil && ok {
		return rec, true, nil
	}
	rec, ok, err := t.origin.Get(ctx, key)
	if err != nil || !ok {
		return Record{}, false, err
	}
	_ = t.front.Put(ctx, key, rec)
	return rec, true, nil
}

func (t *Tiered) Put(ctx context.Context, key string, rec Record) error {
	if err := t.front.Put(ctx, key, rec); err != nil {
		return err
	}
	return t.origin.Put(ctx, key, rec)
}

func (t *Tiered) Close() error {
	return errors.Join(t.front.Close(), t.origin.Close())
}

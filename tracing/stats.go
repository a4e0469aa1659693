package tracing

import (
	"context"

	"github.com/ordishs/gocore"
)

type statKey struct{}

var rootStat = gocore.NewStat("utxoledger", true)

func childStat(ctx context.Context, name string, fallback *gocore.Stat) (context.Context, *gocore.Stat) {
	parent, ok := ctx.Value(statKey{}).(*gocore.Stat)
	if !ok {
		parent = fallback
	}

	stat := parent.NewStat(name)

	return context.WithValue(ctx, statKey{}, stat), stat
}

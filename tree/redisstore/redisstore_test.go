package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/redis.v5"

	"github.com/pbanos/dendro/feature"
	"github.com/pbanos/dendro/tree"
)

type visit struct {
	page   string
	bought string
}

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rc := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rc.Ping().Err())
	t.Cleanup(func() { rc.Close() })
	return rc
}

func TestStore(t *testing.T) {
	rc := redisClient(t)
	ctx := context.Background()
	page := feature.NewDiscrete("page", func(v visit) string { return v.page })
	bought := feature.NewDiscrete("bought", func(v visit) string { return v.bought })
	store := New(rc, "dendro-test-"+uuid.NewString(), []*feature.Feature[visit]{page}, bought)

	d := tree.NewDistribution()
	d.AddN("yes", 2)
	d.AddN("no", 1)
	root := tree.NewNode[visit](nil, d)
	yes := tree.NewDistribution()
	yes.AddN("yes", 2)
	no := tree.NewDistribution()
	no.AddN("no", 1)
	root.Split(page, []*tree.Node[visit]{
		tree.NewNode[visit](feature.DiscreteValue{Value: "pricing"}, yes),
		tree.NewNode[visit](feature.DiscreteValue{Value: "blog"}, no),
	})

	name, err := store.Save(ctx, "", root)
	require.NoError(t, err)
	require.NotEmpty(t, name)
	_, err = store.Save(ctx, "named", root)
	require.NoError(t, err)

	loaded, err := store.Load(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, tree.String(root), tree.String(loaded))
	label, err := tree.Classify(loaded, visit{page: "blog"})
	require.NoError(t, err)
	assert.Equal(t, "no", label)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{name, "named"}, names)

	require.NoError(t, store.Delete(ctx, name))
	require.NoError(t, store.Delete(ctx, "named"))
	_, err = store.Load(ctx, name)
	assert.ErrorIs(t, err, tree.ErrTreeNotFound)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/redis.v5"

	"github.com/pbanos/dendro/dataset"
	"github.com/pbanos/dendro/tree"
	treejson "github.com/pbanos/dendro/tree/json"
	"github.com/pbanos/dendro/tree/redisstore"
)

const redisKeyPrefix = "dendro:trees"

func addRedisFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis-addr", "", "address of a Redis server storing trees; when set trees are stored and loaded by name instead of as files")
	cmd.Flags().String("redis-prefix", redisKeyPrefix, "prefix of the keys under which trees are stored on Redis")
}

/*
treeStore returns the configured store of trees, a store on the Redis server
on the redis-addr flag, or nil if neither is available.
*/
func (rcc *rootCmdConfig) treeStore(md *dataset.Metadata) (tree.Store[dataset.Sample], error) {
	if rcc.trees != nil {
		return rcc.trees, nil
	}
	addr := rcc.v.GetString("redis-addr")
	if addr == "" {
		return nil, nil
	}
	label, err := md.LabelFeature()
	if err != nil {
		return nil, err
	}
	rcc.Logf("Connecting to Redis at %s...", addr)
	rc := redis.NewClient(&redis.Options{Addr: addr})
	if err = rc.Ping().Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("connecting to Redis at %s: %v", addr, err)
	}
	prefix := rcc.v.GetString("redis-prefix")
	if prefix == "" {
		prefix = redisKeyPrefix
	}
	return redisstore.New(rc, prefix, md.Predictors(), label), nil
}

/*
loadTree reads the tree on the tree flag: a stored tree name when a Redis
server is given and the path to a JSON file otherwise.
*/
func (rcc *rootCmdConfig) loadTree(ctx context.Context, md *dataset.Metadata) (*tree.Node[dataset.Sample], error) {
	ref, err := rcc.requireString("tree")
	if err != nil {
		return nil, err
	}
	store, err := rcc.treeStore(md)
	if err != nil {
		return nil, err
	}
	if store != nil {
		rcc.Logf("Loading tree %s from Redis...", ref)
		return store.Load(ctx, ref)
	}
	label, err := md.LabelFeature()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", ref, err)
	}
	defer f.Close()
	root, err := treejson.ReadJSONTree(ctx, md.Predictors(), label, f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %w", ref, err)
	}
	return root, err
}

/*
outputTree writes a grown tree as JSON onto the file on the output flag or
w if it is not set. When a Redis server is given the tree is stored instead
under the name on the tree-name flag, or a generated one, which is written
onto w.
*/
func (rcc *rootCmdConfig) outputTree(ctx context.Context, md *dataset.Metadata, root *tree.Node[dataset.Sample], w io.Writer) error {
	store, err := rcc.treeStore(md)
	if err != nil {
		return err
	}
	if store != nil {
		name, err := store.Save(ctx, rcc.v.GetString("tree-name"), root)
		if err != nil {
			return err
		}
		rcc.Logf("Tree stored on Redis as %s", name)
		_, err = fmt.Fprintln(w, name)
		return err
	}
	label, err := md.LabelFeature()
	if err != nil {
		return err
	}
	if path := rcc.v.GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return treejson.WriteJSONTree(ctx, root, label, w)
}

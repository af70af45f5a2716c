/*
Package redisstore implements a tree.Store that keeps JSON encoded trees in
Redis.
*/
package redisstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/redis.v5"

	"github.com/pbanos/dendro/feature"
	"github.com/pbanos/dendro/tree"
	treejson "github.com/pbanos/dendro/tree/json"
)

type redisStore[R any] struct {
	rc       *redis.Client
	prefix   string
	features []*feature.Feature[R]
	label    *feature.Feature[R]
}

/*
New builds a tree.Store backed by a redis DB. Trees are stored as JSON under
keys made of the given prefix and the tree name separated by a colon, and
decoded with the given features and label feature.
*/
func New[R any](rc *redis.Client, prefix string, features []*feature.Feature[R], label *feature.Feature[R]) tree.Store[R] {
	return &redisStore[R]{rc, prefix, features, label}
}

func (rs *redisStore[R]) Save(ctx context.Context, name string, root *tree.Node[R]) (string, error) {
	data, err := treejson.Marshal(ctx, root, rs.label)
	if err != nil {
		return "", fmt.Errorf("saving tree: encoding tree: %v", err)
	}
	if name != "" {
		_, err = rs.rc.Set(rs.keyFor(name), data, 0).Result()
		if err != nil {
			return "", fmt.Errorf("saving tree %q in redis: %v", name, err)
		}
		return name, nil
	}
	var ok bool
	for !ok {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		name = uuid.NewString()
		ok, err = rs.rc.SetNX(rs.keyFor(name), data, 0).Result()
		if err != nil {
			return "", fmt.Errorf("saving tree in redis: %v", err)
		}
	}
	return name, nil
}

func (rs *redisStore[R]) Load(ctx context.Context, name string) (*tree.Node[R], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rs.rc.Get(rs.keyFor(name)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("retrieving tree %q: %w", name, tree.ErrTreeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", name, err)
	}
	root, err := treejson.Unmarshal(ctx, data, rs.features, rs.label)
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding: %v", name, err)
	}
	return root, nil
}

func (rs *redisStore[R]) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := rs.rc.Del(rs.keyFor(name)).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", name, err)
	}
	return nil
}

func (rs *redisStore[R]) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := rs.rc.Keys(rs.keyFor("*")).Result()
	if err != nil {
		return nil, fmt.Errorf("listing trees in redis: %v", err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, rs.prefix+":"))
	}
	sort.Strings(names)
	return names, nil
}

func (rs *redisStore[R]) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}

package tree

import (
	"context"
	"sort"
	"strconv"
	"sync"
)

/*
Store is an interface to manage a store where grown trees can be saved,
retrieved, listed and deleted by name.

All its methods take a context that may allow cancelling the operation
(thus forcing the return of an error) if the implementation allows it.
*/
type Store[R any] interface {
	// Save takes a name and the root of a tree and stores the tree under
	// that name, replacing any tree previously stored with it. If the name
	// is empty the store generates one. It returns the name the tree was
	// stored with or an error if the tree cannot be stored.
	Save(ctx context.Context, name string, root *Node[R]) (string, error)
	// Load takes a name and returns the tree stored with it, an error
	// matching ErrTreeNotFound if there is none, or another error if the
	// store cannot be queried.
	Load(ctx context.Context, name string) (*Node[R], error)
	// Delete takes a name and removes the tree stored with it. Deleting a
	// name with no tree is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of the trees in the store in ascending order.
	List(ctx context.Context) ([]string, error)
}

// StoreError represents an error related with tree stores
type StoreError string

// ErrTreeNotFound is returned by stores when there is no tree with a given name
const ErrTreeNotFound = StoreError("tree not found")

func (se StoreError) Error() string {
	return string(se)
}

type memoryStore[R any] struct {
	trees  map[string]*Node[R]
	lock   *sync.RWMutex
	nextID uint64
}

// NewMemoryStore returns an implementation of Store with the process memory
// space as underlying backend
func NewMemoryStore[R any]() Store[R] {
	return &memoryStore[R]{
		trees: make(map[string]*Node[R]),
		lock:  &sync.RWMutex{},
	}
}

func (ms *memoryStore[R]) Save(ctx context.Context, name string, root *Node[R]) (string, error) {
	err := ms.withLock(ctx, func(ctx context.Context) error {
		taken := name == ""
		for taken {
			if err := ctx.Err(); err != nil {
				return err
			}
			ms.nextID++
			name = strconv.FormatUint(ms.nextID, 10)
			_, taken = ms.trees[name]
		}
		ms.trees[name] = root
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

func (ms *memoryStore[R]) Load(ctx context.Context, name string) (*Node[R], error) {
	var root *Node[R]
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		var ok bool
		root, ok = ms.trees[name]
		if !ok {
			return ErrTreeNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (ms *memoryStore[R]) Delete(ctx context.Context, name string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.trees, name)
		return nil
	})
}

func (ms *memoryStore[R]) List(ctx context.Context) ([]string, error) {
	var names []string
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		for name := range ms.trees {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (ms *memoryStore[R]) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.Lock()
		select {
		case <-ctx.Done():
			ms.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.Unlock()
	}
	return f(ctx)
}

func (ms *memoryStore[R]) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.RLock()
		select {
		case <-ctx.Done():
			ms.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.RUnlock()
	}
	return f(ctx)
}

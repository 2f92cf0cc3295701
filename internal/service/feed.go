package service

import (
	"context"
	"log"
	"sync"

	"study-planner/internal/model"
)

// SnapshotHandler receives the full task list of an owner.
type SnapshotHandler func(tasks []model.Task)

type snapshotLoader func(ctx context.Context, ownerID string) ([]model.Task, error)

// TaskFeed fans out live task snapshots per owner.
type TaskFeed struct {
	load snapshotLoader

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]SnapshotHandler
}

func newTaskFeed(load snapshotLoader) *TaskFeed {
	return &TaskFeed{
		load: load,
		subs: make(map[string]map[int]SnapshotHandler),
	}
}

// Subscribe delivers the current snapshot to handler, then a new one after
// every change to the owner's tasks until the returned cancel func is called.
func (f *TaskFeed) Subscribe(ctx context.Context, ownerID string, handler SnapshotHandler) (func(), error) {
	tasks, err := f.load(ctx, ownerID)
	if err != nil {
		return nil, storeErr("subscribe", err)
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	if f.subs[ownerID] == nil {
		f.subs[ownerID] = make(map[int]SnapshotHandler)
	}
	f.subs[ownerID][id] = handler
	f.mu.Unlock()

	handler(tasks)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs[ownerID], id)
			if len(f.subs[ownerID]) == 0 {
				delete(f.subs, ownerID)
			}
		})
	}, nil
}

// Publish reloads the owner's tasks and hands them to every subscriber.
func (f *TaskFeed) Publish(ctx context.Context, ownerID string) {
	handlers := f.handlers(ownerID)
	if len(handlers) == 0 {
		return
	}
	tasks, err := f.load(ctx, ownerID)
	if err != nil {
		log.Printf("publish snapshot owner=%s: %v", ownerID, err)
		return
	}
	for _, h := range handlers {
		snapshot := make([]model.Task, len(tasks))
		copy(snapshot, tasks)
		h(snapshot)
	}
}

// Subscribers reports how many live subscriptions the owner has.
func (f *TaskFeed) Subscribers(ownerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[ownerID])
}

func (f *TaskFeed) handlers(ownerID string) []SnapshotHandler {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SnapshotHandler, 0, len(f.subs[ownerID]))
	for _, h := range f.subs[ownerID] {
		out = append(out, h)
	}
	return out
}

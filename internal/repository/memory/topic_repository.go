// Package memory holds the in-process topic state store. Topic states are
// shared mutable values keyed by topic id, so every read-modify-write runs
// under a per-topic mutex: ingestion for one topic is serialized while
// other topics proceed in parallel.
package memory

import (
	"sort"
	"sync"

	"topic-memory-be/pkg/topic"
)

type TopicRepository struct {
	mu     sync.RWMutex
	topics map[string]*topic.State
	locks  map[string]*sync.Mutex
}

func NewTopicRepository() *TopicRepository {
	return &TopicRepository{
		topics: make(map[string]*topic.State),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Get returns a snapshot of the topic, safe to read while writers mutate
// the stored state. The second return is false for unknown topics.
func (r *TopicRepository) Get(topicID string) (*topic.State, bool) {
	lock := r.topicLock(topicID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	state, ok := r.topics[topicID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return state.Clone(), true
}

// Upsert stores the topic state as-is.
func (r *TopicRepository) Upsert(state *topic.State) *topic.State {
	r.mu.Lock()
	r.topics[state.TopicID] = state
	r.mu.Unlock()
	return state
}

// Locked runs fn with exclusive access to one topic's state. The state
// passed to fn is the stored value; mutations are visible once fn returns.
// fn receives nil when the topic does not exist and may return a new state
// to create it.
func (r *TopicRepository) Locked(topicID string, fn func(state *topic.State) (*topic.State, error)) error {
	lock := r.topicLock(topicID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	state := r.topics[topicID]
	r.mu.RUnlock()

	updated, err := fn(state)
	if err != nil {
		return err
	}
	if updated != nil {
		r.mu.Lock()
		r.topics[topicID] = updated
		r.mu.Unlock()
	}
	return nil
}

// List returns snapshots of all topics ordered by title. Each snapshot is
// taken under that topic's lock so in-flight writers never tear a clone.
func (r *TopicRepository) List() []*topic.State {
	r.mu.RLock()
	ids := make([]string, 0, len(r.topics))
	for id := range r.topics {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	states := make([]*topic.State, 0, len(ids))
	for _, id := range ids {
		if state, ok := r.Get(id); ok {
			states = append(states, state)
		}
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Title < states[j].Title })
	return states
}

// Clear drops every topic. Per-topic locks are kept so in-flight holders
// can still release safely.
func (r *TopicRepository) Clear() {
	r.mu.Lock()
	r.topics = make(map[string]*topic.State)
	r.mu.Unlock()
}

func (r *TopicRepository) topicLock(topicID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[topicID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[topicID] = lock
	}
	return lock
}

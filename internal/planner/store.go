package planner

import (
	"math/rand"
	"sync"
	"time"

	"fresh/internal/models"
)

// Listener receives a snapshot of the plan after every successful mutation.
// Listeners run while the store is locked and must not block or call back
// into the store.
type Listener func(plan *WeeklyMealPlan)

// Store holds the current weekly plan of one session. Craft, AddMeals,
// RemoveMeal and ClearAll are the only ways to change it; they apply one at
// a time in call order.
type Store struct {
	mu        sync.Mutex
	assigner  *Assigner
	plan      *WeeklyMealPlan
	listeners map[int]Listener
	nextID    int
	updatedAt time.Time
}

// NewStore creates a store with an empty week
func NewStore(assigner *Assigner) *Store {
	return &Store{
		assigner:  assigner,
		plan:      NewWeeklyMealPlan(),
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a copy of the current plan
func (s *Store) Snapshot() *WeeklyMealPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// Current returns a copy of the plan together with the time of the mutation
// that produced it
func (s *Store) Current() (*WeeklyMealPlan, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone(), s.updatedAt
}

// UpdatedAt is the time of the last successful mutation, zero if none
func (s *Store) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Craft replaces the plan with a freshly crafted week. On error the current
// plan is left as it was.
func (s *Store) Craft(matched []models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.assigner.AutoCraft(matched)
	if err != nil {
		return err
	}
	s.plan = plan
	s.changed()
	return nil
}

// AddMeals appends recipes to day
func (s *Store) AddMeals(day Day, recipes []models.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assigner.AddMeals(s.plan, day, recipes)
	s.changed()
}

// RemoveMeal removes the first meal on day with recipe's ID, if any
func (s *Store) RemoveMeal(day Day, recipe models.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assigner.RemoveMeal(s.plan, day, recipe)
	s.changed()
}

// ClearAll empties every day
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assigner.ClearAll(s.plan)
	s.changed()
}

// Subscribe registers l for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribe(l)
}

// subscribe must be called with s.mu held
func (s *Store) subscribe(l Listener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Watch delivers the current plan to l, then registers it like Subscribe.
// Both happen under the store lock, so l sees no mutation twice and none
// out of order.
func (s *Store) Watch(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l(s.plan.Clone())
	return s.subscribe(l)
}

// changed must be called with s.mu held
func (s *Store) changed() {
	s.updatedAt = time.Now()
	for _, l := range s.listeners {
		l(s.plan.Clone())
	}
}

// Sessions keeps one Store per user for the lifetime of the process
type Sessions struct {
	mu     sync.Mutex
	stores map[uint]*Store
	source func(userID uint) rand.Source
}

// NewSessions creates an empty registry. source supplies the random source
// of each new session's assigner; nil seeds from the clock.
func NewSessions(source func(userID uint) rand.Source) *Sessions {
	if source == nil {
		source = func(uint) rand.Source {
			return rand.NewSource(time.Now().UnixNano())
		}
	}
	return &Sessions{
		stores: make(map[uint]*Store),
		source: source,
	}
}

// Get returns the user's store, creating an empty one on first use
func (s *Sessions) Get(userID uint) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.stores[userID]
	if !ok {
		store = NewStore(NewAssigner(s.source(userID)))
		s.stores[userID] = store
	}
	return store
}

// Len is the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// Package userd implements a small in-memory users CRUD server. It is the
// reference collaborator the example test documents run against: any
// endpoint returning a status/headers/body triple works, this one just ships
// in the box.
package userd

import (
	"sort"
	"sync"
)

// User is the stored resource.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Store holds users in memory behind a mutex. IDs are assigned from a
// monotonic sequence.
type Store struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]User
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{users: make(map[int64]User)}
}

// Create assigns an ID and stores the user.
func (s *Store) Create(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	u.ID = s.seq
	s.users[u.ID] = u
	return u
}

// List returns all users ordered by ID.
func (s *Store) List() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the user with the given ID.
func (s *Store) Get(id int64) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// Update replaces the name and age of an existing user.
func (s *Store) Update(id int64, name string, age int) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, false
	}
	u.Name = name
	u.Age = age
	s.users[id] = u
	return u, true
}

// Delete removes the user with the given ID.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}

// Reset clears all state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
	s.users = make(map[int64]User)
}

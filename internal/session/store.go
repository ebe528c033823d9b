// Package session keeps the live desktops in memory. The least recently used
// session is dropped, and closed, once the store is full.
package session

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"retro_site_builder/internal/shell"
)

const DefaultSize = 256

var ErrSessionNotFound = errors.New("session not found")

type Store struct {
	cache    *lru.Cache[string, *shell.Session]
	viewport shell.Viewport
}

// NewStore keeps at most size sessions. viewport is used for sessions created
// without one.
func NewStore(size int, viewport shell.Viewport) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.NewWithEvict[string, *shell.Session](size, func(id string, s *shell.Session) {
		log.Printf("Closing session %s", id)
		s.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("init session cache: %w", err)
	}
	return &Store{cache: cache, viewport: viewport}, nil
}

// Create starts a session with a fresh id.
func (st *Store) Create(vp shell.Viewport) *shell.Session {
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = st.viewport
	}
	s := shell.NewSession(uuid.NewString(), vp)
	st.cache.Add(s.ID(), s)
	log.Printf("Created session %s (%d live)", s.ID(), st.cache.Len())
	return s
}

func (st *Store) Get(id string) (*shell.Session, error) {
	id = strings.TrimSpace(id)
	if s, ok := st.cache.Get(id); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

// Delete closes and forgets the session, reporting whether it existed.
func (st *Store) Delete(id string) bool {
	return st.cache.Remove(strings.TrimSpace(id))
}

func (st *Store) Len() int { return st.cache.Len() }

// Close drops every session.
func (st *Store) Close() {
	st.cache.Purge()
}

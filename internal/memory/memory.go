// Package memory implements the per-chat conversational transcript store.
//
// The store is a process-wide singleton shared by the classifier. It is
// capacity-bounded: when the chat count reaches the cap, the oldest-inserted
// 20% of chats are evicted in one pass. Eviction follows insertion order,
// not recency of use, and there is no idle timeout.
package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultMaxChats is the hard cap on tracked chat sessions.
const DefaultMaxChats = 1000

// maxTurns bounds each chat's transcript to its most recent turns.
const maxTurns = 50

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	SpeakerHuman Speaker = "Human"
	SpeakerAI    Speaker = "AI"
)

// Turn is one (speaker, text) entry in a transcript.
type Turn struct {
	Speaker Speaker
	Text    string
}

// Stats reports store occupancy for the admin surface.
type Stats struct {
	TotalChats int    `json:"totalChats"`
	MaxChats   int    `json:"maxChats"`
	Usage      string `json:"memoryUsage"`
}

// Store maps chat IDs to bounded transcripts.
type Store struct {
	mu       sync.Mutex
	chats    map[int64][]Turn
	order    []int64 // chat IDs in insertion order, drives eviction
	maxChats int
}

// NewStore creates a Store with the given chat capacity. A non-positive cap
// falls back to DefaultMaxChats.
func NewStore(maxChats int) *Store {
	if maxChats <= 0 {
		maxChats = DefaultMaxChats
	}
	return &Store{
		chats:    make(map[int64][]Turn),
		maxChats: maxChats,
	}
}

// Append records a human input and the AI response for a chat, creating the
// chat's transcript on first use. The transcript keeps only the most recent
// turns.
func (s *Store) Append(chatID int64, input, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[chatID]; !ok {
		if len(s.chats) >= s.maxChats {
			s.evictOldest()
		}
		s.order = append(s.order, chatID)
	}

	turns := append(s.chats[chatID],
		Turn{Speaker: SpeakerHuman, Text: input},
		Turn{Speaker: SpeakerAI, Text: response},
	)
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	s.chats[chatID] = turns
}

// evictOldest removes the oldest-inserted 20% of chats in one pass.
// Caller must hold s.mu.
func (s *Store) evictOldest() {
	n := s.maxChats / 5
	if n < 1 {
		n = 1
	}
	if n > len(s.order) {
		n = len(s.order)
	}
	for _, id := range s.order[:n] {
		delete(s.chats, id)
	}
	s.order = s.order[n:]
	logrus.Debugf("Evicted %d oldest chat transcripts", n)
}

// Context formats a chat's transcript into alternating "Human:"/"AI:" lines
// for use as model context. Unknown chats yield an empty string.
func (s *Store) Context(chatID int64) string {
	var b strings.Builder
	for _, t := range s.Turns(chatID) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(t.Speaker))
		b.WriteString(": ")
		b.WriteString(t.Text)
	}
	return b.String()
}

// Turns returns a copy of a chat's transcript in order.
func (s *Store) Turns(chatID int64) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.chats[chatID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Clear removes one chat's transcript and reports whether it existed.
func (s *Store) Clear(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chats[chatID]; !ok {
		return false
	}
	delete(s.chats, chatID)
	for i, id := range s.order {
		if id == chatID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of tracked chats.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chats)
}

// Stats reports current occupancy.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TotalChats: len(s.chats),
		MaxChats:   s.maxChats,
		Usage:      fmt.Sprintf("%.1f%%", float64(len(s.chats))/float64(s.maxChats)*100),
	}
}

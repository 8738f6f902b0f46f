package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/pgeary/marquee/internal/domain"
)

var bucketPlaylists = []byte("playlists")

// PlaylistStore implements domain.PlaylistStore using BoltDB. An empty data
// directory selects memory-only mode, which tests and ephemeral sessions use:
// playlists live until Close and nothing touches the disk.
type PlaylistStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory copies

	// In-memory copies for hot-path reads (promoted on access)
	memory map[string][]byte
}

// NewPlaylistStore opens the playlist database under dataDir, creating the
// directory and bucket as needed.
func NewPlaylistStore(dataDir string) (*PlaylistStore, error) {
	if dataDir == "" {
		// Memory-only mode (no persistence)
		return &PlaylistStore{memory: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "marquee.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPlaylists)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PlaylistStore{db: db, memory: make(map[string][]byte)}, nil
}

func (s *PlaylistStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetPlaylists returns every stored playlist, ordered by title then id.
func (s *PlaylistStore) GetPlaylists(ctx context.Context) ([]*domain.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []*domain.Playlist
	if s.db != nil {
		err := s.db.View(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketPlaylists).ForEach(func(_, v []byte) error {
				var p domain.Playlist
				if err := json.Unmarshal(v, &p); err != nil {
					return err
				}
				out = append(out, &p)
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
	} else {
		s.mu.RLock()
		for _, data := range s.memory {
			var p domain.Playlist
			if err := json.Unmarshal(data, &p); err != nil {
				s.mu.RUnlock()
				return nil, err
			}
			out = append(out, &p)
		}
		s.mu.RUnlock()
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetPlaylist loads one playlist by id.
func (s *PlaylistStore) GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p domain.Playlist
	if !s.get(id, &p) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlaylistNotFound, id)
	}
	return &p, nil
}

// SavePlaylist writes a playlist, assigning an id if it has none.
func (s *PlaylistStore) SavePlaylist(ctx context.Context, p *domain.Playlist) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return s.put(p.ID, p)
}

// SaveOrder writes through a reordered playlist. The caller's in-memory
// order is already live; this persists it. A playlist that was never saved
// is saved whole.
func (s *PlaylistStore) SaveOrder(ctx context.Context, p *domain.Playlist) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.ID == "" {
		return fmt.Errorf("%w: playlist has no id", domain.ErrPlaylistNotFound)
	}

	var stored domain.Playlist
	if s.get(p.ID, &stored) {
		// Keep stored metadata, replace only the entry order.
		stored.Games = append([]domain.PlaylistGame(nil), p.Games...)
		return s.put(stored.ID, &stored)
	}
	return s.put(p.ID, p)
}

// DeletePlaylist removes a playlist. Deleting an absent playlist is not an
// error.
func (s *PlaylistStore) DeletePlaylist(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.memory, id)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPlaylists).Delete([]byte(id))
	})
}

// === Generic helpers ===

func (s *PlaylistStore) get(id string, dest *domain.Playlist) bool {
	// Check memory first
	s.mu.RLock()
	if data, ok := s.memory[id]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketPlaylists).Get([]byte(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return false
	}

	// Promote to memory for subsequent reads
	s.mu.Lock()
	s.memory[id] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *PlaylistStore) put(id string, p *domain.Playlist) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal playlist: %w", err)
	}

	s.mu.Lock()
	s.memory[id] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPlaylists).Put([]byte(id), data)
	})
}

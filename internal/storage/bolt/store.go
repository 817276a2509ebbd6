package bolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"

	"github.com/fpessolano/fantasyfootball/internal/domain/league"
	"github.com/fpessolano/fantasyfootball/internal/domain/schedule"
)

var (
	bucketSaves     = []byte("saves")
	bucketSchedules = []byte("schedules")
)

// Store keeps saved games and the schedule cache in a single bolt file.
// Saves live in the "saves" bucket keyed by save name; cached schedules in
// per-team-count sub-buckets of "schedules" keyed by a big-endian index.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the save file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		return nil, fmt.Errorf("open save file: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveNames lists every stored save name in key order.
func (s *Store) SaveNames(_ context.Context) ([]string, error) {
	names := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSaves)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return names, nil
}

// ReadSave returns the save stored under name, or nil when absent.
func (s *Store) ReadSave(_ context.Context, name string) (*league.SavedGame, error) {
	var sg *league.SavedGame
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSaves)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(name))
		if data == nil {
			return nil
		}
		sg = &league.SavedGame{}
		return json.Unmarshal(data, sg)
	})
	if err != nil {
		return nil, fmt.Errorf("read save %q: %w", name, err)
	}
	return sg, nil
}

// WriteSave stores sg under name, replacing any previous save.
func (s *Store) WriteSave(_ context.Context, name string, sg *league.SavedGame) error {
	if name == "" || sg == nil {
		return fmt.Errorf("write save: empty name or snapshot")
	}
	data, err := json.Marshal(sg)
	if err != nil {
		return fmt.Errorf("encode save %q: %w", name, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSaves)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("write save %q: %w", name, err)
	}
	return nil
}

// DeleteSave removes a save; deleting an absent name is not an error.
func (s *Store) DeleteSave(_ context.Context, name string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSaves)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("delete save %q: %w", name, err)
	}
	return nil
}

// Schedules returns every cached opponent matrix for the given padded
// participant count, in insertion order.
func (s *Store) Schedules(_ context.Context, teamCount int) ([][][]int, error) {
	matrices := make([][][]int, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketSchedules)
		if root == nil {
			return nil
		}
		b := root.Bucket(intToBytes(int32(teamCount)))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var m [][]int
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			matrices = append(matrices, m)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list schedules for %d teams: %w", teamCount, err)
	}
	return matrices, nil
}

// AppendSchedule caches a matrix under its participant count unless an
// identical one is already stored.
func (s *Store) AppendSchedule(ctx context.Context, teamCount int, matrix [][]int) error {
	existing, err := s.Schedules(ctx, teamCount)
	if err != nil {
		return err
	}
	for _, m := range existing {
		if schedule.Equal(m, matrix) {
			return nil
		}
	}

	data, err := json.Marshal(matrix)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketSchedules)
		if err != nil {
			return err
		}
		b, err := root.CreateBucketIfNotExists(intToBytes(int32(teamCount)))
		if err != nil {
			return err
		}
		return b.Put(intToBytes(int32(len(existing))), data)
	})
	if err != nil {
		return fmt.Errorf("append schedule for %d teams: %w", teamCount, err)
	}
	return nil
}

func intToBytes(i int32) []byte {
	b := new(bytes.Buffer)
	if err := binary.Write(b, binary.BigEndian, i); err != nil {
		panic(fmt.Errorf("convert int to bytes: %v", err))
	}
	return b.Bytes()
}

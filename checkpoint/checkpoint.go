// Package checkpoint persists the state of long permutation
// calibration runs in a bolt database, so an interrupted run can be
// resumed without recomputing finished permutations.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// MAIN is the bucket name for all calibration checkpoints.
var MAIN = []byte("main")

// Data stores the state of a calibration run. Alpha, B and Seed
// identify the run: a checkpoint from different settings is ignored.
type Data struct {
	Alpha   float64
	B       int
	Seed    int64
	Lambdas map[int]float64
	Final   bool
}

// Matches reports whether the checkpoint belongs to a run with the
// given settings.
func (d *Data) Matches(alpha float64, b int, seed int64) bool {
	return d.Alpha == alpha && d.B == b && d.Seed == seed
}

// IO provides various operations with checkpoints.
type IO struct {
	db      *bolt.DB
	key     []byte
	last    time.Time
	seconds float64
}

// NewIO creates a new IO saving at most every seconds seconds under
// the given key.
func NewIO(db *bolt.DB, key []byte, seconds float64) (s *IO) {
	s = &IO{
		db:      db,
		key:     key,
		seconds: seconds,
	}
	return
}

// Key derives a checkpoint key from run settings.
func Key(alpha float64, b int, seed int64) []byte {
	return []byte(fmt.Sprintf("calibration-%g-%d-%d", alpha, b, seed))
}

// Save saves a checkpoint to the database.
func (s *IO) Save(data *Data) error {
	// Even if saving fails, we do not want to run this code too often.
	s.SetNow()
	dataB, err := json.Marshal(data)
	if err != nil {
		log.Error("Error serializing checkpoint", err)
		return err
	}
	err = SaveData(s.db, s.key, dataB)
	if err != nil {
		log.Error("Error saving checkpoint", err)
	}
	return err
}

// Load returns the saved run state, or nil if there is none.
func (s *IO) Load() (*Data, error) {
	var data *Data

	b, err := LoadData(s.db, s.key)

	if err != nil || b == nil {
		return nil, err
	}

	err = json.Unmarshal(b, &data)

	if err != nil {
		return nil, err
	}

	if data == nil || len(data.Lambdas) == 0 {
		return nil, nil
	}

	if data.Final {
		log.Noticef("Found finished calibration checkpoint (%d/%d permutations)", len(data.Lambdas), data.B)
	} else {
		log.Noticef("Found unfinished calibration checkpoint (%d/%d permutations)", len(data.Lambdas), data.B)
	}

	return data, nil
}

// Old returns true if last checkpoint save time too long ago.
func (s *IO) Old() bool {
	return time.Since(s.last).Seconds() > s.seconds
}

// SetNow sets last checkpoint time to now.
func (s *IO) SetNow() {
	s.last = time.Now()
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	err := db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(MAIN)
		if err != nil {
			return err
		}

		err = b.Put(key, data)
		return err
	})
	return err
}

// LoadData loads data from bolt database.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}

		v := b.Get(key)
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

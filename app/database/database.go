package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Givikap120/danser-pp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-pp/app/rulesets/osu/performance/api"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// AttributeCache stores difficulty attributes keyed by map checksum, difficulty mods, clock rate and calculator version
type AttributeCache struct {
	db *sql.DB
}

type Key struct {
	Checksum  string
	Mods      difficulty.Modifier
	ClockRate float64
	Version   int
}

// NewKey masks out mods that don't change difficulty so equivalent plays share a row
func NewKey(checksum string, diff *difficulty.Difficulty, version int) Key {
	return Key{
		Checksum:  checksum,
		Mods:      difficulty.GetDiffMaskedMods(diff.Mods),
		ClockRate: diff.Speed,
		Version:   version,
	}
}

func Open(path string) (*AttributeCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attribute cache: %w", err)
	}

	initStatement := `
	create table if not exists attributes
	  (
		  checksum text not null,
		  mods integer not null,
		  clock_rate real not null,
		  version integer not null,
		  data text not null,
		  primary key (checksum, mods, clock_rate, version)
	  );
	`

	if _, err = db.Exec(initStatement); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create attribute table: %w", err)
	}

	log.Debug().Str("path", path).Msg("Attribute cache opened")

	return &AttributeCache{db: db}, nil
}

func (c *AttributeCache) Close() error {
	return c.db.Close()
}

// Get returns cached attributes and whether they were found
func (c *AttributeCache) Get(key Key) (api.Attributes, bool, error) {
	var data []byte

	err := c.db.QueryRow("select data from attributes where checksum = ? and mods = ? and clock_rate = ? and version = ?",
		key.Checksum, int64(key.Mods), key.ClockRate, key.Version).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return api.Attributes{}, false, nil
	}

	if err != nil {
		return api.Attributes{}, false, fmt.Errorf("failed to load attributes: %w", err)
	}

	var attr api.Attributes
	if err = json.Unmarshal(data, &attr); err != nil {
		return api.Attributes{}, false, fmt.Errorf("failed to decode cached attributes: %w", err)
	}

	return attr, true, nil
}

func (c *AttributeCache) Put(key Key, attr api.Attributes) error {
	data, err := json.Marshal(attr)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}

	_, err = c.db.Exec("insert or replace into attributes(checksum, mods, clock_rate, version, data) values(?, ?, ?, ?, ?)",
		key.Checksum, int64(key.Mods), key.ClockRate, key.Version, string(data))
	if err != nil {
		return fmt.Errorf("failed to save attributes: %w", err)
	}

	return nil
}

// Prune removes rows written by other calculator versions and returns how many were dropped
func (c *AttributeCache) Prune(version int) (int64, error) {
	res, err := c.db.Exec("delete from attributes where version != ?", version)
	if err != nil {
		return 0, fmt.Errorf("failed to prune attributes: %w", err)
	}

	return res.RowsAffected()
}

// GetOrCalculate returns cached attributes or runs calculate and stores its result
func (c *AttributeCache) GetOrCalculate(key Key, calculate func() api.Attributes) (api.Attributes, error) {
	attr, found, err := c.Get(key)
	if err != nil {
		return api.Attributes{}, err
	}

	if found {
		log.Debug().Str("checksum", key.Checksum).Stringer("mods", key.Mods).Msg("Attribute cache hit")
		return attr, nil
	}

	attr = calculate()

	if err = c.Put(key, attr); err != nil {
		return attr, err
	}

	return attr, nil
}

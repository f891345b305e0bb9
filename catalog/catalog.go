// Dataset catalog backed by Postgres.

package catalog

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/nci/gomemcache/memcache"

	"github.com/saltyoffshore/oceantiler/utils"
)

// Entry describes one raster asset registered for a dataset.
type Entry struct {
	Dataset   string    `json:"dataset"`
	Path      string    `json:"path"`
	Band      int       `json:"band"`
	NoData    float64   `json:"nodata"`
	MinZoom   int       `json:"min_zoom"`
	MaxZoom   int       `json:"max_zoom"`
	Timestamp time.Time `json:"timestamp"`
}

// Catalog resolves dataset names and tile coordinates to asset paths.
// Lookups are fronted by memcached when an address is configured.
type Catalog struct {
	db *sql.DB
	mc *memcache.Client
}

func New(dsn string, mcAddress string, pool, limit int) (*Catalog, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("Error opening catalog database: %v", err)
	}

	db.SetMaxIdleConns(pool)
	db.SetMaxOpenConns(limit)

	c := &Catalog{db: db}
	if mcAddress != "" {
		// lazy connection; errors returned in .Get
		c.mc = memcache.New(mcAddress)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Lookup returns the assets of a dataset that intersect a tile, most
// recent first. Postgres prepared statements and placeholders do the
// input checks.
func (c *Catalog) Lookup(dataset string, z, x, y int) ([]*Entry, error) {
	if err := utils.CheckTileCoords(z, x, y); err != nil {
		return nil, err
	}

	var hash string
	if c.mc != nil {
		buff := md5.Sum([]byte(fmt.Sprintf("%s/%d/%d/%d", dataset, z, x, y)))
		hash = hex.EncodeToString(buff[:])

		if cached, ok := c.mc.Get(hash); ok == nil {
			var entries []*Entry
			if err := json.Unmarshal(cached.Value, &entries); err == nil {
				return entries, nil
			}
		}
	}

	bounds := utils.TileBounds(z, x, y)
	rows, err := c.db.Query(
		`select dataset, path, band, nodata, min_zoom, max_zoom, timestamp
		from assets
		where dataset = $1
		and $2 between min_zoom and max_zoom
		and geom && ST_MakeEnvelope($3, $4, $5, $6, 4326)
		order by timestamp desc`,
		dataset, z, bounds[0], bounds[1], bounds[2], bounds[3],
	)
	if err != nil {
		return nil, fmt.Errorf("Error querying catalog: %v", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		err := rows.Scan(&entry.Dataset, &entry.Path, &entry.Band, &entry.NoData,
			&entry.MinZoom, &entry.MaxZoom, &entry.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("Error scanning catalog row: %v", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no assets found for dataset %q at %d/%d/%d", dataset, z, x, y)
	}

	if c.mc != nil {
		if payload, err := json.Marshal(entries); err == nil {
			// don't care about errors; memcache may not necessarily retain this anyway
			c.mc.Set(&memcache.Item{Key: hash, Value: payload})
		}
	}

	return entries, nil
}

// Register inserts or refreshes an asset entry.
func (c *Catalog) Register(entry *Entry, minLon, minLat, maxLon, maxLat float64) error {
	_, err := c.db.Exec(
		`insert into assets (dataset, path, band, nodata, min_zoom, max_zoom, timestamp, geom)
		values ($1, $2, $3, $4, $5, $6, $7,
			ST_MakeEnvelope($8, $9, $10, $11, 4326))
		on conflict (dataset, path, band) do update
		set nodata = excluded.nodata,
			min_zoom = excluded.min_zoom,
			max_zoom = excluded.max_zoom,
			timestamp = excluded.timestamp,
			geom = excluded.geom`,
		entry.Dataset, entry.Path, entry.Band, entry.NoData,
		entry.MinZoom, entry.MaxZoom, entry.Timestamp,
		minLon, minLat, maxLon, maxLat,
	)
	if err != nil {
		return fmt.Errorf("Error registering asset: %v", err)
	}
	return nil
}

// Datasets lists the distinct dataset names known to the catalog.
func (c *Catalog) Datasets() ([]string, error) {
	rows, err := c.db.Query(`select distinct dataset from assets order by dataset`)
	if err != nil {
		return nil, fmt.Errorf("Error querying catalog: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

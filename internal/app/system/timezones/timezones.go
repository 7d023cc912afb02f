// Package timezones serves the curated IANA zone list behind the
// property form's time-zone picker. The list is embedded, loaded
// lazily, and cached for the life of the process.
package timezones

import (
	"embed"
	"encoding/json"
	"sort"
	"sync"
)

//go:embed timezonedata/timezones.json
var FS embed.FS

type Zone struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Region string `json:"region,omitempty"`
}

// ZoneGroup is one region's worth of zones, as rendered in the picker's
// optgroup sections.
type ZoneGroup struct {
	Region string
	Zones  []Zone
}

var (
	loadOnce sync.Once
	zones    []Zone
	byID     map[string]Zone
	loadErr  error

	groupsOnce sync.Once
	groups     []ZoneGroup
	groupsErr  error
)

func load() {
	loadOnce.Do(func() {
		data, err := FS.ReadFile("timezonedata/timezones.json")
		if err != nil {
			loadErr = err
			return
		}

		var list []Zone
		if err := json.Unmarshal(data, &list); err != nil {
			loadErr = err
			return
		}

		zones = list
		byID = make(map[string]Zone, len(list))
		for _, z := range list {
			byID[z.ID] = z
		}
	})
}

// Load forces the embedded list to parse. Call it at startup to fail
// fast instead of on the first property form render.
func Load() error {
	load()
	return loadErr
}

// All returns the curated zones in file order.
func All() ([]Zone, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return zones, nil
}

// Label returns the display label for a zone ID, or the ID itself when
// it is not in the curated list.
func Label(id string) string {
	load()
	if loadErr != nil {
		return id
	}
	if z, ok := byID[id]; ok && z.Label != "" {
		return z.Label
	}
	return id
}

// Valid reports whether id is in the curated list. The property form
// rejects anything else.
func Valid(id string) bool {
	load()
	if loadErr != nil {
		return false
	}
	_, ok := byID[id]
	return ok
}

func buildGroups() {
	groupsOnce.Do(func() {
		if err := Load(); err != nil {
			groupsErr = err
			return
		}

		byRegion := make(map[string][]Zone)
		for _, z := range zones {
			region := z.Region
			if region == "" {
				region = "Other"
			}
			byRegion[region] = append(byRegion[region], z)
		}

		out := make([]ZoneGroup, 0, len(byRegion))
		for region, zs := range byRegion {
			sort.SliceStable(zs, func(i, j int) bool {
				return zs[i].Label < zs[j].Label
			})
			out = append(out, ZoneGroup{
				Region: region,
				Zones:  zs,
			})
		}

		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Region < out[j].Region
		})

		groups = out
	})
}

// Groups returns the zones grouped by region, sorted by region and by
// label within each region. Built once and cached.
func Groups() ([]ZoneGroup, error) {
	buildGroups()
	if groupsErr != nil {
		return nil, groupsErr
	}
	return groups, nil
}

package dedupe

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"winnow/internal/fileutil"
)

// Stream describes one encoded media stream attached to a record.
type Stream struct {
	Height  int
	Bitrate int
}

// Record is an immutable snapshot of one library item considered for cleanup.
type Record struct {
	ID          string
	Title       string
	ProviderIDs map[string]string
	Path        string
	Streams     []Stream
}

// Group is the resolution result for one provider id value: the record to
// keep plus the lower-ranked duplicates, in descending quality order.
type Group struct {
	Key     string
	Keep    Ranked
	Discard []Ranked
}

// Ranked pairs a record with the composite quality key it was sorted on.
type Ranked struct {
	Record     Record
	MaxHeight  int
	MaxBitrate int
	FileSize   int64
}

// Size returns the total number of records in the group.
func (g Group) Size() int {
	return 1 + len(g.Discard)
}

// Resolver partitions records by a provider id and ranks each partition.
type Resolver struct {
	groupKey string
	sizer    func(path string) int64
}

// NewResolver builds a resolver for the given provider key. A nil sizer falls
// back to probing the filesystem; probe failures rank as zero bytes.
func NewResolver(groupKey string, sizer func(path string) int64) *Resolver {
	if sizer == nil {
		sizer = fileutil.FileSize
	}
	return &Resolver{
		groupKey: CanonicalProviderKey(groupKey),
		sizer:    sizer,
	}
}

// Resolve groups records sharing the resolver's provider id value and ranks
// each group descending by (max height, max bitrate, file size). Input order
// is the final tiebreak, and grouping never reorders same-key records before
// ranking. Records lacking the provider id are skipped. Groups are returned
// in order of first appearance; singleton groups have an empty Discard.
func (r *Resolver) Resolve(records []Record) []Group {
	partitions := make(map[string][]Ranked)
	var order []string

	for _, record := range records {
		id, ok := providerID(record.ProviderIDs, r.groupKey)
		if !ok {
			continue
		}
		if _, seen := partitions[id]; !seen {
			order = append(order, id)
		}
		partitions[id] = append(partitions[id], r.rank(record))
	}

	groups := make([]Group, 0, len(order))
	for _, id := range order {
		members := partitions[id]
		sort.SliceStable(members, func(i, j int) bool {
			return qualityLess(members[j], members[i])
		})
		groups = append(groups, Group{
			Key:     id,
			Keep:    members[0],
			Discard: members[1:],
		})
	}
	return groups
}

func (r *Resolver) rank(record Record) Ranked {
	ranked := Ranked{Record: record, FileSize: r.sizer(record.Path)}
	for _, stream := range record.Streams {
		if stream.Height > ranked.MaxHeight {
			ranked.MaxHeight = stream.Height
		}
		if stream.Bitrate > ranked.MaxBitrate {
			ranked.MaxBitrate = stream.Bitrate
		}
	}
	return ranked
}

// qualityLess reports whether a ranks strictly below b on the composite key.
func qualityLess(a, b Ranked) bool {
	if a.MaxHeight != b.MaxHeight {
		return a.MaxHeight < b.MaxHeight
	}
	if a.MaxBitrate != b.MaxBitrate {
		return a.MaxBitrate < b.MaxBitrate
	}
	return a.FileSize < b.FileSize
}

// providerID looks up the canonical key in a provider id map, tolerating the
// inconsistent key casing media servers emit ("Imdb", "imdb", "IMDB").
func providerID(ids map[string]string, canonicalKey string) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}
	if value, ok := ids[canonicalKey]; ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), true
	}
	for key, value := range ids {
		if CanonicalProviderKey(key) == canonicalKey && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

// CanonicalProviderKey normalizes a provider key to the title casing media
// servers use ("imdb", "IMDB" -> "Imdb"). Grouping and report text both go
// through it so the key reads the same everywhere.
func CanonicalProviderKey(key string) string {
	return cases.Title(language.Und).String(strings.ToLower(strings.TrimSpace(key)))
}

// Package library adapts media server items into the neutral records the
// duplicate resolver consumes. The resolver never sees concrete server types.
package library

import (
	"strings"

	"winnow/internal/dedupe"
	"winnow/internal/services/jellyfin"
)

// RecordsFromItems converts Jellyfin movie items into dedupe records.
// Items without a filesystem path are skipped: winnow can only act on files
// it can reach. Quality streams are taken from the items' video streams;
// items with missing or malformed stream metadata yield zero-valued metrics
// rather than an error.
func RecordsFromItems(items []jellyfin.Item) []dedupe.Record {
	records := make([]dedupe.Record, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Path) == "" {
			continue
		}
		records = append(records, dedupe.Record{
			ID:          item.ID,
			Title:       item.Name,
			ProviderIDs: item.ProviderIDs,
			Path:        item.Path,
			Streams:     videoStreams(item),
		})
	}
	return records
}

func videoStreams(item jellyfin.Item) []dedupe.Stream {
	var streams []dedupe.Stream
	for _, source := range item.MediaSources {
		for _, stream := range source.MediaStreams {
			if !strings.EqualFold(stream.Type, "Video") {
				continue
			}
			streams = append(streams, dedupe.Stream{
				Height:  stream.Height,
				Bitrate: stream.BitRate,
			})
		}
	}
	return streams
}

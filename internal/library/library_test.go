package library_test

import (
	"testing"

	"winnow/internal/library"
	"winnow/internal/services/jellyfin"
)

func TestRecordsFromItemsMapsVideoStreams(t *testing.T) {
	items := []jellyfin.Item{
		{
			ID:          "i1",
			Name:        "Example",
			Path:        "/media/example.mkv",
			ProviderIDs: map[string]string{"Imdb": "tt1"},
			MediaSources: []jellyfin.MediaSource{
				{
					MediaStreams: []jellyfin.MediaStream{
						{Type: "Video", Height: 1080, BitRate: 8_000_000},
						{Type: "Audio", BitRate: 640_000},
						{Type: "video", Height: 480, BitRate: 1_000_000},
					},
				},
			},
		},
	}

	records := library.RecordsFromItems(items)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record.ID != "i1" || record.Path != "/media/example.mkv" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if len(record.Streams) != 2 {
		t.Fatalf("expected audio stream dropped, got %+v", record.Streams)
	}
	if record.Streams[0].Height != 1080 || record.Streams[1].Height != 480 {
		t.Fatalf("unexpected stream heights: %+v", record.Streams)
	}
}

func TestRecordsFromItemsSkipsPathlessItems(t *testing.T) {
	items := []jellyfin.Item{
		{ID: "virtual", Path: "  "},
		{ID: "real", Path: "/media/real.mkv"},
	}
	records := library.RecordsFromItems(items)
	if len(records) != 1 || records[0].ID != "real" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestRecordsFromItemsTolerateMissingMetadata(t *testing.T) {
	items := []jellyfin.Item{{ID: "bare", Path: "/media/bare.mkv"}}
	records := library.RecordsFromItems(items)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if len(records[0].Streams) != 0 {
		t.Fatalf("expected no streams, got %+v", records[0].Streams)
	}
	if records[0].ProviderIDs != nil {
		t.Fatalf("expected nil provider ids, got %+v", records[0].ProviderIDs)
	}
}

package ftdc

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func mustMarshal(t *testing.T, v any) bson.Raw {
	t.Helper()
	b, err := bson.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bson.Raw(b)
}

func TestDocumentKind(t *testing.T) {
	doc := mustMarshal(t, bson.D{{Key: "type", Value: int32(1)}})
	kind, err := documentKind(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindMetricsChunk {
		t.Fatalf("got %v, want KindMetricsChunk", kind)
	}
}

func TestDocumentKindUnknown(t *testing.T) {
	doc := mustMarshal(t, bson.D{{Key: "type", Value: int32(9)}})
	_, err := documentKind(doc)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestDocumentTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := mustMarshal(t, bson.D{{Key: "_id", Value: want}})
	ts, err := documentTimestamp(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.Equal(want) {
		t.Fatalf("got %v, want %v", ts, want)
	}
}

func TestDocumentHostnameFlatLayout(t *testing.T) {
	doc := mustMarshal(t, bson.D{
		{Key: "doc", Value: bson.D{
			{Key: "hostInfo", Value: bson.D{
				{Key: "system", Value: bson.D{
					{Key: "hostname", Value: "h1"},
				}},
			}},
		}},
	})
	host, err := documentHostname(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host != "h1" {
		t.Fatalf("got %q, want h1", host)
	}
}

func TestDocumentHostnameCommonLayout(t *testing.T) {
	doc := mustMarshal(t, bson.D{
		{Key: "doc", Value: bson.D{
			{Key: "common", Value: bson.D{
				{Key: "hostInfo", Value: bson.D{
					{Key: "system", Value: bson.D{
						{Key: "hostname", Value: "h2"},
					}},
				}},
			}},
		}},
	})
	host, err := documentHostname(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host != "h2" {
		t.Fatalf("got %q, want h2", host)
	}
}

func TestMetadataFromReferenceDocumentFallback(t *testing.T) {
	doc := mustMarshal(t, bson.D{
		{Key: "serverStatus", Value: bson.D{
			{Key: "host", Value: "h1"},
			{Key: "process", Value: "mongod"},
			{Key: "version", Value: "7.0.0"},
		}},
	})
	md, err := metadataFromReferenceDocument(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md != (Metadata{Host: "h1", Process: "mongod", Version: "7.0.0"}) {
		t.Fatalf("got %+v", md)
	}
}

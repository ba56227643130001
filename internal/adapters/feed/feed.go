// Package feed loads user records, rating events, the tag vocabulary,
// and quest venues from JSON files. It is the boundary between the
// engine and whatever produced the data; the engine itself never reads
// files.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/duetlab/duet/internal/domain/model"
	"github.com/duetlab/duet/internal/domain/quest"
)

// userDocument mirrors the on-disk per-user JSON shape.
type userDocument struct {
	UserID      string   `json:"user_id"`
	Gender      string   `json:"gender"`
	YearOfBirth int      `json:"year_of_birth"`
	Interests   []string `json:"interests"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Ratings     []struct {
		TargetUserID string `json:"target_user_id"`
		Score        int    `json:"score"`
		Timestamp    int64  `json:"timestamp"`
	} `json:"ratings"`
}

// venueDocument mirrors one entry of the venues JSON array.
type venueDocument struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LoadVocabulary reads a JSON array of tag names.
func LoadVocabulary(_ context.Context, path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFeed, err)
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFeed, path, err)
	}
	return tags, nil
}

// LoadUsers reads every *.json document in dir and returns the records
// plus all embedded rating events. Event order follows directory
// listing order; replay order is decided later by timestamp.
func LoadUsers(_ context.Context, dir string) ([]model.UserRecord, []model.InteractionEvent, error) {
	names, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrReadFeed, err)
	}

	var records []model.UserRecord
	var events []model.InteractionEvent
	for _, entry := range names {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrReadFeed, err)
		}

		var doc userDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformedFeed, path, err)
		}
		if doc.UserID == "" {
			return nil, nil, fmt.Errorf("%w: %s: missing user_id", ErrMalformedFeed, path)
		}

		records = append(records, model.UserRecord{
			ID:        doc.UserID,
			Group:     model.Group(doc.Gender),
			BirthYear: doc.YearOfBirth,
			Interests: doc.Interests,
			Latitude:  doc.Latitude,
			Longitude: doc.Longitude,
		})
		for _, r := range doc.Ratings {
			events = append(events, model.InteractionEvent{
				SourceID:  doc.UserID,
				TargetID:  r.TargetUserID,
				Score:     r.Score,
				Timestamp: r.Timestamp,
			})
		}
	}
	return records, events, nil
}

// LoadVenues reads a JSON array of quest venues. An empty path is a
// valid no-venues setup.
func LoadVenues(_ context.Context, path string) ([]quest.Venue, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFeed, err)
	}
	var docs []venueDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFeed, path, err)
	}

	venues := make([]quest.Venue, len(docs))
	for i, d := range docs {
		venues[i] = quest.Venue{
			Name:     d.Name,
			Location: quest.Point{Latitude: d.Latitude, Longitude: d.Longitude},
		}
	}
	return venues, nil
}

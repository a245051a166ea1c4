// Package store is the metadata record of projects: a plain key-value style
// collection read by the API, the scheduler and the crawl worker.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"elasti/models"
)

// ErrNotFound signals a missing project id. Lookups never leak driver errors
// for a plain miss.
var ErrNotFound = errors.New("project not found")

type ProjectStore struct {
	col *mongo.Collection
}

func NewProjectStore(db *mongo.Database) *ProjectStore {
	return &ProjectStore{col: db.Collection("projects")}
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &project, nil
}

func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// ListDueForCrawl returns projects with a recurrence schedule whose next
// crawl time has passed.
func (s *ProjectStore) ListDueForCrawl(ctx context.Context, now time.Time) ([]models.Project, error) {
	filter := bson.M{
		"crawl_schedule": bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
		"next_crawl_at":  bson.M{"$lte": now},
	}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list due projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode due projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectStore) Create(ctx context.Context, project *models.Project) error {
	if _, err := s.col.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Update applies a partial update and returns the updated record, or
// ErrNotFound for a missing id.
func (s *ProjectStore) Update(ctx context.Context, id string, update models.ProjectUpdate) (*models.Project, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.URL != nil {
		set["url"] = *update.URL
	}
	if update.CrossReferenceIDs != nil {
		set["cross_reference_ids"] = *update.CrossReferenceIDs
	}
	if update.CrawlSchedule != nil {
		set["crawl_schedule"] = *update.CrawlSchedule
		if *update.CrawlSchedule == "" {
			set["next_crawl_at"] = nil
		} else {
			// Schedule starts counting from now
			set["next_crawl_at"] = time.Now()
		}
	}

	if len(set) > 0 {
		res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return nil, fmt.Errorf("failed to update project: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
	}

	return s.Get(ctx, id)
}

// SetNextCrawlAt is the scheduler's write path.
func (s *ProjectStore) SetNextCrawlAt(ctx context.Context, id string, next time.Time) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"next_crawl_at": next}})
	if err != nil {
		return fmt.Errorf("failed to set next crawl time: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLastCrawledAt is the worker's write path after a successful crawl.
func (s *ProjectStore) SetLastCrawledAt(ctx context.Context, id string, at time.Time) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_crawled_at": at}})
	if err != nil {
		return fmt.Errorf("failed to set last crawled time: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package models

import "time"

// Crawl schedule values accepted on a project. An empty schedule means the
// project is never crawled automatically.
const (
	ScheduleDaily   = "daily"
	ScheduleWeekly  = "weekly"
	ScheduleMonthly = "monthly"
)

// Project is the metadata record for one indexed website.
type Project struct {
	ID                string     `bson:"_id" json:"id"`
	Name              string     `bson:"name" json:"name"`
	URL               string     `bson:"url" json:"url"`
	CrossReferenceIDs []string   `bson:"cross_reference_ids" json:"crossReferenceIds"`
	CrawlSchedule     string     `bson:"crawl_schedule,omitempty" json:"crawlSchedule,omitempty"`
	NextCrawlAt       *time.Time `bson:"next_crawl_at,omitempty" json:"nextCrawlAt,omitempty"`
	LastCrawledAt     *time.Time `bson:"last_crawled_at,omitempty" json:"lastCrawledAt,omitempty"`
	CreatedAt         time.Time  `bson:"created_at" json:"createdAt"`
}

// ProjectUpdate carries the mutable fields of a PATCH request. Pointer fields
// distinguish "not provided" from "set to empty".
type ProjectUpdate struct {
	Name              *string   `json:"name,omitempty"`
	URL               *string   `json:"url,omitempty"`
	CrossReferenceIDs *[]string `json:"crossReferenceIds,omitempty"`
	CrawlSchedule     *string   `json:"crawlSchedule,omitempty"`
}

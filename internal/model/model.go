package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoStatus tracks where a video is in the processing pipeline.
type VideoStatus string

const (
	StatusPending         VideoStatus = "pending"
	StatusTranscribing    VideoStatus = "transcribing"
	StatusSummarizing     VideoStatus = "summarizing"
	StatusGeneratingImage VideoStatus = "generating_image"
	StatusDone            VideoStatus = "done"
	StatusError           VideoStatus = "error"
)

// SessionType classifies a council meeting. Anything outside these three
// values is stored as NULL.
const (
	SessionRegular       = "regular"
	SessionExtraordinary = "extraordinary"
	SessionCommittee     = "committee"
)

// ValidSessionType reports whether s is one of the three allowed values.
func ValidSessionType(s string) bool {
	switch s {
	case SessionRegular, SessionExtraordinary, SessionCommittee:
		return true
	}
	return false
}

// Video is a discovered council recording. One row per YouTube video;
// youtube_video_id is unique so re-discovery never duplicates.
type Video struct {
	ID             string      `gorm:"primaryKey;size:36" json:"id"`
	YoutubeVideoID string      `gorm:"size:32;uniqueIndex;not null" json:"youtube_video_id"`
	Title          string      `gorm:"size:500" json:"title"`
	ChannelID      string      `gorm:"size:64" json:"channel_id"`
	PublishedAt    time.Time   `json:"published_at"`
	Status         VideoStatus `gorm:"size:32;not null;default:pending" json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Article is the generated content for a video, one-to-one via the unique
// video_id. All content fields are nullable: each pipeline stage fills in
// what it can and later stages tolerate the gaps.
type Article struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	VideoID        string     `gorm:"size:36;uniqueIndex;not null" json:"video_id"`
	Video          *Video     `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	Title          *string    `gorm:"size:500" json:"title"`
	Transcript     *string    `gorm:"type:text" json:"transcript"`
	Summary        *string    `gorm:"type:text" json:"summary"`
	SessionType    *string    `gorm:"size:20" json:"session_type"`
	Tags           Tags       `gorm:"type:text" json:"tags"`
	InfographicURL *string    `gorm:"size:500" json:"infographic_url"`
	ThumbnailURL   *string    `gorm:"size:500" json:"thumbnail_url"`
	ProcessedAt    *time.Time `json:"processed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// CouncilMember is the read-only roster feeding the summarization glossary.
type CouncilMember struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Kana  string `gorm:"size:100" json:"kana"`
	Party string `gorm:"size:100" json:"party"`
}

func (CouncilMember) TableName() string { return "council_members" }

// Tags is a set of topic tag ids serialized as a JSON text column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("tags: unsupported column type %T", value)
	}
	if len(raw) == 0 {
		*t = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(t))
}

// Tag is an entry of the fixed topic vocabulary.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// AvailableTags is the controlled 9-item topic vocabulary. Summaries may
// only carry tag ids from this list.
var AvailableTags = []Tag{
	{ID: "kosodate", Label: "Childcare & Education", Icon: "👶"},
	{ID: "hojokin", Label: "Subsidies & Benefits", Icon: "💰"},
	{ID: "yosan", Label: "Budget & Finance", Icon: "📊"},
	{ID: "suidou", Label: "Water & Infrastructure", Icon: "🚰"},
	{ID: "iryo", Label: "Healthcare & Welfare", Icon: "🏥"},
	{ID: "senkyo", Label: "Elections", Icon: "🗳️"},
	{ID: "bosai", Label: "Disaster Prevention & Safety", Icon: "🛡️"},
	{ID: "kankyo", Label: "Environment", Icon: "🌳"},
	{ID: "kanko", Label: "Tourism & Commerce", Icon: "🏖️"},
}

// ValidTag reports whether id belongs to the controlled vocabulary.
func ValidTag(id string) bool {
	for _, t := range AvailableTags {
		if t.ID == id {
			return true
		}
	}
	return false
}

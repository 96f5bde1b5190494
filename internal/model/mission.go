package model

import (
	"fmt"
	"time"
)

// MissionSort selects the listing order
type MissionSort string

const (
	SortDistance MissionSort = "distance"
	SortPopular  MissionSort = "popular"
	SortRecent   MissionSort = "recent"
)

// ParseMissionSort returns the sort for s, or SortDistance when s is not a known sort.
func ParseMissionSort(s string) MissionSort {
	switch MissionSort(s) {
	case SortPopular, SortRecent, SortDistance:
		return MissionSort(s)
	}
	return SortDistance
}

// MissionQuery is a filtered, sorted, 1-indexed page request against the catalog
type MissionQuery struct {
	// Categories matches any of the given stored category values; empty means no filter.
	Categories []string
	Sort       MissionSort
	Page       int
	PageSize   int
}

// Offset returns the number of rows skipped before the requested page
func (q MissionQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// VerificationMethodType is how a mission completion is proven
type VerificationMethodType string

const (
	VerificationPhoto   VerificationMethodType = "photo"
	VerificationReceipt VerificationMethodType = "receipt"
	VerificationQR      VerificationMethodType = "qr"
	VerificationGPS     VerificationMethodType = "gps"
)

// IsValid reports whether t is one of the four supported method tags
func (t VerificationMethodType) IsValid() bool {
	switch t {
	case VerificationPhoto, VerificationReceipt, VerificationQR, VerificationGPS:
		return true
	}
	return false
}

// VerificationMethod is a human-readable instruction plus its method tag
type VerificationMethod struct {
	Type        VerificationMethodType `json:"type" yaml:"type" validate:"required,oneof=photo receipt qr gps"`
	Description string                 `json:"description" yaml:"description" validate:"required"`
}

// Coordinates is a WGS84 point
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

// Mission is a catalog row. ID and Category are stored as ingested: the ID in
// internal form (M001) and the category in public canonical form (food).
type Mission struct {
	ID                  string               `json:"id" yaml:"id" validate:"required"`
	Title               string               `json:"title" yaml:"title" validate:"required"`
	ImageURL            string               `json:"image_url" yaml:"image_url"`
	Location            string               `json:"location" yaml:"location"`
	LocationDetail      string               `json:"location_detail" yaml:"location_detail"`
	DistanceMeters      float64              `json:"distance" yaml:"distance" validate:"gte=0"`
	CoinReward          int                  `json:"coin_reward" yaml:"coin_reward" validate:"gte=0"`
	Category            string               `json:"category" yaml:"category" validate:"required"`
	EndDate             string               `json:"end_date" yaml:"end_date" validate:"omitempty,datetime=2006.01.02"`
	Insight             string               `json:"insight" yaml:"insight"`
	VerificationMethods []VerificationMethod `json:"verification_methods" yaml:"verification_methods" validate:"dive"`
	Coordinates         *Coordinates         `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	IsLiked             bool                 `json:"is_liked" yaml:"is_liked"`
	CreatedOn           time.Time            `json:"created_on" yaml:"-"`
	UpdatedOn           time.Time            `json:"updated_on" yaml:"-"`
}

// FormatDistance renders meters as kilometres with one decimal place ("1.5km")
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1fkm", meters/1000)
}

// ParticipationStatus is the state of a user's attempt at a mission
type ParticipationStatus string

const (
	ParticipationInProgress ParticipationStatus = "in_progress"
	ParticipationCompleted  ParticipationStatus = "completed"
	ParticipationFailed     ParticipationStatus = "failed"
)

// Like is the per-user like state for a mission. A missing row means not liked.
type Like struct {
	MissionID string    `json:"mission_id"`
	UserID    string    `json:"user_id"`
	IsLiked   bool      `json:"is_liked"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Participation records a user starting a mission
type Participation struct {
	ID             string              `json:"id"`
	MissionID      string              `json:"mission_id"`
	UserID         string              `json:"user_id"`
	Status         ParticipationStatus `json:"status"`
	ParticipatedAt time.Time           `json:"participated_at"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
}

// MissionView is the public representation shared by every mission response.
// It never carries internal ids or internal category tags.
type MissionView struct {
	ID                  string               `json:"id"`
	Title               string               `json:"title"`
	ImageURL            string               `json:"imageUrl"`
	Location            string               `json:"location"`
	LocationDetail      string               `json:"locationDetail"`
	Distance            string               `json:"distance"`
	CoinReward          int                  `json:"coinReward"`
	Category            string               `json:"category"`
	EndDate             string               `json:"endDate"`
	Insight             string               `json:"insight"`
	VerificationMethods []VerificationMethod `json:"verificationMethods"`
	Coordinates         *Coordinates         `json:"coordinates,omitempty"`
	IsLiked             bool                 `json:"isLiked"`
}

// MissionListItem is a mission in a listing or detail response
type MissionListItem struct {
	MissionView
	ParticipationStatus *ParticipationStatus `json:"participationStatus"`
	CompletedAt         *time.Time           `json:"completedAt"`
}

// RecommendedMission is a mission in a recommendation response
type RecommendedMission struct {
	MissionView
	ModelProba     *float64 `json:"modelProba,omitempty"`
	FinalScore     *float64 `json:"finalScore,omitempty"`
	DistanceMeters *float64 `json:"distanceMeters,omitempty"`
}

// Pagination describes a 1-indexed page of results
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
}

// NewPagination computes page totals; totalPages is ceil(total/size)
func NewPagination(page, size, total int) Pagination {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		TotalCount:  total,
		HasNext:     page < pages,
	}
}

// MissionListResponse is a page of missions
type MissionListResponse struct {
	Missions   []MissionListItem `json:"missions"`
	Pagination Pagination        `json:"pagination"`
}

// LikeResult is returned after toggling a like
type LikeResult struct {
	IsLiked   bool `json:"isLiked"`
	LikeCount int  `json:"likeCount"`
}

// ParticipationResult is returned after starting a mission
type ParticipationResult struct {
	ParticipationID string              `json:"participationId"`
	Status          ParticipationStatus `json:"status"`
	StartedAt       time.Time           `json:"startedAt"`
}

// CompletionResult is returned after completing a mission
type CompletionResult struct {
	MissionID   string              `json:"missionId"`
	UserID      string              `json:"userId"`
	Status      ParticipationStatus `json:"status"`
	Reward      int                 `json:"reward"`
	CoinBalance int                 `json:"coinBalance"`
}

// CompleteMissionRequest is the body of a completion call
type CompleteMissionRequest struct {
	Success *bool `json:"success" validate:"required"`
}

package models

import "time"

type Artist struct {
	ID      int    `gorm:"primaryKey" json:"id"`
	NameEng string `gorm:"not null;index" json:"name_eng"`
	NameHeb string `gorm:"index" json:"name_heb"`
	IsBand  bool   `json:"is_band"`

	// Map area the artist belongs to. Geometry is the client's concern,
	// the backend only carries the area key.
	Area     string `gorm:"index" json:"area"`
	Location string `json:"location"`

	Image     string `json:"image"`
	SpotifyID string `json:"spotify_id"`
	Summary   string `json:"summary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateArtistRequest struct {
	NameEng   string `json:"name_eng"`
	NameHeb   string `json:"name_heb"`
	IsBand    bool   `json:"is_band"`
	Area      string `json:"area"`
	Location  string `json:"location"`
	Image     string `json:"image"`
	SpotifyID string `json:"spotify_id"`
	Summary   string `json:"summary"`
}

package stash

import "slices"

// Kind identifies a media record type in the catalog.
type Kind string

// Media kinds.
const (
	KindScene   Kind = "scene"
	KindImage   Kind = "image"
	KindGallery Kind = "gallery"
)

// UpdateMode mirrors the catalog's BulkUpdateIdMode enum.
type UpdateMode string

// Bulk update modes. ModeAdd unions the given ids into the existing set;
// ModeSet replaces the set entirely.
const (
	ModeAdd UpdateMode = "ADD"
	ModeSet UpdateMode = "SET"
)

// Performer is a catalog performer as returned by findPerformers.
type Performer struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	AliasList []string `json:"alias_list"`
}

// PerformerRef is the id-only performer projection attached to media.
type PerformerRef struct {
	ID string `json:"id"`
}

// Media is a scene or image together with its currently linked performers.
type Media struct {
	ID         string         `json:"id"`
	Performers []PerformerRef `json:"performers"`
}

// HasPerformer reports whether performerID is already linked.
func (m *Media) HasPerformer(performerID string) bool {
	return hasPerformer(m.Performers, performerID)
}

// Gallery is a catalog gallery. Folder is nil for zip or virtual galleries.
type Gallery struct {
	ID         string         `json:"id"`
	Folder     *GalleryFolder `json:"folder"`
	Performers []PerformerRef `json:"performers"`
}

// HasPerformer reports whether performerID is already linked.
func (g *Gallery) HasPerformer(performerID string) bool {
	return hasPerformer(g.Performers, performerID)
}

func hasPerformer(refs []PerformerRef, performerID string) bool {
	return slices.ContainsFunc(refs, func(p PerformerRef) bool {
		return p.ID == performerID
	})
}

// GalleryFolder is the folder backing a gallery.
type GalleryFolder struct {
	Path string `json:"path"`
}

// FolderPath returns the backing folder path, or "" if none.
func (g *Gallery) FolderPath() string {
	if g.Folder == nil {
		return ""
	}

	return g.Folder.Path
}

// ScrapedPerformer is a performer record scraped from a stash-box endpoint.
// Optional fields are pointers because the scraper reports them as null.
type ScrapedPerformer struct {
	StoredID       *string  `json:"stored_id"`
	Name           string   `json:"name"`
	Disambiguation *string  `json:"disambiguation"`
	Gender         *string  `json:"gender"`
	URLs           []string `json:"urls"`
	Birthdate      *string  `json:"birthdate"`
	DeathDate      *string  `json:"death_date"`
	Ethnicity      *string  `json:"ethnicity"`
	Country        *string  `json:"country"`
	EyeColor       *string  `json:"eye_color"`
	HairColor      *string  `json:"hair_color"`
	Height         *string  `json:"height"`
	Weight         *string  `json:"weight"`
	Measurements   *string  `json:"measurements"`
	FakeTits       *string  `json:"fake_tits"`
	PenisLength    *string  `json:"penis_length"`
	Circumcised    *string  `json:"circumcised"`
	CareerLength   *string  `json:"career_length"`
	Tattoos        *string  `json:"tattoos"`
	Piercings      *string  `json:"piercings"`
	Aliases        *string  `json:"aliases"`
	Images         []string `json:"images"`
	Details        *string  `json:"details"`
	RemoteSiteID   *string  `json:"remote_site_id"`
}

// StashID cross-references a local record with a stash-box record.
type StashID struct {
	Endpoint string `json:"endpoint"`
	StashID  string `json:"stash_id"`
}

// PerformerCreateInput is the payload for performerCreate.
type PerformerCreateInput struct {
	Name           string    `json:"name"`
	Disambiguation string    `json:"disambiguation"`
	AliasList      []string  `json:"alias_list"`
	Gender         *string   `json:"gender"`
	Birthdate      string    `json:"birthdate"`
	DeathDate      string    `json:"death_date"`
	Country        string    `json:"country"`
	Ethnicity      string    `json:"ethnicity"`
	HairColor      string    `json:"hair_color"`
	EyeColor       string    `json:"eye_color"`
	HeightCM       int       `json:"height_cm"`
	Weight         *int      `json:"weight"`
	Measurements   string    `json:"measurements"`
	FakeTits       string    `json:"fake_tits"`
	PenisLength    *float64  `json:"penis_length"`
	Circumcised    *string   `json:"circumcised"`
	Tattoos        string    `json:"tattoos"`
	Piercings      string    `json:"piercings"`
	CareerLength   string    `json:"career_length"`
	URLs           []string  `json:"urls"`
	Details        string    `json:"details"`
	TagIDs         []string  `json:"tag_ids"`
	IgnoreAutoTag  bool      `json:"ignore_auto_tag"`
	StashIDs       []StashID `json:"stash_ids"`
	Image          *string   `json:"image"`
}

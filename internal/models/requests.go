package models

// LoginRequest is forwarded to the CMS auth endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ReorderRequest struct {
	DraggedID string `json:"dragged_id" binding:"required"`
	TargetID  string `json:"target_id" binding:"required"`
}

// DragRequest drives the list view drag gesture one event at a time.
type DragRequest struct {
	Event     string `json:"event" binding:"required,oneof=start over drop end"`
	SectionID string `json:"section_id"`
}

type ChangeTypeRequest struct {
	Type string `json:"type" binding:"required,section_type"`
}

type UpdateTitleRequest struct {
	Title string `json:"title" binding:"max=200"`
}

// UpdateFieldRequest sets one content field. Value is kept raw so the
// content codec decides how to read it.
type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

type TouchRequest struct {
	Phase string  `json:"phase" binding:"required,oneof=start move end"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type UpdateSlideRequest struct {
	Field string `json:"field" binding:"required,oneof=imageUrl caption subtitle url"`
	Value string `json:"value"`
}

type AddImageRequest struct {
	ImageURL string `json:"imageUrl" binding:"required,media_url"`
	Caption  string `json:"caption" binding:"max=200"`
}

// MediaUpdate carries the editable media metadata.
type MediaUpdate struct {
	Title string `json:"title" binding:"required,max=200"`
	Text  string `json:"text"`
}

type RestoreDraftRequest struct {
	PageID string `json:"page_id"`
}

// SEORequest carries the page meta fields to check against length limits.
type SEORequest struct {
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

package model

import "time"

// Recipe is the structured output of the recipe-extraction pipeline variant.
// Unlike audio jobs, the recipe record is created by the submitting
// application; the worker fills it in and flips its status.
type Recipe struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	PrepTimeMinutes *int      `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes *int      `json:"cook_time_minutes,omitempty"`
	Servings        *int      `json:"servings,omitempty"`
	Cuisine         string    `json:"cuisine,omitempty"`
	DietaryTags     []string  `json:"dietary_tags,omitempty"`
	ThumbnailRef    string    `json:"thumbnail_ref,omitempty"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RecipeIngredient preserves both the raw transcript phrasing and the
// normalized item/quantity/unit split.
type RecipeIngredient struct {
	RecipeID   string   `json:"recipe_id"`
	RawText    string   `json:"raw_text"`
	Item       string   `json:"item"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	OrderIndex int      `json:"order_index"`
}

// RecipeInstruction is one numbered step.
type RecipeInstruction struct {
	RecipeID   string `json:"recipe_id"`
	StepNumber int    `json:"step_number"`
	Text       string `json:"text"`
}

// Recipe record statuses.
const (
	RecipeStatusPending    = "pending"
	RecipeStatusProcessing = "processing"
	RecipeStatusCompleted  = "completed"
	RecipeStatusFailed     = "failed"
)

package dto

import "github.com/noah-isme/aie-portal-api/internal/models"

// GlobalSearchResults is the grouped result of a cross-entity search.
type GlobalSearchResults struct {
	Courses     []models.Course     `json:"courses"`
	Assignments []models.Assignment `json:"assignments"`
	Resources   []models.Resource   `json:"resources"`
}

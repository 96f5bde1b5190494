package model

// Category is a selectable mission grouping shown to clients
type Category struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	Name     string `json:"name" yaml:"name" validate:"required"`
	IsActive bool   `json:"isActive" yaml:"is_active"`
}

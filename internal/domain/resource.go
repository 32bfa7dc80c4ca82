package domain

import "time"

// TextResource is a named text blob (template or site list) stored in Postgres.
type TextResource struct {
	Name      string
	Body      string
	UpdatedAt time.Time
}

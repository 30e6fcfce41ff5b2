package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type ConditionFunc func(*Condition) *Condition

type Condition struct {
	AlertID   string
	SensorID  string
	AlertType string

	Active        *bool
	CreatedAfter  time.Time
	CreatedBefore time.Time

	sortBy    string
	sortOrder string

	offset *int
	limit  *int
}

func WithAlertID(id string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.AlertID = id
		return c
	}
}

func WithSensorID(id string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.SensorID = id
		return c
	}
}

func WithAlertType(t string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.AlertType = t
		return c
	}
}

func WithActive(active bool) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Active = &active
		return c
	}
}

func WithCreatedAfter(t time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		c.CreatedAfter = t
		return c
	}
}

func WithCreatedBefore(t time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		c.CreatedBefore = t
		return c
	}
}

func WithSortBy(column, order string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.sortBy = column
		c.sortOrder = order
		return c
	}
}

func WithOffset(offset int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.offset = &offset
		return c
	}
}

func WithLimit(limit int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.limit = &limit
		return c
	}
}

func (c Condition) NamedArgs() pgx.NamedArgs {
	args := pgx.NamedArgs{}

	if c.AlertID != "" {
		args["alert_id"] = c.AlertID
	}
	if c.SensorID != "" {
		args["sensor_id"] = c.SensorID
	}
	if c.AlertType != "" {
		args["alert_type"] = c.AlertType
	}
	if c.Active != nil {
		args["is_active"] = *c.Active
	}
	if !c.CreatedAfter.IsZero() {
		args["created_after"] = c.CreatedAfter.UTC()
	}
	if !c.CreatedBefore.IsZero() {
		args["created_before"] = c.CreatedBefore.UTC()
	}

	return args
}

func (c Condition) Where() string {
	where := []string{}

	if c.AlertID != "" {
		where = append(where, "alert_id = @alert_id")
	}
	if c.SensorID != "" {
		where = append(where, "sensor_id = @sensor_id")
	}
	if c.AlertType != "" {
		where = append(where, "alert_type = @alert_type")
	}
	if c.Active != nil {
		where = append(where, "is_active = @is_active")
	}
	if !c.CreatedAfter.IsZero() {
		where = append(where, "created_at > @created_after")
	}
	if !c.CreatedBefore.IsZero() {
		where = append(where, "created_at < @created_before")
	}

	if len(where) == 0 {
		return "TRUE"
	}

	return strings.Join(where, " AND ")
}

func (c Condition) SortBy() string {
	if c.sortBy == "" {
		return "created_at"
	}
	return c.sortBy
}

func (c Condition) SortOrder() string {
	if c.sortOrder == "" {
		return "DESC"
	}
	return c.sortOrder
}

func (c Condition) Offset() int {
	if c.offset == nil {
		return 0
	}
	return *c.offset
}

func (c Condition) Limit() int {
	if c.limit == nil {
		return 100
	}
	return *c.limit
}

func (c Condition) OffsetLimit() string {
	offsetLimit := ""
	if c.offset != nil {
		offsetLimit += fmt.Sprintf("OFFSET %d ", c.Offset())
	}
	if c.limit != nil {
		offsetLimit += fmt.Sprintf("LIMIT %d ", c.Limit())
	}
	return offsetLimit
}

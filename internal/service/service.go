package service

import (
	"context"
	"net/http"
	"time"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/htmlgen"
	"github.com/yockii/parish_tools/pkg/liturgy"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ScriptService interface {
	Create(ctx context.Context, record *model.Script) error
	Update(ctx context.Context, record *model.Script) error
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*model.Script, error)
	List(ctx context.Context, condition *model.Script, offset, limit int) ([]*model.Script, int64, error)
	// Reorder sets order = index for the event type's scripts. orderedIDs
	// must name every script of the event type exactly once.
	Reorder(ctx context.Context, eventTypeID uint64, orderedIDs []uint64) error
	GetScriptWithSections(ctx context.Context, id uint64) (*model.Script, error)
	Lint(ctx context.Context, id uint64) ([]liturgy.LintIssue, error)
}

type SectionService interface {
	Create(ctx context.Context, record *model.Section) error
	Update(ctx context.Context, record *model.Section) error
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*model.Section, error)
	ListByScript(ctx context.Context, scriptID uint64) ([]*model.Section, error)
	Reorder(ctx context.Context, scriptID uint64, orderedIDs []uint64) error
}

type FieldDefinitionService interface {
	Create(ctx context.Context, record *model.FieldDefinition) error
	Update(ctx context.Context, record *model.FieldDefinition) error
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*model.FieldDefinition, error)
	List(ctx context.Context, condition *model.FieldDefinition, offset, limit int) ([]*model.FieldDefinition, int64, error)
	GetFieldDefinitions(ctx context.Context, eventTypeID uint64) ([]*model.FieldDefinition, error)
}

type LogService interface {
	CreateOperationLog(ctx context.Context, callerID string, action int, targetID uint64, ip, userAgent string, failed bool) error
	ListLogs(ctx context.Context, callerID string, actions []int, offset, limit int) ([]*model.Log, int64, error)
	DeleteOldLogs(ctx context.Context, days int) error
}

// EntityFetcher loads an event with its resolved field snapshot. A missing
// event is reported as (nil, nil).
type EntityFetcher interface {
	GetEntityWithRelations(ctx context.Context, id uint64) (*EntitySnapshot, error)
}

type FieldDefinitionFetcher interface {
	GetFieldDefinitions(ctx context.Context, eventTypeID uint64) ([]*model.FieldDefinition, error)
}

// ScriptFetcher loads a script with its sections. A missing script is
// reported as (nil, nil).
type ScriptFetcher interface {
	GetScriptWithSections(ctx context.Context, id uint64) (*model.Script, error)
}

type ExportService interface {
	Export(ctx context.Context, req *ExportRequest) (*ExportResult, error)
	View(ctx context.Context, req *ExportRequest) (*htmlgen.View, error)
	Preview(ctx context.Context, req *ExportRequest, autoPrint bool) ([]byte, error)
}

type RosterService interface {
	Export(ctx context.Context, entityID uint64) (*ExportResult, error)
}

// RateLimiter admits requests per (operation class, caller) key.
type RateLimiter interface {
	Allow(ctx context.Context, class, caller string) (bool, error)
}

// EntitySnapshot is an event with every field value already resolved.
type EntitySnapshot struct {
	ID             uint64                 `json:"id,string"`
	EventTypeID    uint64                 `json:"eventTypeId,string"`
	EventTypeName  string                 `json:"eventTypeName"`
	SystemType     string                 `json:"systemType"`
	Name           string                 `json:"name"`
	ResolvedFields liturgy.ResolvedFields `json:"resolvedFields"`
	CalendarEvents []*OccurrenceSnapshot  `json:"calendarEvents"`
	Parish         *liturgy.ParishValue   `json:"parish,omitempty"`
}

// OccurrenceSnapshot holds the per-occurrence fields of one calendar event.
type OccurrenceSnapshot struct {
	ID             uint64                 `json:"id,string"`
	StartAt        time.Time              `json:"startAt"`
	AllDay         bool                   `json:"allDay"`
	IsPrimary      bool                   `json:"isPrimary"`
	ResolvedFields liturgy.ResolvedFields `json:"resolvedFields"`
}

// Occurrence returns the calendar event with the given id, or the primary
// one when id is 0. Without a flagged primary the earliest occurrence is used.
func (e *EntitySnapshot) Occurrence(id uint64) *OccurrenceSnapshot {
	var first *OccurrenceSnapshot
	for _, o := range e.CalendarEvents {
		if id != 0 {
			if o.ID == id {
				return o
			}
			continue
		}
		if o.IsPrimary {
			return o
		}
		if first == nil || o.StartAt.Before(first.StartAt) {
			first = o
		}
	}
	return first
}

// /////////////////////////////
// Response is the envelope of every JSON answer
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func OK(data interface{}) *Response {
	return NewResponse(data, nil)
}

func Error(err error) *Response {
	return NewResponse(nil, err)
}

// NewResponse builds the envelope. Errors are reduced to their public
// sentinel so internal detail never reaches the client.
func NewResponse(data interface{}, err error) *Response {
	if err == nil {
		return &Response{
			Code:    http.StatusOK,
			Message: "success",
			Data:    data,
		}
	}

	return &Response{
		Code:    constant.GetErrorCode(err),
		Message: constant.PublicError(err).Error(),
		Data:    data,
	}
}

type ListResponse struct {
	Total  int64       `json:"total"`
	Items  interface{} `json:"items"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

func NewListResponse(items interface{}, total int64, offset, limit int) *ListResponse {
	return &ListResponse{
		Total:  total,
		Items:  items,
		Offset: offset,
		Limit:  limit,
	}
}

package model

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/yockii/parish_tools/pkg/config"
	"github.com/yockii/parish_tools/pkg/logger"
	"github.com/yockii/parish_tools/pkg/util"
)

type Model interface {
	TableComment() string
	GetID() uint64
}

type BaseModel struct {
	ID        uint64    `json:"id,string" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt,omitzero" gorm:"type:timestamp;not null"`
}

func (b *BaseModel) TableComment() string {
	return "base model"
}

func (b *BaseModel) GetID() uint64 {
	return b.ID
}

// IDString is the id as the engine and the API see it.
func (b *BaseModel) IDString() string {
	return FormatID(b.ID)
}

// BeforeCreate assigns a snowflake id when none was set.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == 0 {
		b.ID = util.NewID()
	}
	return nil
}

// FormatID renders an id the way raw field values store references.
func FormatID(id uint64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(id, 10)
}

// ParseID is the inverse of FormatID. Invalid input yields 0.
func ParseID(s string) uint64 {
	id, _ := strconv.ParseUint(s, 10, 64)
	return id
}

var models []Model

// Models lists every registered table.
func Models() []any {
	list := make([]any, 0, len(models))
	for _, m := range models {
		list = append(list, m)
	}
	return list
}

// AutoMigrate creates or updates every registered table.
func AutoMigrate(db *gorm.DB) error {
	switch dt := config.GetString("database.type"); dt {
	case "mysql":
		migrator := db.Migrator()
		for _, m := range models {
			if !migrator.HasTable(m) {
				if err := db.Set("gorm:table_options", fmt.Sprintf("ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COMMENT='%s';", m.TableComment())).AutoMigrate(m); err != nil {
					logger.Error("auto migrate failed", logger.F("table", m.TableComment()), logger.F("error", err))
					return err
				}
			} else if err := migrator.AutoMigrate(m); err != nil {
				return err
			}
		}
	case "postgres":
		if err := db.AutoMigrate(Models()...); err != nil {
			logger.Error("auto migrate failed", logger.F("error", err))
			return err
		}
		for _, m := range models {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err != nil {
				logger.Error("parse model failed", logger.F("error", err))
				continue
			}
			if err := db.Exec(fmt.Sprintf("COMMENT ON TABLE %s IS '%s';", stmt.Table, m.TableComment())).Error; err != nil {
				logger.Error("add table comment failed", logger.F("error", err))
			}
		}
	case "sqlite":
		if err := db.AutoMigrate(Models()...); err != nil {
			logger.Error("auto migrate failed", logger.F("error", err))
			return err
		}
	default:
		logger.Error("unsupported database type", logger.F("type", dt))
		return fmt.Errorf("unsupported database type: %s", dt)
	}
	return nil
}

// InitData seeds the parish record and the system event types with their
// field definitions. Existing rows are left untouched.
func InitData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		parish := &Parish{
			Name:  config.GetString("parish.name"),
			City:  config.GetString("parish.city"),
			State: config.GetString("parish.state"),
		}
		if parish.Name == "" {
			parish.Name = "Parish"
		}
		if err := tx.Attrs(parish).FirstOrCreate(&Parish{}).Error; err != nil {
			return fmt.Errorf("create parish failed: %w", err)
		}

		for _, seed := range seedEventTypes {
			et := &EventType{}
			if err := tx.Where(&EventType{Name: seed.name}).Attrs(&EventType{SystemType: seed.systemType}).FirstOrCreate(et).Error; err != nil {
				return fmt.Errorf("create event type %s failed: %w", seed.name, err)
			}
			for i, fd := range seed.fields {
				fd.EventTypeID = et.ID
				fd.Order = i
				if err := tx.Where(&FieldDefinition{EventTypeID: et.ID, PropertyName: fd.PropertyName}).Attrs(fd).FirstOrCreate(&FieldDefinition{}).Error; err != nil {
					return fmt.Errorf("create field definition %s failed: %w", fd.PropertyName, err)
				}
			}
		}
		return nil
	})
}

type eventTypeSeed struct {
	name       string
	systemType string
	fields     []FieldDefinition
}

var seedEventTypes = []eventTypeSeed{
	{
		name:       "Mass",
		systemType: SystemTypeMass,
		fields: []FieldDefinition{
			{PropertyName: "presider", Name: "Presider", Type: "person", IsKeyPerson: true, IsPerCalendarEvent: true},
			{PropertyName: "first_reader", Name: "First Reader", Type: "person", IsPerCalendarEvent: true},
			{PropertyName: "psalm_reader", Name: "Psalm Reader", Type: "person", IsPerCalendarEvent: true},
			{PropertyName: "second_reader", Name: "Second Reader", Type: "person", IsPerCalendarEvent: true},
			{PropertyName: "cantor", Name: "Cantor", Type: "person", IsPerCalendarEvent: true},
			{PropertyName: "intention", Name: "Mass Intention", Type: "text", IsPerCalendarEvent: true},
		},
	},
	{
		name:       "Wedding",
		systemType: SystemTypeSpecialLiturgy,
		fields: []FieldDefinition{
			{PropertyName: "bride", Name: "Bride", Type: "person", Required: true, IsKeyPerson: true},
			{PropertyName: "groom", Name: "Groom", Type: "person", Required: true, IsKeyPerson: true},
			{PropertyName: "presider", Name: "Presider", Type: "person"},
			{PropertyName: "church", Name: "Church", Type: "location"},
			{PropertyName: "first_reading", Name: "First Reading", Type: "content"},
			{PropertyName: "psalm_reader", Name: "Psalm Reader", Type: "person"},
			{PropertyName: "unity_candle", Name: "Unity Candle", Type: "boolean"},
		},
	},
	{
		name:       "Funeral",
		systemType: SystemTypeSpecialLiturgy,
		fields: []FieldDefinition{
			{PropertyName: "deceased", Name: "Deceased", Type: "person", Required: true, IsKeyPerson: true},
			{PropertyName: "presider", Name: "Presider", Type: "person"},
			{PropertyName: "church", Name: "Church", Type: "location"},
			{PropertyName: "first_reading", Name: "First Reading", Type: "content"},
			{PropertyName: "closing_hymn", Name: "Closing Hymn", Type: "list_item"},
		},
	},
	{
		name:       "Baptism",
		systemType: SystemTypeSpecialLiturgy,
		fields: []FieldDefinition{
			{PropertyName: "child", Name: "Child", Type: "person", Required: true, IsKeyPerson: true},
			{PropertyName: "godparents", Name: "Godparents", Type: "group"},
			{PropertyName: "presider", Name: "Presider", Type: "person"},
		},
	},
}

package model

import "time"

// Parish holds the single parish record shown by {{parish.*}} tokens.
type Parish struct {
	BaseModel
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	City      string    `json:"city" gorm:"type:varchar(100)"`
	State     string    `json:"state" gorm:"type:varchar(50)"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" gorm:"type:timestamp;not null"`
}

func (p *Parish) TableComment() string {
	return "parish"
}

type Person struct {
	BaseModel
	FirstName string `json:"firstName" gorm:"type:varchar(100)"`
	LastName  string `json:"lastName" gorm:"type:varchar(100)"`
	// Sex is MALE or FEMALE when known.
	Sex string `json:"sex" gorm:"type:varchar(10)"`
}

func (p *Person) TableComment() string {
	return "people"
}

type Location struct {
	BaseModel
	Name   string `json:"name" gorm:"type:varchar(200);not null"`
	Street string `json:"street" gorm:"type:varchar(200)"`
	City   string `json:"city" gorm:"type:varchar(100)"`
	State  string `json:"state" gorm:"type:varchar(50)"`
}

func (l *Location) TableComment() string {
	return "locations"
}

type Group struct {
	BaseModel
	Name string `json:"name" gorm:"type:varchar(200);not null"`
}

func (g *Group) TableComment() string {
	return "groups"
}

// ContentItem is a reusable text such as a reading or a prayer.
type ContentItem struct {
	BaseModel
	Title string `json:"title" gorm:"type:varchar(200);not null"`
	Body  string `json:"body" gorm:"type:text"`
}

func (c *ContentItem) TableComment() string {
	return "content library"
}

// CustomListItem is one entry of a parish-defined pick list (hymns, colors).
type CustomListItem struct {
	BaseModel
	ListName string `json:"listName" gorm:"type:varchar(100);index;not null"`
	Value    string `json:"value" gorm:"type:varchar(500);not null"`
}

func (c *CustomListItem) TableComment() string {
	return "custom list items"
}

type Document struct {
	BaseModel
	FileName string `json:"fileName" gorm:"type:varchar(255);not null"`
}

func (d *Document) TableComment() string {
	return "documents"
}

func init() {
	models = append(models, &Parish{}, &Person{}, &Location{}, &Group{}, &ContentItem{}, &CustomListItem{}, &Document{})
}

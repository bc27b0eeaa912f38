package model

// Log is an operation audit entry. CallerID is the identity taken from the
// request token.
type Log struct {
	BaseModel
	CallerID  string `json:"callerId" gorm:"type:varchar(100);index;not null"`
	Action    int    `json:"action" gorm:"not null"`
	TargetID  uint64 `json:"targetId,string" gorm:"index"`
	IP        string `json:"ip" gorm:"type:varchar(50)"`
	UserAgent string `json:"userAgent" gorm:"type:varchar(255)"`
	Failed    bool   `json:"failed" gorm:"default:false;not null"`
}

func (l *Log) TableComment() string {
	return "operation logs"
}

func init() {
	models = append(models, &Log{})
}
